package main

import (
	"fmt"

	"github.com/philipparndt/gopin/internal/loader"
	"github.com/philipparndt/gopin/internal/objstore"
	"github.com/philipparndt/gopin/pkg/geometry"
	"github.com/philipparndt/gopin/pkg/stl"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <model>",
	Short: "Display general information about a model",
	Long:  "Show triangle count, surface area, volume and bounding box of an STL model.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	source := args[0]
	model, err := loadModel(cmd, source)
	if err != nil {
		return err
	}

	bbox := model.BoundingBox()
	size := bbox.Size()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Model Information")
	fmt.Fprintln(out, "=================")
	if model.Name != "" {
		fmt.Fprintf(out, "Name: %s\n", model.Name)
	}
	fmt.Fprintf(out, "Source: %s\n\n", source)

	fmt.Fprintln(out, "Model Statistics:")
	fmt.Fprintf(out, "  Triangles: %d\n", model.TriangleCount())
	fmt.Fprintf(out, "  Surface Area: %.6f square units\n", model.SurfaceArea())
	fmt.Fprintf(out, "  Volume: %.6f cubic units\n\n", model.Volume())

	fmt.Fprintln(out, "Bounding Box:")
	fmt.Fprintf(out, "  Min: %s\n", formatVector(bbox.Min))
	fmt.Fprintf(out, "  Max: %s\n", formatVector(bbox.Max))
	fmt.Fprintf(out, "  Center: %s\n", formatVector(bbox.Center()))
	fmt.Fprintf(out, "  Size: %.6f x %.6f x %.6f\n", size.X, size.Y, size.Z)
	fmt.Fprintf(out, "  Diagonal: %.6f units\n", bbox.Diagonal())
	return nil
}

// loadModel reads a model from any supported source
func loadModel(cmd *cobra.Command, source string) (*stl.Model, error) {
	var objects *objstore.Client
	if objstore.IsLocation(source) {
		client, err := objstore.New(cfg.S3)
		if err != nil {
			return nil, err
		}
		objects = client
	}
	return loader.NewModelLoader(nil, objects).LoadNow(cmd.Context(), source)
}

func formatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
