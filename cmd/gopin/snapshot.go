package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/philipparndt/gopin/internal/annotation"
	"github.com/philipparndt/gopin/internal/loader"
	"github.com/philipparndt/gopin/internal/logging"
	"github.com/philipparndt/gopin/internal/objstore"
	"github.com/philipparndt/gopin/internal/snapshot"
	"github.com/philipparndt/gopin/internal/store"
	"github.com/philipparndt/gopin/pkg/geometry"
	"github.com/spf13/cobra"
)

var (
	snapshotOutput    string
	snapshotThumbnail bool
	snapshotUpload    string
	snapshotNoLabels  bool
	snapshotWidth     int
	snapshotHeight    int
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <model>",
	Short: "Render a model and its comments to PNG",
	Long: `Render a model headless with its stored comments pinned on top.
The image is written to --output and can additionally be uploaded to object
storage with --upload s3://bucket/key.png.`,
	Args: cobra.ExactArgs(1),
	RunE: runSnapshot,
}

func init() {
	snapshotCmd.Flags().StringVarP(&snapshotOutput, "output", "o", "", "output PNG file (default <model>.png)")
	snapshotCmd.Flags().BoolVar(&snapshotThumbnail, "thumbnail", false, "also write a thumbnail next to the output")
	snapshotCmd.Flags().StringVar(&snapshotUpload, "upload", "", "upload the PNG to s3://bucket/key")
	snapshotCmd.Flags().BoolVar(&snapshotNoLabels, "no-labels", false, "draw comment pins without text")
	snapshotCmd.Flags().IntVar(&snapshotWidth, "width", 0, "image width (default from config)")
	snapshotCmd.Flags().IntVar(&snapshotHeight, "height", 0, "image height (default from config)")
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	source := args[0]
	log := logging.For("snapshot")

	opts, err := snapshotOptions()
	if err != nil {
		return err
	}

	var upload objstore.Location
	if snapshotUpload != "" {
		if upload, err = objstore.ParseLocation(snapshotUpload); err != nil {
			return err
		}
	}

	model, err := loadModel(cmd, source)
	if err != nil {
		return err
	}

	annotations, err := storedAnnotations(source)
	if err != nil {
		log.Warn().Err(err).Msg("rendering without comments")
	}

	img, err := snapshot.Render(model, annotations, opts)
	if err != nil {
		return err
	}
	data, err := snapshot.EncodePNG(img)
	if err != nil {
		return err
	}

	output := snapshotOutput
	if output == "" {
		output = strings.TrimSuffix(filepath.Base(source), filepath.Ext(source)) + ".png"
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%dx%d, %d comments)\n", output, opts.Width, opts.Height, len(annotations))

	var thumbData []byte
	if snapshotThumbnail && cfg.Snapshot.Thumbnail > 0 {
		thumbData, err = snapshot.EncodePNG(snapshot.Thumbnail(img, cfg.Snapshot.Thumbnail))
		if err != nil {
			return err
		}
		thumbPath := thumbnailName(output)
		if err := os.WriteFile(thumbPath, thumbData, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", thumbPath, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", thumbPath)
	}

	if snapshotUpload == "" {
		return nil
	}

	client, err := objstore.New(cfg.S3)
	if err != nil {
		return err
	}
	if err := snapshot.Upload(cmd.Context(), client, upload, data); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s\n", upload)

	if thumbData != nil {
		thumbLoc := objstore.Location{Bucket: upload.Bucket, Key: thumbnailName(upload.Key)}
		if err := snapshot.Upload(cmd.Context(), client, thumbLoc, thumbData); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s\n", thumbLoc)
	}
	return nil
}

func snapshotOptions() (snapshot.Options, error) {
	opts := snapshot.DefaultOptions()
	opts.Width = cfg.Snapshot.Width
	opts.Height = cfg.Snapshot.Height
	if snapshotWidth > 0 {
		opts.Width = snapshotWidth
	}
	if snapshotHeight > 0 {
		opts.Height = snapshotHeight
	}
	opts.Labels = !snapshotNoLabels

	if cfg.Snapshot.Color != "" {
		c, err := geometry.ParseColor(cfg.Snapshot.Color)
		if err != nil {
			return opts, fmt.Errorf("invalid snapshot color: %w", err)
		}
		opts.Color = c
	}
	return opts, nil
}

// storedAnnotations reads the comments of source without creating a store
// when there is none yet
func storedAnnotations(source string) ([]annotation.Annotation, error) {
	if !cfg.Storage.Enabled {
		return nil, nil
	}

	local := loader.IsLocalSource(source)
	path := cfg.Storage.Path
	if path == "" {
		var err error
		if path, err = store.DefaultPath(source, local); err != nil {
			return nil, err
		}
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	db, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return db.List(store.ModelKey(source, local))
}

func thumbnailName(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + ".thumb" + ext
}
