package main

import (
	"github.com/philipparndt/gopin/internal/app"
	"github.com/spf13/cobra"
)

var viewCmd = &cobra.Command{
	Use:   "view <model.stl|url|s3://bucket/key>",
	Short: "Open a model and pin comments to it",
	Long: `Open an STL model from a file, an http(s) URL or object storage.
Double-click the model to add a comment, click the X of a comment to delete it.
Local models reload automatically when the file changes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.RunViewer(cfg, args[0])
	},
}

var showcaseCmd = &cobra.Command{
	Use:   "showcase",
	Short: "Open the primitive scene with hover highlighting",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.RunShowcase(cfg)
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(showcaseCmd)
}
