package main

import (
	"context"
	"fmt"
	"os"

	"github.com/philipparndt/gopin/internal/config"
	"github.com/philipparndt/gopin/internal/logging"
	"github.com/philipparndt/gopin/version"
	"github.com/spf13/cobra"
)

var (
	configFile string
	logLevel   string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "gopin",
	Short: "3D model viewer with comment pins",
	Long: `gopin is a 3D viewer for STL models. Double-click the model to pin a
comment to its surface; comments are stored next to the model and can be
rendered into snapshots.`,
	Version:       version.GetVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			loaded.LogLevel = logLevel
		}
		logging.Setup(os.Stderr, loaded.LogLevel)
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
