package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/empkg/internal/config"
	"github.com/oshokin/empkg/internal/logger"
	"github.com/oshokin/empkg/internal/packer"
	"github.com/oshokin/empkg/internal/service/packager"
	"github.com/oshokin/empkg/internal/version"
)

var (
	// configPath to the settings YAML file.
	configPath string

	// rootCmd represents the base command for packaging one data file.
	rootCmd = &cobra.Command{
		Use:   "empkg [data-file-path]",
		Short: "Pack staged assets and wire the loader into the companion HTML file",
		Long: `Packs the files staged next to a data file into an archive and wires the loader into the page.

For out/app.data the staging source is out/embed/ (or the list in out/embed.txt),
the companion page is out/app.html and the loader script is out/app.preload.js.
The {{{ PRELOAD }}} placeholder of the page is replaced with a script tag loading it,
then the staging directory is removed. Without a staging source nothing happens.

Environment:
  EMSCRIPTEN       packer toolchain root (required by the external packer)
  EMPKG_VERBOSE    echo the packer invocation before running it (default true)
  EMPKG_LOG_LEVEL  debug, info, warn or error (default info)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Arguments are valid past this point; only report the error.
			cmd.SilenceUsage = true

			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load settings: %w", err)
			}

			if !logger.Configure(cfg.Env.LogLevel) {
				logger.WarnKV(ctx, "Unknown log level, keeping info", "level", cfg.Env.LogLevel)
			}

			options := &packager.Options{
				DataFile: args[0],
				Config:   cfg,
			}

			_, err = packager.Run(ctx, options)

			return err
		},
	}
)

// Execute runs the empkg CLI and exits with non-zero status on error.
// A failing packer process propagates its own exit code.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	err := rootCmd.Execute()
	if err == nil {
		return
	}

	var toolErr *packer.ToolError
	if errors.As(err, &toolErr) && toolErr.ExitCode > 0 {
		os.Exit(toolErr.ExitCode)
	}

	os.Exit(1)
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "",
		"path to settings file (default "+config.DefaultConfigFilename+" when present)")
}
