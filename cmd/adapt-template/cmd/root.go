package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/empkg/internal/config"
	"github.com/oshokin/empkg/internal/logger"
	"github.com/oshokin/empkg/internal/service/adapter"
	"github.com/oshokin/empkg/internal/version"
)

var (
	// pathMode selects which load paths the bootstrap block contains.
	pathMode string

	// rootCmd represents the base command for adapting one template.
	rootCmd = &cobra.Command{
		Use:   "adapt-template [project-identifier] [template-file]",
		Short: "Insert the load-time bootstrap block into an HTML template",
		Long: `Replaces the {{{ SCRIPT }}} placeholder of the template with an inline block that
probes for binary module support and loads either P-wasm.preload.js and P-wasm.js,
or P-asmjs.preload.js, P-asmjs.html.mem and P-asmjs.js. The {{{ PRELOAD }}}
placeholder is cleared. The template is modified in place.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := adapter.ParseMode(pathMode)
			if err != nil {
				return err
			}

			// Arguments are valid past this point; only report the error.
			cmd.SilenceUsage = true

			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			environment, err := config.LoadEnvironment()
			if err != nil {
				return err
			}

			if !logger.Configure(environment.LogLevel) {
				logger.WarnKV(ctx, "Unknown log level, keeping info", "level", environment.LogLevel)
			}

			options := &adapter.Options{
				Project:      args[0],
				TemplatePath: args[1],
				Mode:         mode,
			}

			return adapter.Run(ctx, options)
		},
	}
)

// Execute runs the adapt-template CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&pathMode, "path", "p", string(adapter.ModeAuto),
		"load paths to emit: auto (probe at load time), fast or fallback")
}
