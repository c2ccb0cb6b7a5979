package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/sparkle-appcast/internal/logger"
	"github.com/oshokin/sparkle-appcast/internal/service/validator"
	"github.com/oshokin/sparkle-appcast/internal/version"
)

var (
	// opts collects every validator input from command-line flags.
	opts validator.Options
	// logLevel sets the minimum diagnostic level.
	logLevel string

	// rootCmd represents the base command for checking the appcast.
	rootCmd = &cobra.Command{
		Use:   "appcast-validator",
		Short: "Validate the structure of a Sparkle appcast.",
		Long: `Validate the structure of a Sparkle appcast.

Checks that the document parses, uses the Sparkle namespace, contains a
channel with at least one item, and that every item carries a build number,
a display version, and an enclosure with url, signature and length. Optional
filters demand that a specific build number and download URL are published.

Exits 0 when every rule passes, 1 otherwise with the first failing rule on stderr.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if lvl, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(lvl)
			}

			return validator.Run(ctx, &opts)
		},
	}
)

// Execute runs the appcast-validator CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&opts.AppcastPath, "appcast", "a", "", "path to the appcast document (required)")
	rootCmd.Flags().StringVar(&opts.RequireBuild, "require-build", "", "demand an item with this exact build number")
	rootCmd.Flags().StringVar(&opts.RequireURL, "require-url", "", "demand an enclosure with this exact URL")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "info", "log level: debug, info, warn, error, fatal")

	if err := rootCmd.MarkFlagRequired("appcast"); err != nil {
		panic(err)
	}
}
