package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/sparkle-appcast/internal/logger"
	"github.com/oshokin/sparkle-appcast/internal/service/updater"
	"github.com/oshokin/sparkle-appcast/internal/version"
)

var (
	// opts collects every updater input from command-line flags.
	opts updater.Options
	// logLevel sets the minimum diagnostic level.
	logLevel string

	// rootCmd represents the base command for generating the appcast.
	rootCmd = &cobra.Command{
		Use:   "appcast-updater",
		Short: "Generate or update the Sparkle appcast for a published build.",
		Long: `Generate or update the Sparkle appcast for a published build.

Reads the signing tool's key=value output, loads the existing appcast when
present, replaces any item carrying the same build number, appends the new
item, and writes the result to the output path. A malformed existing appcast
aborts the run instead of being replaced with an empty feed.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if lvl, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(lvl)
			}

			return updater.Run(ctx, &opts)
		},
	}
)

// Execute runs the appcast-updater CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&opts.Build, "build", "b", "", "build number of the published artifact (required)")
	rootCmd.Flags().StringVar(&opts.DisplayVersion, "version", "", "human-facing version label (defaults to the build number)")
	rootCmd.Flags().StringVar(&opts.Channel, "channel", updater.DefaultChannel, "release channel name")
	rootCmd.Flags().StringVarP(&opts.DownloadURL, "url", "u", "", "artifact download URL (required)")
	rootCmd.Flags().StringVar(&opts.MinimumSystemVersion, "min-system-version", "", "minimum OS version for the update (defaults from settings)")
	rootCmd.Flags().StringVar(&opts.Commit, "commit", "", "commit reference embedded in the item description")
	rootCmd.Flags().StringVar(&opts.SignUpdatePath, "sign-update", updater.DefaultSignUpdatePath, "path to the signing tool output")
	rootCmd.Flags().StringVar(&opts.AppcastPath, "appcast", updater.DefaultAppcastPath, "path to the existing appcast")
	rootCmd.Flags().StringVarP(&opts.OutputPath, "output", "o", updater.DefaultOutputPath, "path for the updated appcast")
	rootCmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to feed settings file")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "info", "log level: debug, info, warn, error, fatal")

	for _, flag := range []string{"build", "url"} {
		if err := rootCmd.MarkFlagRequired(flag); err != nil {
			panic(err)
		}
	}
}
