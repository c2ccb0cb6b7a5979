package updater

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oshokin/sparkle-appcast/internal/config"
	"github.com/oshokin/sparkle-appcast/internal/domain/appcast"
	"github.com/oshokin/sparkle-appcast/internal/logger"
	"github.com/oshokin/sparkle-appcast/internal/repository/feed"
	"github.com/oshokin/sparkle-appcast/internal/signing"
)

// Options contains inputs for the updater entry point.
// Every dependency is explicit; nothing is read from the process environment.
type Options struct {
	// Build is the unique build number of the published artifact.
	Build string
	// DisplayVersion is the human-facing version label (defaults to Build).
	DisplayVersion string
	// Channel is the release channel name used in the channel title.
	Channel string
	// DownloadURL is the artifact location written on the enclosure.
	DownloadURL string
	// MinimumSystemVersion overrides the configured OS floor when set.
	MinimumSystemVersion string
	// Commit is an optional commit reference embedded in the item description.
	Commit string
	// SignUpdatePath is the path to the signing tool's output.
	SignUpdatePath string
	// AppcastPath is the path to the existing appcast, if any.
	AppcastPath string
	// OutputPath is where the updated appcast is written.
	OutputPath string
	// ConfigPath is an optional path to the feed settings YAML.
	ConfigPath string
}

const (
	// DefaultChannel is the release channel assumed when none is given.
	DefaultChannel = "stable"

	// DefaultSignUpdatePath is the conventional signing output filename.
	DefaultSignUpdatePath = "sign_update.txt"

	// DefaultAppcastPath is the conventional input appcast filename.
	DefaultAppcastPath = "appcast.xml"

	// DefaultOutputPath is the conventional output appcast filename.
	// Writing next to the input instead of over it keeps the previous
	// feed intact until the pipeline publishes the new one.
	DefaultOutputPath = "appcast_new.xml"
)

var (
	// errBuildRequired is returned when no build number is provided.
	errBuildRequired = errors.New("build number must be provided")
	// errURLRequired is returned when no download URL is provided.
	errURLRequired = errors.New("download URL must be provided")
)

// Run executes the feed update workflow: parse the signing attributes,
// load or create the feed, upsert one item keyed by build number, and
// write the result. Any read, parse or write failure is fatal.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "appcast-updater")

	if err := normalize(opts); err != nil {
		return err
	}

	// Load feed settings (built-in defaults when no path is given).
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	attrs, err := signing.ParseFile(opts.SignUpdatePath)
	if err != nil {
		return fmt.Errorf("parse signing attributes: %w", err)
	}

	doc, err := loadOrCreate(ctx, opts.AppcastPath)
	if err != nil {
		return err
	}

	doc.EnsureChannel(appcast.ChannelInfo{
		Title:       fmt.Sprintf("%s (%s)", cfg.AppName, opts.Channel),
		Link:        cfg.FeedLink,
		Description: cfg.FeedDescription,
	})

	minSystemVersion := opts.MinimumSystemVersion
	if minSystemVersion == "" {
		minSystemVersion = cfg.MinimumSystemVersion
	}

	item := appcast.Item{
		Title:                fmt.Sprintf("%s %s", cfg.AppName, opts.DisplayVersion),
		PubDate:              time.Now().UTC(),
		Build:                opts.Build,
		DisplayVersion:       opts.DisplayVersion,
		MinimumSystemVersion: minSystemVersion,
		Description:          releaseNotes(opts.Build, opts.Commit),
		Enclosure: appcast.Enclosure{
			URL:        opts.DownloadURL,
			Type:       cfg.EnclosureType,
			Attributes: attrs,
		},
	}

	removed, err := doc.Upsert(item)
	if err != nil {
		return fmt.Errorf("upsert item: %w", err)
	}

	if removed > 0 {
		logger.InfoKV(ctx, "Replaced existing item", "build", opts.Build, "removed", removed)
	}

	if err = feed.NewFileRepository(opts.OutputPath).Save(ctx, doc); err != nil {
		return fmt.Errorf("save appcast: %w", err)
	}

	logger.InfoKV(ctx, "Appcast updated",
		"build", opts.Build,
		"version", opts.DisplayVersion,
		"channel", opts.Channel,
		"output", opts.OutputPath)

	return nil
}

// normalize validates required options and fills defaults.
func normalize(opts *Options) error {
	if opts.Build == "" {
		return errBuildRequired
	}

	if opts.DownloadURL == "" {
		return errURLRequired
	}

	if opts.DisplayVersion == "" {
		opts.DisplayVersion = opts.Build
	}

	if opts.Channel == "" {
		opts.Channel = DefaultChannel
	}

	if opts.SignUpdatePath == "" {
		opts.SignUpdatePath = DefaultSignUpdatePath
	}

	if opts.AppcastPath == "" {
		opts.AppcastPath = DefaultAppcastPath
	}

	if opts.OutputPath == "" {
		opts.OutputPath = DefaultOutputPath
	}

	return nil
}

// loadOrCreate reads the existing appcast, starting fresh only when the file
// is absent. A malformed feed aborts the run; it is never replaced with an
// empty document.
func loadOrCreate(ctx context.Context, path string) (*appcast.Document, error) {
	doc, err := feed.NewFileRepository(path).Load(ctx)

	switch {
	case errors.Is(err, feed.ErrNotFound):
		logger.InfoKV(ctx, "No existing appcast, starting fresh", "path", path)
		return appcast.New(), nil
	case err != nil:
		return nil, fmt.Errorf("load appcast: %w", err)
	}

	return doc, nil
}

// releaseNotes renders the optional HTML description for an item.
func releaseNotes(build, commit string) string {
	if commit == "" {
		return ""
	}

	return fmt.Sprintf("<p>Build %s from commit %s.</p>", build, commit)
}
