package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds feed settings shared by the appcast binaries.
// They describe the channel statics and per-item defaults; everything
// build-specific (build number, download URL) arrives via flags instead.
type Config struct {
	// AppName is the human-facing product name used in channel and item titles.
	AppName string `yaml:"app_name"`
	// FeedLink is the project URL placed in the channel <link> element.
	FeedLink string `yaml:"feed_link"`
	// FeedDescription is the channel <description> text.
	FeedDescription string `yaml:"feed_description"`
	// MinimumSystemVersion is the default OS floor for new items.
	MinimumSystemVersion string `yaml:"minimum_system_version"`
	// EnclosureType is the MIME type written on item enclosures.
	EnclosureType string `yaml:"enclosure_type"`
}

const (
	// DefaultAppName is used in titles when no settings file is provided.
	DefaultAppName = "Inline macOS"

	// DefaultFeedLink is the channel link when no settings file is provided.
	DefaultFeedLink = "https://inline.chat"

	// DefaultFeedDescription is the channel description when no settings file is provided.
	DefaultFeedDescription = "Inline macOS updates"

	// DefaultMinimumSystemVersion is the OS floor applied when neither
	// settings nor flags specify one.
	DefaultMinimumSystemVersion = "15.0"

	// DefaultEnclosureType is the MIME type Sparkle expects on update archives.
	DefaultEnclosureType = "application/octet-stream"

	// DefaultFilePermissions is the default file permission for settings files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errAppNameRequired is returned when the application name is missing.
	errAppNameRequired = errors.New("application name must be provided")
	// errFeedLinkRequired is returned when the feed link is missing.
	errFeedLinkRequired = errors.New("feed link must be provided")
)

// Default returns the built-in feed settings.
func Default() *Config {
	return &Config{
		AppName:              DefaultAppName,
		FeedLink:             DefaultFeedLink,
		FeedDescription:      DefaultFeedDescription,
		MinimumSystemVersion: DefaultMinimumSystemVersion,
		EnclosureType:        DefaultEnclosureType,
	}
}

// Load reads feed settings from the provided path and validates essential fields.
// An empty path yields the built-in defaults; an explicit path must exist and parse.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes feed settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and formatting,
// filling defaults for optional ones.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.AppName == "" {
		return errAppNameRequired
	}

	if cfg.FeedLink == "" {
		return errFeedLinkRequired
	}

	if _, err := url.ParseRequestURI(cfg.FeedLink); err != nil {
		return fmt.Errorf("invalid feed link: %w", err)
	}

	// Set default OS floor if not specified.
	if cfg.MinimumSystemVersion == "" {
		cfg.MinimumSystemVersion = DefaultMinimumSystemVersion
	}

	// Set default enclosure MIME type if not specified.
	if cfg.EnclosureType == "" {
		cfg.EnclosureType = DefaultEnclosureType
	}

	return nil
}
