package validator

import (
	"context"
	"errors"
	"fmt"

	"github.com/oshokin/sparkle-appcast/internal/domain/appcast"
	"github.com/oshokin/sparkle-appcast/internal/logger"
	"github.com/oshokin/sparkle-appcast/internal/repository/feed"
)

// Options contains inputs for the validator entry point.
type Options struct {
	// AppcastPath is the path to the appcast document to check.
	AppcastPath string
	// RequireBuild, when set, demands an item with this exact build number.
	RequireBuild string
	// RequireURL, when set, demands an enclosure with this exact URL.
	RequireURL string
}

// errAppcastPathRequired is returned when no document path is provided.
var errAppcastPathRequired = errors.New("appcast path must be provided")

// Run loads the appcast and checks it against the structural rule set.
// It is a pure check: the only side effect is diagnostic output, and the
// first failing rule is reported.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "appcast-validator")

	if opts.AppcastPath == "" {
		return errAppcastPathRequired
	}

	doc, err := feed.NewFileRepository(opts.AppcastPath).Load(ctx)
	if err != nil {
		if errors.Is(err, feed.ErrNotFound) {
			return fmt.Errorf("%w: %s", feed.ErrNotFound, opts.AppcastPath)
		}

		return fmt.Errorf("load appcast: %w", err)
	}

	if err = doc.Validate(appcast.ValidateOptions{
		RequireBuild: opts.RequireBuild,
		RequireURL:   opts.RequireURL,
	}); err != nil {
		return fmt.Errorf("validate appcast: %w", err)
	}

	logger.InfoKV(ctx, "Appcast is valid",
		"path", opts.AppcastPath,
		"items", len(doc.Items()))

	return nil
}
