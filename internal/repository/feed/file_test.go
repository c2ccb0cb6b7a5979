package feed

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/sparkle-appcast/internal/domain/appcast"
)

// testDocument builds a single-item appcast for persistence tests.
func testDocument(t *testing.T) *appcast.Document {
	t.Helper()

	doc := appcast.New()
	doc.EnsureChannel(appcast.ChannelInfo{
		Title:       "Example App (stable)",
		Link:        "https://example.com",
		Description: "Example App updates",
	})

	_, err := doc.Upsert(appcast.Item{
		Title:                "Example App 1.2.0",
		PubDate:              time.Date(2026, time.August, 23, 12, 0, 0, 0, time.UTC),
		Build:                "42",
		DisplayVersion:       "1.2.0",
		MinimumSystemVersion: "15.0",
		Enclosure: appcast.Enclosure{
			URL:  "https://example.com/app-42.dmg",
			Type: "application/octet-stream",
			Attributes: appcast.Attributes{
				{Key: "sparkle:edSignature", Value: "c2ln"},
				{Key: "length", Value: "123456"},
			},
		},
	})
	require.NoError(t, err)

	return doc
}

// TestFileRepository_NotFound verifies Load returns ErrNotFound for missing file.
func TestFileRepository_NotFound(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(filepath.Join(t.TempDir(), "missing.xml"))

	doc, err := repo.Load(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
	require.Nil(t, doc)
}

// TestFileRepository_Malformed verifies Load surfaces parse failures.
func TestFileRepository_Malformed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.xml")
	require.NoError(t, os.WriteFile(path, []byte("<rss><channel>"), 0o600))

	_, err := NewFileRepository(path).Load(context.Background())
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
}

// TestFileRepository_SaveLoad_Roundtrip ensures Save followed by Load returns an equal document.
func TestFileRepository_SaveLoad_Roundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "appcast.xml")
	repo := NewFileRepository(path)

	require.NoError(t, repo.Save(context.Background(), testDocument(t)))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got.Items(), 1)
	require.NotNil(t, got.FindBuild("42"))
	require.True(t, got.HasEnclosureURL("https://example.com/app-42.dmg"))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(contents), `<?xml`)
}

// TestFileRepository_CreatesParentDirectories ensures Save works for nested output paths.
func TestFileRepository_CreatesParentDirectories(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out", "nested", "appcast.xml")
	repo := NewFileRepository(path)

	require.NoError(t, repo.Save(context.Background(), testDocument(t)))

	_, err := os.Stat(path)
	require.NoError(t, err)
}
