package feed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/oshokin/sparkle-appcast/internal/domain/appcast"
)

// Repository defines persistence operations for the appcast document.
type Repository interface {
	Load(ctx context.Context) (*appcast.Document, error)
	Save(ctx context.Context, doc *appcast.Document) error
}

// FileRepository persists the appcast document as XML on disk.
// It serializes with the standard declaration and creates parent
// directories on save.
type FileRepository struct {
	// path is the filesystem location of the appcast file.
	path string
	// mu protects concurrent access to the appcast file.
	mu sync.Mutex
}

const (
	// DefaultFilePermissions is the file mode for written appcast documents.
	DefaultFilePermissions os.FileMode = 0o644
	// defaultDirPermissions is the mode for created parent directories.
	defaultDirPermissions os.FileMode = 0o755
)

// ErrNotFound is returned when the appcast file does not exist yet.
var ErrNotFound = errors.New("appcast not found")

// NewFileRepository creates a repository that reads/writes XML at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Load reads and parses the appcast from disk.
func (r *FileRepository) Load(_ context.Context) (*appcast.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read appcast file: %w", err)
	}

	doc, err := appcast.Parse(contents)
	if err != nil {
		return nil, fmt.Errorf("decode appcast file: %w", err)
	}

	return doc, nil
}

// Save writes the appcast to disk, creating parent directories as needed.
func (r *FileRepository) Save(_ context.Context, doc *appcast.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := doc.Bytes()
	if err != nil {
		return fmt.Errorf("encode appcast: %w", err)
	}

	if dir := filepath.Dir(r.path); dir != "." {
		if err = os.MkdirAll(dir, defaultDirPermissions); err != nil {
			return fmt.Errorf("create appcast directory: %w", err)
		}
	}

	if err = os.WriteFile(r.path, data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write appcast file: %w", err)
	}

	return nil
}
