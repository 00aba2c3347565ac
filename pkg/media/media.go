package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Store saves product images on the local filesystem under a single
// root directory and hands back repository-relative paths.
type Store struct {
	root string
}

// NewStore creates a Store rooted at dir, creating it if necessary.
func NewStore(dir string) (*Store, error) {
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("media: resolve working directory: %w", err)
		}
		dir = filepath.Join(cwd, dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("media: mkdir %s: %w", dir, err)
	}
	return &Store{root: dir}, nil
}

// Save writes the content to a new file with a random name, preserving
// the original extension, and returns the relative path.
func (s *Store) Save(originalName string, r io.Reader) (string, error) {
	name := uuid.New().String() + filepath.Ext(originalName)
	full := filepath.Join(s.root, name)

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("media: create %s: %w", name, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("media: write %s: %w", name, err)
	}
	return name, nil
}

// Open returns a reader for a stored asset.
func (s *Store) Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.root, filepath.Base(path)))
	if err != nil {
		return nil, fmt.Errorf("media: open %s: %w", path, err)
	}
	return f, nil
}

// Remove deletes a stored asset. Removing a missing asset is not an
// error; the asset is gone either way.
func (s *Store) Remove(path string) error {
	err := os.Remove(filepath.Join(s.root, filepath.Base(path)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("media: remove %s: %w", path, err)
	}
	return nil
}
