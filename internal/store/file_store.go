package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	perrors "github.com/abgdnv/catalog/internal/errors"
)

// FileStore implements ProductStore on top of a single JSON file holding an array of products.
//
// There is no locking: two overlapping read-modify-write cycles may both read the same collection,
// in which case the last rename wins and the other update is lost.
type FileStore struct {
	path string
	perm fs.FileMode
}

// NewFileStore creates a FileStore persisting the collection at path with the given file mode.
// The file and its parent directory are created on the first save.
func NewFileStore(path string, perm fs.FileMode) *FileStore {
	if perm == 0 {
		perm = 0o644
	}
	return &FileStore{path: path, perm: perm}
}

// Path returns the location of the collection file.
func (s *FileStore) Path() string {
	return s.path
}

// LoadAll reads and decodes the collection file. A missing or empty file is an empty collection.
func (s *FileStore) LoadAll(ctx context.Context) ([]Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Product{}, nil
		}
		return nil, &perrors.StorageError{Op: "read", Path: s.path, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []Product{}, nil
	}

	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, &perrors.StorageError{Op: "decode", Path: s.path, Err: err}
	}
	if err := checkIDs(products); err != nil {
		return nil, &perrors.StorageError{Op: "decode", Path: s.path, Err: err}
	}
	if products == nil {
		products = []Product{}
	}
	return products, nil
}

// SaveAll encodes the collection as indented JSON, writes it to a temporary file next to the target
// and renames it over the target.
func (s *FileStore) SaveAll(ctx context.Context, products []Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if products == nil {
		products = []Product{}
	}
	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return &perrors.StorageError{Op: "encode", Path: s.path, Err: err}
	}
	data = append(data, '\n')

	if err := s.writeAtomic(data); err != nil {
		return &perrors.StorageError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}

func (s *FileStore) writeAtomic(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	// the temp file is gone after a successful rename, so this only cleans up failures
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, s.perm); err != nil {
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// checkIDs rejects collections a hand edit could have broken: ids below 1 and repeated ids.
// Non-integer ids already fail to decode into int64.
func checkIDs(products []Product) error {
	seen := make(map[int64]struct{}, len(products))
	for i, p := range products {
		if p.ID < 1 {
			return fmt.Errorf("product at position %d has invalid id %d", i, p.ID)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("duplicate product id %d", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}
