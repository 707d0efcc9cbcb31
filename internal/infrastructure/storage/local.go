package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Local persists uploaded files under a configurable root directory. It
// implements the catalog FileStore collaborator.
type Local struct {
	Root string
}

// NewLocal creates the root directory if absent.
func NewLocal(root string) (*Local, error) {
	if root == "" {
		return nil, fmt.Errorf("storage: upload root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create upload root: %w", err)
	}
	return &Local{Root: root}, nil
}

// Save writes src to <root>/<name> and returns the stored name. Only the base
// of name is used, so a crafted name cannot escape the root.
func (s *Local) Save(src io.Reader, name string) (string, error) {
	name = filepath.Base(name)
	dst, err := os.Create(filepath.Join(s.Root, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return name, nil
}

// Delete removes a stored file. Returns os.ErrNotExist (wrapped) when the
// file is already gone; callers treat deletion as best-effort.
func (s *Local) Delete(name string) error {
	return os.Remove(filepath.Join(s.Root, filepath.Base(name)))
}
