// Package storage provides local-disk persistence for uploaded files.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStore writes uploads into a directory on disk under generated unique
// names and returns public URLs under baseURL + "/uploads/".
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore ensures the upload directory exists and returns a store.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir returns the directory files are stored in, for static serving.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save stores content under a uuid-based name keeping the original
// extension, and returns the public URL.
func (s *LocalStore) Save(originalFilename string, content io.Reader) (string, error) {
	name := uuid.NewString() + filepath.Ext(filepath.Base(originalFilename))
	path := filepath.Join(s.dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, content); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("write upload file: %w", err)
	}

	return s.baseURL + "/uploads/" + name, nil
}
