package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore serves assets from a directory on disk (the default).
type LocalStore struct {
	root string
}

// NewLocalStore creates a local asset store rooted at dir.
func NewLocalStore(dir string) (*LocalStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve asset root %q: %w", dir, err)
	}
	return &LocalStore{root: abs}, nil
}

// Open returns a reader for the file at key. Keys resolving outside the
// root are rejected even if the caller skipped sanitization.
func (s *LocalStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	p, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("failed to open asset %q: %w", key, err)
	}
	return f, nil
}

// Exists checks if the file at key exists.
func (s *LocalStore) Exists(_ context.Context, key string) (bool, error) {
	p, err := s.resolve(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(p)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// URL returns empty: local assets have no public URL of their own.
func (s *LocalStore) URL(string) string {
	return ""
}

func (s *LocalStore) resolve(key string) (string, error) {
	p := filepath.Join(s.root, filepath.FromSlash(key))
	if p != s.root && !strings.HasPrefix(p, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("asset key %q escapes the asset root", key)
	}
	return p, nil
}
