package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DirStore keeps photos as files in a local directory. URIs are either
// file:// URLs or keys relative to the directory.
type DirStore struct {
	root string
}

// NewDirStore creates a store rooted at dir, creating the directory if needed.
func NewDirStore(dir string) (*DirStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve photo directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0750); err != nil {
		return nil, fmt.Errorf("create photo directory: %w", err)
	}
	return &DirStore{root: abs}, nil
}

// path maps a URI to a file inside root, rejecting anything that escapes it.
func (s *DirStore) path(uri string) (string, error) {
	key := strings.TrimPrefix(uri, "file://")
	var p string
	if filepath.IsAbs(key) {
		p = filepath.Clean(key)
	} else {
		p = filepath.Join(s.root, filepath.FromSlash(key))
	}
	rel, err := filepath.Rel(s.root, p)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("photo path %q is outside the photo directory", uri)
	}
	return p, nil
}

// Fetch implements Store.
func (s *DirStore) Fetch(ctx context.Context, uri string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", uri, err)
	}
	p, err := s.path(uri)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p) //nolint:gosec // path confined to root above
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, uri)
	}
	if err != nil {
		return nil, fmt.Errorf("read photo: %w", err)
	}
	return data, nil
}

// Put implements Store. The returned URI is the key relative to the directory.
func (s *DirStore) Put(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("put %s: %w", name, err)
	}
	key := filepath.Base(name)
	p, err := s.path(key)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(p, data, 0600); err != nil {
		return "", fmt.Errorf("write photo: %w", err)
	}
	return key, nil
}

// Delete implements Store.
func (s *DirStore) Delete(ctx context.Context, uri string) error {
	p, err := s.path(uri)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete photo: %w", err)
	}
	return nil
}
