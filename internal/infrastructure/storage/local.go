package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"

	"github.com/hastakala/hastakala-api/internal/core/ports"
)

// LocalStore keeps files under a root directory on the local filesystem.
type LocalStore struct {
	root string
}

var _ ports.ContentStore = (*LocalStore)(nil)

// NewLocalStore creates root if needed.
func NewLocalStore(root string) (*LocalStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{root: abs}, nil
}

func (s *LocalStore) file(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

// Write creates the file exclusively; an existing file is never replaced. A
// partially written file is removed before the error is returned.
func (s *LocalStore) Write(ctx context.Context, key string, r io.Reader, _ string) (string, error) {
	if !validKey(key) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := s.file(key)
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return "", fmt.Errorf("create dir: %w", err)
	}

	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(name)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("close file: %w", err)
	}
	return publicPath(key), nil
}

func (s *LocalStore) Delete(_ context.Context, p string) error {
	key, err := keyOf(p)
	if err != nil {
		return err
	}
	if err := os.Remove(s.file(key)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ports.ErrObjectNotFound
		}
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

func (s *LocalStore) Exists(_ context.Context, p string) (bool, error) {
	key, err := keyOf(p)
	if err != nil {
		return false, nil
	}
	info, err := os.Stat(s.file(key))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("stat file: %w", err)
	}
	return info.Mode().IsRegular(), nil
}

func (s *LocalStore) Open(_ context.Context, p string) (io.ReadCloser, string, error) {
	key, err := keyOf(p)
	if err != nil {
		return nil, "", err
	}
	name := s.file(key)
	info, err := os.Stat(name)
	if err != nil || !info.Mode().IsRegular() {
		return nil, "", ports.ErrObjectNotFound
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, "", fmt.Errorf("open file: %w", err)
	}
	return f, mime.TypeByExtension(filepath.Ext(name)), nil
}
