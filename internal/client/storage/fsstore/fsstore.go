// Package fsstore implements storage.Store on top of a plain directory tree.
package fsstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/iudanet/rulekeeper/internal/client/storage"
)

// ErrInvalidPath is returned for paths that are absolute or leave the storage root
var ErrInvalidPath = errors.New("invalid storage path")

// Storage keeps every snapshot in its own file under root.
// Writes go to a temporary file in the same directory and are renamed into place.
type Storage struct {
	root   string
	closed atomic.Bool
}

var _ storage.Store = (*Storage)(nil)

// New creates the root directory if needed and returns a store over it
func New(root string) (*Storage, error) {
	if err := os.MkdirAll(root, 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &Storage{root: root}, nil
}

// Root returns the storage root directory
func (s *Storage) Root() string {
	return s.root
}

func (s *Storage) resolve(path string) (string, error) {
	if s.closed.Load() {
		return "", storage.ErrStorageClosed
	}
	local := filepath.FromSlash(path)
	if !filepath.IsLocal(local) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	return filepath.Join(s.root, local), nil
}

// Write atomically replaces the file under path
func (s *Storage) Write(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := s.resolve(path)
	if err != nil {
		return err
	}

	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	// После успешного rename файла уже нет, Remove вернёт ошибку, которую игнорируем
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return fmt.Errorf("failed to publish %s: %w", path, err)
	}

	return syncDir(dir)
}

// Read returns the content of the file under path
func (s *Storage) Read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	target, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(target)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// Exists reports whether a regular file exists under path
func (s *Storage) Exists(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	target, err := s.resolve(path)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(target)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return info.Mode().IsRegular(), nil
}

// Close marks the store closed. Files stay on disk.
func (s *Storage) Close() error {
	s.closed.Store(true)
	return nil
}

// syncDir сбрасывает на диск запись каталога, чтобы rename пережил сбой питания
func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("failed to open directory %s: %w", dir, err)
	}
	defer d.Close()
	if err := d.Sync(); err != nil && !errors.Is(err, os.ErrInvalid) {
		return fmt.Errorf("failed to sync directory %s: %w", dir, err)
	}
	return nil
}
