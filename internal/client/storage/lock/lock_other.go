//go:build !unix

package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// acquire без flock: эксклюзивное создание файла, файл удаляется при освобождении.
// Lock, брошенный упавшим процессом, придётся удалить вручную.
func acquire(path string) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
	if errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create lock file: %w", err)
	}
	return func() error {
		return errors.Join(f.Close(), os.Remove(path))
	}, nil
}
