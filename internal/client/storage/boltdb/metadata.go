package boltdb

import (
	"context"
	"errors"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/rulekeeper/internal/client/storage"
)

const (
	keyLayoutVersion = "layout_version"
)

// ErrLayoutMismatch is returned when the database was written with another storage layout
var ErrLayoutMismatch = errors.New("storage layout mismatch")

// checkLayoutVersion записывает версию раскладки в новую базу
// и отказывается открывать базу другой версии
func (s *Storage) checkLayoutVersion(ctx context.Context) error {
	version, err := s.LayoutVersion(ctx)
	if err != nil {
		return err
	}
	if version == "" {
		return s.saveLayoutVersion(storage.Version)
	}
	if version != storage.Version {
		return fmt.Errorf("%w: database has v%s, expected v%s", ErrLayoutMismatch, version, storage.Version)
	}
	return nil
}

func (s *Storage) saveLayoutVersion(version string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		if err := bucket.Put([]byte(keyLayoutVersion), []byte(version)); err != nil {
			return fmt.Errorf("failed to save layout version: %w", err)
		}

		return nil
	})
}

// LayoutVersion returns the storage layout version recorded in the database.
// Returns an empty string for a database that has none yet
func (s *Storage) LayoutVersion(ctx context.Context) (string, error) {
	var version string

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		version = string(bucket.Get([]byte(keyLayoutVersion)))
		return nil
	})

	if err != nil {
		return "", fmt.Errorf("failed to get layout version: %w", err)
	}

	return version, nil
}
