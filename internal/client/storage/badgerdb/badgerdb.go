// Package badgerdb implements storage.Store on top of BadgerDB.
package badgerdb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/iudanet/rulekeeper/internal/client/storage"
)

// keyPrefix отделяет snapshot-ключи от возможных служебных записей
const keyPrefix = "snap/"

// Config holds configuration for a BadgerDB store
type Config struct {
	// Logger receives BadgerDB internal messages. nil disables them.
	Logger *slog.Logger

	// Path is the database directory. Ignored when InMemory is true.
	Path string

	// InMemory keeps everything in RAM, used in tests
	InMemory bool

	// SyncWrites fsyncs every commit
	SyncWrites bool
}

// Storage represents BadgerDB implementation of storage.Store
type Storage struct {
	db *badger.DB
}

var _ storage.Store = (*Storage)(nil)

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Open opens a BadgerDB store with the given configuration
func Open(cfg Config) (*Storage, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0700); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}

	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return &Storage{db: db}, nil
}

// Write stores data under path
func (s *Storage) Write(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+path), data)
	})
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, mapErr(err))
	}
	return nil
}

// Read returns the data stored under path
func (s *Storage) Read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + path))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, mapErr(err))
	}
	return data, nil
}

// Exists reports whether a value is stored under path
func (s *Storage) Exists(ctx context.Context, path string) (bool, error) {
	_, err := s.Read(ctx, path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, storage.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db.IsClosed() {
		return nil
	}
	return s.db.Close()
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return storage.ErrNotFound
	case errors.Is(err, badger.ErrDBClosed):
		return storage.ErrStorageClosed
	}
	return err
}
