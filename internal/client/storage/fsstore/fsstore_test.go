package fsstore

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/rulekeeper/internal/client/storage"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestWriteRead(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	path := storage.ActiveRulesPath("org:mod1")
	require.NoError(t, s.Write(ctx, path, []byte("first")))
	require.NoError(t, s.Write(ctx, path, []byte("second")))

	data, err := s.Read(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), data)

	// файл лежит по ожидаемому относительному пути
	_, err = os.Stat(filepath.Join(s.Root(), filepath.FromSlash(path)))
	require.NoError(t, err)
}

func TestWrite_NoTempFilesLeft(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	require.NoError(t, s.Write(ctx, storage.RuleCatalogPath, []byte("rules")))

	entries, err := os.ReadDir(filepath.Dir(filepath.Join(s.Root(), filepath.FromSlash(storage.RuleCatalogPath))))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "rules.pb", entries[0].Name())
}

func TestRead_NotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	_, err := s.Read(ctx, storage.ProjectListPath)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	ok, err := s.Exists(ctx, storage.ProjectListPath)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExists(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	require.NoError(t, s.Write(ctx, storage.GlobalSyncStatusPath, []byte{1}))

	ok, err := s.Exists(ctx, storage.GlobalSyncStatusPath)
	require.NoError(t, err)
	assert.True(t, ok)

	// каталог не считается значением
	ok, err = s.Exists(ctx, "v1/global")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInvalidPath(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	for _, p := range []string{"../escape", "/abs/path", "", "v1/../../x"} {
		t.Run(p, func(t *testing.T) {
			err := s.Write(ctx, p, []byte("x"))
			assert.ErrorIs(t, err, ErrInvalidPath)
		})
	}
}

func TestClosed(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	require.NoError(t, s.Close())

	err := s.Write(ctx, "k", []byte("v"))
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	_, err = s.Read(ctx, "k")
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestConcurrentReadersSeeWholeValues(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	a := make([]byte, 64*1024)
	b := make([]byte, 64*1024)
	for i := range b {
		b[i] = 1
	}
	require.NoError(t, s.Write(ctx, "blob", a))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			if i%2 == 0 {
				assert.NoError(t, s.Write(ctx, "blob", b))
			} else {
				assert.NoError(t, s.Write(ctx, "blob", a))
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			data, err := s.Read(ctx, "blob")
			if !assert.NoError(t, err) {
				return
			}
			assert.Len(t, data, len(a))
			// значение целиком из одной записи
			assert.Equal(t, data[0], data[len(data)-1])
		}
	}()
	wg.Wait()
}
