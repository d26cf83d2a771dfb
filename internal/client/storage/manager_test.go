package storage_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/rulekeeper/internal/client/storage"
	"github.com/iudanet/rulekeeper/internal/client/storage/fsstore"
	"github.com/iudanet/rulekeeper/internal/models"
	"github.com/iudanet/rulekeeper/internal/snapshot"
)

func newManager(t *testing.T, opts ...storage.ManagerOption) *storage.Manager {
	t.Helper()
	store, err := fsstore.New(t.TempDir())
	require.NoError(t, err)
	m, err := storage.NewManager(store, nil, opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = m.Close()
	})
	return m
}

func testCatalog(n int) *models.RuleCatalog {
	c := models.NewRuleCatalog()
	for i := 0; i < n; i++ {
		c.Put(models.Rule{
			Key:        fmt.Sprintf("java:S%d", i),
			Repository: "java",
			Name:       fmt.Sprintf("Rule %d", i),
			Severity:   models.SeverityMajor,
			Language:   "java",
		})
	}
	return c
}

func TestManager_ProjectListRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)

	list := models.NewProjectList()
	list.Put(models.Project{Key: "proj1", Name: "Project 1"})
	list.Put(models.Project{Key: "proj2", Name: "Project 2"})
	require.NoError(t, m.SaveProjectList(ctx, list))

	got, err := m.GetProjectList(ctx)
	require.NoError(t, err)
	assert.Equal(t, list, got)
}

func TestManager_NotFound(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)

	_, err := m.GetGlobalSyncStatus(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = m.GetModuleSyncStatus(ctx, "mod1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = m.GetActiveRules(ctx, "mod1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = m.GetRuleCatalog(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestManager_SyncStatus(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)

	global := &models.GlobalSyncStatus{ServerID: "srv", ServerVersion: "9.9", LastSyncTimestamp: 1700000000000}
	require.NoError(t, m.SaveGlobalSyncStatus(ctx, global))
	gotGlobal, err := m.GetGlobalSyncStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, global, gotGlobal)

	module := &models.ModuleSyncStatus{ModuleKey: "org:mod1", LastSyncTimestamp: 42}
	require.NoError(t, m.SaveModuleSyncStatus(ctx, module))
	gotModule, err := m.GetModuleSyncStatus(ctx, "org:mod1")
	require.NoError(t, err)
	assert.Equal(t, module, gotModule)

	ok, err := m.HasModuleSyncStatus(ctx, "org:mod1")
	require.NoError(t, err)
	assert.True(t, ok)

	// другой модуль не затронут
	ok, err = m.HasModuleSyncStatus(ctx, "org:mod2")
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = m.GetModuleSyncStatus(ctx, "org:mod2")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestManager_ActiveRulesRequireModuleKey(t *testing.T) {
	m := newManager(t)
	err := m.SaveActiveRules(context.Background(), models.NewActiveRules(""))
	assert.Error(t, err)
}

func TestManager_CorruptData(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)

	require.NoError(t, m.Store().Write(ctx, storage.ModuleListPath, []byte("garbage")))

	_, err := m.GetModuleList(ctx)
	assert.ErrorIs(t, err, storage.ErrCorruptData)
}

func TestManager_WriteError(t *testing.T) {
	ctx := context.Background()
	writeErr := errors.New("disk full")
	store := &storage.StoreMock{
		WriteFunc: func(ctx context.Context, path string, data []byte) error {
			return writeErr
		},
	}
	m, err := storage.NewManager(store, nil)
	require.NoError(t, err)

	err = m.SaveRuleCatalog(ctx, testCatalog(1))
	assert.ErrorIs(t, err, writeErr)
	require.Len(t, store.WriteCalls(), 1)
	assert.Equal(t, storage.RuleCatalogPath, store.WriteCalls()[0].Path)
}

func TestManager_RuleCatalogCache(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, storage.WithRuleCatalogCache(4))

	require.NoError(t, m.SaveRuleCatalog(ctx, testCatalog(3)))

	first, err := m.GetRuleCatalog(ctx)
	require.NoError(t, err)
	second, err := m.GetRuleCatalog(ctx)
	require.NoError(t, err)
	// тот же snapshot декодируется один раз
	assert.Same(t, first, second)
	assert.Equal(t, 3, first.Len())

	// новый snapshot даёт новый каталог
	require.NoError(t, m.SaveRuleCatalog(ctx, testCatalog(5)))
	third, err := m.GetRuleCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, third.Len())
}

func TestManager_RuleCatalogCacheConcurrent(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, storage.WithRuleCatalogCache(1))
	require.NoError(t, m.SaveRuleCatalog(ctx, testCatalog(200)))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := m.GetRuleCatalog(ctx)
			if assert.NoError(t, err) {
				assert.Equal(t, 200, c.Len())
			}
		}()
	}
	wg.Wait()
}

func TestManager_RuleCatalogCacheCorrupt(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, storage.WithRuleCatalogCache(4))

	require.NoError(t, m.Store().Write(ctx, storage.RuleCatalogPath, []byte("short")))

	_, err := m.GetRuleCatalog(ctx)
	assert.ErrorIs(t, err, storage.ErrCorruptData)
}

func TestManager_RuleCatalogCacheCorruptedAfterRead(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, storage.WithRuleCatalogCache(4))

	require.NoError(t, m.SaveRuleCatalog(ctx, testCatalog(3)))
	_, err := m.GetRuleCatalog(ctx)
	require.NoError(t, err)

	data, err := m.Store().Read(ctx, storage.RuleCatalogPath)
	require.NoError(t, err)
	corrupted := append([]byte(nil), data...)
	corrupted[len(corrupted)-1] ^= 0xff
	require.NoError(t, m.Store().Write(ctx, storage.RuleCatalogPath, corrupted))

	_, err = m.GetRuleCatalog(ctx)
	assert.ErrorIs(t, err, storage.ErrCorruptData)
	assert.ErrorIs(t, err, snapshot.ErrCorrupt)
}

func TestManager_SaveIsDeterministic(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)

	list := models.NewModuleList()
	for i := 0; i < 50; i++ {
		list.Put(models.Module{Key: fmt.Sprintf("mod%d", i), Name: "m", Qualifier: models.QualifierProject})
	}

	require.NoError(t, m.SaveModuleList(ctx, list))
	first, err := m.Store().Read(ctx, storage.ModuleListPath)
	require.NoError(t, err)

	require.NoError(t, m.SaveModuleList(ctx, list))
	second, err := m.Store().Read(ctx, storage.ModuleListPath)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
