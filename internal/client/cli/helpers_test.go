package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iudanet/rulekeeper/internal/analysis"
	"github.com/iudanet/rulekeeper/internal/client/engine"
	"github.com/iudanet/rulekeeper/internal/client/iocli"
	"github.com/iudanet/rulekeeper/internal/client/storage"
	"github.com/iudanet/rulekeeper/internal/client/storage/fsstore"
	"github.com/iudanet/rulekeeper/internal/client/sync"
	"github.com/iudanet/rulekeeper/internal/logging"
	"github.com/iudanet/rulekeeper/internal/models"
)

// newTestIO собирает весь вывод в buf
func newTestIO(buf *bytes.Buffer) *iocli.IOMock {
	return &iocli.IOMock{
		PrintlnFunc: func(a ...any) { fmt.Fprintln(buf, a...) },
		PrintfFunc:  func(format string, a ...any) { fmt.Fprintf(buf, format, a...) },
		WriteFunc:   func(p []byte) (int, error) { return buf.Write(p) },
		IsTerminalFunc: func() bool {
			return false
		},
	}
}

type testEnv struct {
	manager *storage.Manager
	root    string
	out     *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()
	store, err := fsstore.New(root)
	require.NoError(t, err)
	m, err := storage.NewManager(store, logging.Discard())
	require.NoError(t, err)
	return &testEnv{manager: m, root: root, out: &bytes.Buffer{}}
}

// cli создает Cli над реальным engine; svc может быть nil
func (env *testEnv) cli(t *testing.T, svc sync.Service) *Cli {
	t.Helper()
	opts := []engine.Option{engine.WithLogger(logging.Discard())}
	if svc != nil {
		opts = append(opts, engine.WithSync(svc))
	}
	e := engine.New(engine.Config{ServerID: "local", StorageRoot: env.root}, env.manager, opts...)
	require.NoError(t, e.Start(context.Background()))
	return New(newTestIO(env.out), e, "local")
}

func (env *testEnv) seedGlobal(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	plugins := models.NewPluginIndex()
	plugins.Put(models.Plugin{Key: analysis.TextPluginKey, Name: "Text"})
	require.NoError(t, env.manager.SavePluginIndex(ctx, plugins))

	catalog := models.NewRuleCatalog()
	catalog.Put(models.Rule{Key: analysis.RuleLineLength, Name: "Lines should not be too long", Severity: models.SeverityMajor, Language: "text"})
	catalog.Put(models.Rule{Key: analysis.RuleTodoComment, Name: "Track TODO", HTMLDescription: "<p>Track TODO tags</p>", Severity: models.SeverityInfo, Language: "text"})
	require.NoError(t, env.manager.SaveRuleCatalog(ctx, catalog))

	modules := models.NewModuleList()
	modules.Put(models.Module{Key: "mod1", Name: "Module 1", Qualifier: models.QualifierProject})
	modules.Put(models.Module{Key: "mod1:core", Name: "Core", Qualifier: models.QualifierBranch})
	require.NoError(t, env.manager.SaveModuleList(ctx, modules))

	projects := models.NewProjectList()
	projects.Put(models.Project{Key: "mod1", Name: "Module 1"})
	require.NoError(t, env.manager.SaveProjectList(ctx, projects))

	require.NoError(t, env.manager.SaveGlobalSyncStatus(ctx, &models.GlobalSyncStatus{ServerID: "local", ServerVersion: "7.9.1", LastSyncTimestamp: 1700000000000}))
}

func (env *testEnv) seedModule(t *testing.T, moduleKey string, ruleKeys ...string) {
	t.Helper()
	ctx := context.Background()
	active := models.NewActiveRules(moduleKey)
	for _, k := range ruleKeys {
		active.Put(models.ActiveRule{RuleKey: k, Severity: models.SeverityCritical})
	}
	require.NoError(t, env.manager.SaveActiveRules(ctx, active))
	require.NoError(t, env.manager.SaveModuleSyncStatus(ctx, &models.ModuleSyncStatus{ModuleKey: moduleKey, LastSyncTimestamp: 1700000000000}))
}

// writeSources создает файл с длинной строкой и TODO
func writeSources(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	content := "short\n" + string(bytes.Repeat([]byte("x"), 121)) + "\n# TODO remove\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(content), 0600))
	return dir
}
