package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/rulekeeper/internal/config"
)

// execute запускает команду в изолированном окружении
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv(TokenEnv, "")

	var out bytes.Buffer
	root := NewRootCommand(BuildInfo{Version: "test"}, newTestIO(&out))
	root.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "absent.env"), "--log-level", "error"))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand_StatusBackends(t *testing.T) {
	for _, backend := range []string{config.BackendFS, config.BackendBolt, config.BackendBadger} {
		t.Run(backend, func(t *testing.T) {
			storageRoot := t.TempDir()
			output, err := execute(t, "status", "--storage", storageRoot, "--backend", backend, "--server-id", "ci")
			require.NoError(t, err)
			assert.Contains(t, output, "Server:         ci")
			assert.Contains(t, output, "Status:         Not synchronized")

			info, err := os.Stat(filepath.Join(storageRoot, "ci"))
			require.NoError(t, err)
			assert.True(t, info.IsDir())
		})
	}
}

func TestRootCommand_ModulesEmpty(t *testing.T) {
	output, err := execute(t, "modules", "--storage", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, output, "No modules found.")
}

func TestRootCommand_AnalyzeWithoutSync(t *testing.T) {
	_, err := execute(t, "analyze", "--storage", t.TempDir(), "--base-dir", writeSources(t))
	assert.EqualError(t, err, "Missing global data. Please sync server 'local'.")
}

func TestRootCommand_InvalidBackend(t *testing.T) {
	_, err := execute(t, "status", "--storage", t.TempDir(), "--backend", "redis")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestRootCommand_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("server:\n  id: from-file\nstorage:\n  root: "+filepath.Join(dir, "storage")+"\n"), 0600))

	output, err := execute(t, "status", "--config", configFile)
	require.NoError(t, err)
	assert.Contains(t, output, "Server:         from-file")
}

// Флаг имеет приоритет над файлом конфигурации
func TestRootCommand_FlagOverridesConfigFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("server:\n  id: from-file\n"), 0600))

	output, err := execute(t, "status", "--config", configFile, "--server-id", "from-flag", "--storage", dir)
	require.NoError(t, err)
	assert.Contains(t, output, "Server:         from-flag")
}

func TestRootCommand_MetricsTextfile(t *testing.T) {
	dir := t.TempDir()
	textfile := filepath.Join(dir, "rulekeeper.prom")

	_, err := execute(t, "analyze", "--storage", dir, "--base-dir", writeSources(t), "--metrics-textfile", textfile)
	require.Error(t, err)

	content, err := os.ReadFile(textfile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "missing_global")
}

func TestRootCommand_UnknownArgs(t *testing.T) {
	_, err := execute(t, "update-module")
	assert.Error(t, err)
}
