package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCli_runStatus_NotSynchronized(t *testing.T) {
	env := newTestEnv(t)
	cli := env.cli(t, nil)

	require.NoError(t, cli.runStatus(context.Background(), ""))

	output := env.out.String()
	assert.Contains(t, output, "=== Storage Status ===")
	assert.Contains(t, output, "Server:         local")
	assert.Contains(t, output, "Status:         Not synchronized")
	assert.Contains(t, output, "Run 'rulekeeper sync' to synchronize.")
}

func TestCli_runStatus_Synchronized(t *testing.T) {
	env := newTestEnv(t)
	env.seedGlobal(t)
	env.seedModule(t, "mod1")
	cli := env.cli(t, nil)

	require.NoError(t, cli.runStatus(context.Background(), "mod1"))

	output := env.out.String()
	assert.Contains(t, output, "Status:         Synchronized")
	assert.Contains(t, output, "Server version: 7.9.1")
	assert.Contains(t, output, "Last sync:      "+time.UnixMilli(1700000000000).Format(time.RFC3339))
	assert.Contains(t, output, "Module:         mod1")
	assert.Contains(t, output, "Module sync:    "+time.UnixMilli(1700000000000).Format(time.RFC3339))
}

func TestCli_runStatus_ModuleNotSynchronized(t *testing.T) {
	env := newTestEnv(t)
	env.seedGlobal(t)
	cli := env.cli(t, nil)

	require.NoError(t, cli.runStatus(context.Background(), "mod2"))

	output := env.out.String()
	assert.Contains(t, output, "Module sync:    never")
	assert.Contains(t, output, "Run 'rulekeeper update-module mod2' to synchronize it.")
}

func TestFormatSyncTime(t *testing.T) {
	ts := time.Now().Add(-90 * time.Second)
	got := formatSyncTime(ts)
	assert.Contains(t, got, ts.Format(time.RFC3339))
	assert.Contains(t, got, "1m30s ago")

	// часы клиента отстают от времени sync
	assert.Contains(t, formatSyncTime(time.Now().Add(time.Hour)), "(0s ago)")
}
