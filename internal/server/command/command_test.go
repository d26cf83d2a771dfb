package command

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/rulekeeper/internal/server/jwt"
	"github.com/iudanet/rulekeeper/internal/server/storage"
	"github.com/iudanet/rulekeeper/internal/server/storage/sqlite"
)

const fixtureDoc = `
components:
  - {key: proj, name: Project, qualifier: TRK}
plugins:
  - {key: text, name: Text, version: "1.0"}
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := NewRootCommand(BuildInfo{Version: "test"}, &out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSeedCommand(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "meta.db")
	fixturePath := filepath.Join(dir, "fixture.yaml")
	require.NoError(t, os.WriteFile(fixturePath, []byte(fixtureDoc), 0o600))

	_, err := execute(t, "seed", fixturePath, "--db", db, "--log-level", "error")
	require.NoError(t, err)

	store, err := sqlite.New(context.Background(), db, nil)
	require.NoError(t, err)
	defer store.Close()

	components, err := store.ListComponents(context.Background(), storage.ComponentQuery{})
	require.NoError(t, err)
	require.Len(t, components, 1)
	assert.Equal(t, "proj", components[0].Key)
}

func TestSeedCommand_InvalidFixture(t *testing.T) {
	dir := t.TempDir()
	fixturePath := filepath.Join(dir, "fixture.yaml")
	require.NoError(t, os.WriteFile(fixturePath, []byte("components:\n  - {key: p, qualifier: DIR}\n"), 0o600))

	_, err := execute(t, "seed", fixturePath, "--db", filepath.Join(dir, "meta.db"))
	assert.ErrorIs(t, err, storage.ErrInvalidFixture)
}

func TestTokenCommand(t *testing.T) {
	out, err := execute(t, "token", "ci-bot", "--jwt-secret", "s3cret", "--scope", "sync")
	require.NoError(t, err)

	signer, err := jwt.NewSigner([]byte("s3cret"), 0)
	require.NoError(t, err)
	claims, err := signer.Validate(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "ci-bot", claims.Subject)
	assert.Equal(t, "sync", claims.Scope)
}

func TestTokenCommand_SecretFromEnv(t *testing.T) {
	t.Setenv(EnvPrefix+"_JWT_SECRET", "from-env")

	out, err := execute(t, "token", "dev")
	require.NoError(t, err)

	signer, err := jwt.NewSigner([]byte("from-env"), 0)
	require.NoError(t, err)
	_, err = signer.Validate(strings.TrimSpace(out))
	assert.NoError(t, err)
}

func TestTokenCommand_NoSecret(t *testing.T) {
	_, err := execute(t, "token", "dev")
	assert.ErrorIs(t, err, jwt.ErrEmptySecret)
}

func TestServeCommand_InvalidServerID(t *testing.T) {
	_, err := execute(t, "serve", "--server-id", "bad id!", "--db", filepath.Join(t.TempDir(), "meta.db"))
	assert.Error(t, err)
}
