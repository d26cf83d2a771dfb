package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iudanet/rulekeeper/internal/client/api"
	"github.com/iudanet/rulekeeper/internal/client/storage"
	"github.com/iudanet/rulekeeper/internal/client/storage/fsstore"
	wire "github.com/iudanet/rulekeeper/pkg/api"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newTestManager(t *testing.T) *storage.Manager {
	t.Helper()
	store, err := fsstore.New(t.TempDir())
	require.NoError(t, err)
	m, err := storage.NewManager(store, testLogger())
	require.NoError(t, err)
	return m
}

// routes отвечает на запросы по точному пути; неизвестный путь - ошибка транспорта
func routes(t *testing.T, responses map[string][]byte) *api.GetterMock {
	t.Helper()
	return &api.GetterMock{
		GetFunc: func(ctx context.Context, path string) ([]byte, error) {
			body, ok := responses[path]
			if !ok {
				return nil, &api.RequestError{Kind: api.ErrTransport, Path: path, StatusCode: 404}
			}
			return body, nil
		},
	}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func componentsPage(index, total int, components ...wire.Component) []byte {
	resp := &wire.ComponentsSearchResponse{
		Paging:     wire.Paging{PageIndex: index, PageSize: api.PageSize, Total: total},
		Components: components,
	}
	return resp.Marshal()
}

func rulesPage(index, total int, rules ...wire.Rule) []byte {
	resp := &wire.RulesSearchResponse{
		Paging: wire.Paging{PageIndex: index, PageSize: api.PageSize, Total: total},
		Rules:  rules,
	}
	return resp.Marshal()
}

func projects(prefix string, n int) []wire.Component {
	out := make([]wire.Component, n)
	for i := range out {
		key := fmt.Sprintf("%s%d", prefix, i)
		out[i] = wire.Component{Key: key, Name: "Project " + key, Qualifier: "TRK"}
	}
	return out
}
