package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler_Health(t *testing.T) {
	tests := []struct {
		pingErr      error
		name         string
		wantStatus   int
		wantBody     string
		wantDatabase string
	}{
		{name: "database up", wantStatus: http.StatusOK, wantBody: "ok", wantDatabase: "ok"},
		{
			name:         "database down",
			pingErr:      errors.New("disk I/O error"),
			wantStatus:   http.StatusServiceUnavailable,
			wantBody:     "degraded",
			wantDatabase: "unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pinger := &PingerMock{
				PingFunc: func(ctx context.Context) error { return tt.pingErr },
			}
			handler := NewHealthHandler(pinger, "1.2.3", setupTestLogger())

			w := httptest.NewRecorder()
			handler.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			resp := w.Result()
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

			var health HealthResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
			assert.Equal(t, tt.wantBody, health.Status)
			assert.Equal(t, tt.wantDatabase, health.Database)
			assert.Equal(t, "1.2.3", health.Version)
			assert.Len(t, pinger.PingCalls(), 1)
		})
	}
}
