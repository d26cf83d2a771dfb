package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/rulekeeper/pkg/api"
)

// TestNewClient проверяет создание нового клиента
func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:9000", WithOrganization("acme"), WithTimeout(5*time.Second))

	assert.NotNil(t, client)
	assert.Equal(t, "http://localhost:9000/", client.BaseURL())
	assert.Equal(t, "acme", client.Organization())
	assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
}

func TestNewClient_DefaultTimeout(t *testing.T) {
	client := NewClient("http://localhost:9000/")
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
	assert.Equal(t, "http://localhost:9000/", client.BaseURL())
}

func TestClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/sonar/api/system/status", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"status":"UP"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/sonar", WithToken("secret"))
	body, err := client.Get(context.Background(), "api/system/status")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"UP"}`, string(body))
}

func TestClient_Get_NoTokenNoHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Get(context.Background(), "api/plugins/installed")
	require.NoError(t, err)
}

// TestClient_Get_Error проверяет обработку ошибок сервера
func TestClient_Get_Error(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantMessage string
		status      int
	}{
		{name: "error response", status: http.StatusForbidden, body: `{"errors":[{"msg":"Insufficient privileges"}]}`, wantMessage: "Insufficient privileges"},
		{name: "plain body", status: http.StatusInternalServerError, body: "oops"},
		{name: "not found", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewClient(server.URL).Get(context.Background(), "api/rules/search.protobuf?p=1")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrTransport)

			var reqErr *RequestError
			require.True(t, errors.As(err, &reqErr))
			assert.Equal(t, tt.status, reqErr.StatusCode)
			assert.Equal(t, "api/rules/search.protobuf?p=1", reqErr.Path)
			assert.Equal(t, tt.wantMessage, reqErr.Message)
		})
	}
}

func TestClient_Get_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(url).Get(context.Background(), "api/system/status")
	assert.ErrorIs(t, err, ErrTransport)
}

func TestClient_Get_ResponseTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 17)))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, WithMaxResponseSize(16)).Get(context.Background(), "api/rules/search.protobuf")
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, ErrResponseTooLarge)

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, "api/rules/search.protobuf", reqErr.Path)

	// ровно на лимите тело принимается
	body, err := NewClient(server.URL, WithMaxResponseSize(17)).Get(context.Background(), "api/rules/search.protobuf")
	require.NoError(t, err)
	assert.Len(t, body, 17)
}

func TestClient_Get_Canceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(server.URL).Get(ctx, "api/system/status")
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGetJSON(t *testing.T) {
	getter := &GetterMock{
		GetFunc: func(ctx context.Context, path string) ([]byte, error) {
			return json.Marshal(api.SystemStatus{ID: "srv", Version: "9.9", Status: api.StatusUp})
		},
	}

	var status api.SystemStatus
	require.NoError(t, GetJSON(context.Background(), getter, "api/system/status", &status))
	assert.Equal(t, "srv", status.ID)
}

func TestGetJSON_DecodeError(t *testing.T) {
	getter := &GetterMock{
		GetFunc: func(ctx context.Context, path string) ([]byte, error) {
			return []byte("<html>"), nil
		},
	}

	var status api.SystemStatus
	err := GetJSON(context.Background(), getter, "api/system/status", &status)
	assert.ErrorIs(t, err, ErrDecode)
	assert.NotErrorIs(t, err, ErrTransport)
}

func TestAppendQuery(t *testing.T) {
	assert.Equal(t, "api/x?a=1", AppendQuery("api/x", "a", "1"))
	assert.Equal(t, "api/x?a=1&org=my+org%26co", AppendQuery("api/x?a=1", "org", "my org&co"))
}
