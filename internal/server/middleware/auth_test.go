package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/rulekeeper/internal/server/jwt"
)

func TestAuth(t *testing.T) {
	validator := &TokenValidatorMock{
		ValidateFunc: func(token string) (*jwt.Claims, error) {
			if token != "good" {
				return nil, jwt.ErrInvalidToken
			}
			return &jwt.Claims{RegisteredClaims: gojwt.RegisteredClaims{Subject: "ci-bot"}}, nil
		},
	}

	tests := []struct {
		name        string
		header      string
		wantStatus  int
		wantSubject string
	}{
		{name: "valid token", header: "Bearer good", wantStatus: http.StatusOK, wantSubject: "ci-bot"},
		{name: "lowercase scheme", header: "bearer good", wantStatus: http.StatusOK, wantSubject: "ci-bot"},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", wantStatus: http.StatusUnauthorized},
		{name: "scheme only", header: "Bearer", wantStatus: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer bad", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := newTestLogger()
			var gotSubject string
			handler := Auth(logger, validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotSubject = Subject(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/system/status", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantSubject, gotSubject)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Contains(t, w.Body.String(), `"errors"`)
			}
		})
	}
}

func TestAuth_WithSigner(t *testing.T) {
	signer, err := jwt.NewSigner([]byte("secret"), 0)
	require.NoError(t, err)
	token, err := signer.Issue("dev", "")
	require.NoError(t, err)

	logger, _ := newTestLogger()
	handler := Auth(logger, signer)(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSubject_Anonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, Subject(req.Context()))
}
