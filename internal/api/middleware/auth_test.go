package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func authProbe(t *testing.T, apiKey string, mutate func(r *http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	handler := APIKeyAuth(apiKey)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAPIKeyAuth(t *testing.T) {
	tests := []struct {
		name       string
		apiKey     string
		mutate     func(r *http.Request)
		wantStatus int
	}{
		{
			name:       "empty configured key disables the check",
			apiKey:     "",
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing key",
			apiKey:     "secret",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "wrong key",
			apiKey: "secret",
			mutate: func(r *http.Request) {
				r.Header.Set("X-API-Key", "guess")
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:   "valid header key",
			apiKey: "secret",
			mutate: func(r *http.Request) {
				r.Header.Set("X-API-Key", "secret")
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "valid query key",
			apiKey: "secret",
			mutate: func(r *http.Request) {
				q := r.URL.Query()
				q.Set("api_key", "secret")
				r.URL.RawQuery = q.Encode()
			},
			wantStatus: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := authProbe(t, tt.apiKey, tt.mutate)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
