package http_api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/core-coin/walletsync/internal/models"
	"github.com/core-coin/walletsync/pkg/logger"
)

type fakeSyncer struct {
	result     *models.SyncResult
	err        error
	healthErr  error
	credential string
	calls      int
}

func (f *fakeSyncer) SyncWallet(_ context.Context, credential string) (*models.SyncResult, error) {
	f.calls++
	f.credential = credential
	return f.result, f.err
}

func (f *fakeSyncer) Healthy(context.Context) error {
	return f.healthErr
}

func newTestServer(syncer models.WalletSyncer) *HTTPServer {
	gin.SetMode(gin.TestMode)
	return NewHTTPServer(syncer, 0, []string{"*"}, logger.NewNop())
}

func doRequest(s *HTTPServer, method, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func parseJSONResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "body: %s", w.Body.String())
	return body
}

func TestSyncWallet(t *testing.T) {
	const address = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

	tests := []struct {
		name          string
		authorization string
		result        *models.SyncResult
		err           error
		wantStatus    int
		wantBody      map[string]interface{}
		wantCalled    bool
	}{
		{
			name:          "newly synced",
			authorization: "Bearer token-1",
			result:        &models.SyncResult{Synced: true, Message: "Wallet synced successfully", Address: address},
			wantStatus:    http.StatusOK,
			wantBody:      map[string]interface{}{"synced": true, "message": "Wallet synced successfully", "address": address},
			wantCalled:    true,
		},
		{
			name:          "already exists",
			authorization: "bearer token-1",
			result:        &models.SyncResult{Synced: false, Message: "Wallet already exists", Address: address},
			wantStatus:    http.StatusOK,
			wantBody:      map[string]interface{}{"synced": false, "message": "Wallet already exists", "address": address},
			wantCalled:    true,
		},
		{
			name:       "missing header",
			wantStatus: http.StatusUnauthorized,
			wantBody:   map[string]interface{}{"error": "Unauthorized"},
		},
		{
			name:          "wrong scheme",
			authorization: "Basic dXNlcjpwYXNz",
			wantStatus:    http.StatusUnauthorized,
			wantBody:      map[string]interface{}{"error": "Unauthorized"},
		},
		{
			name:          "invalid token",
			authorization: "Bearer expired",
			err:           fmt.Errorf("%w: token is expired", models.ErrInvalidCredential),
			wantStatus:    http.StatusUnauthorized,
			wantBody:      map[string]interface{}{"error": "Invalid token"},
			wantCalled:    true,
		},
		{
			name:          "no embedded wallet",
			authorization: "Bearer token-1",
			err:           models.ErrNoEmbeddedWallet,
			wantStatus:    http.StatusNotFound,
			wantBody:      map[string]interface{}{"synced": false, "error": "No embedded wallet found. Please try logging out and back in."},
			wantCalled:    true,
		},
		{
			name:          "internal failure hides details",
			authorization: "Bearer token-1",
			err:           models.NewStageError(models.StageCreateWallet, "did:privy:x", errors.New("pq: relation wallets does not exist")),
			wantStatus:    http.StatusInternalServerError,
			wantBody:      map[string]interface{}{"error": "Failed to sync wallet"},
			wantCalled:    true,
		},
		{
			name:          "conflict never leaks",
			authorization: "Bearer token-1",
			err:           models.ErrConflict,
			wantStatus:    http.StatusInternalServerError,
			wantBody:      map[string]interface{}{"error": "Failed to sync wallet"},
			wantCalled:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			syncer := &fakeSyncer{result: tt.result, err: tt.err}
			s := newTestServer(syncer)

			w := doRequest(s, http.MethodPost, "/wallet/sync", tt.authorization)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantBody, parseJSONResponse(t, w))
			assert.Equal(t, tt.wantCalled, syncer.calls == 1)
			if tt.wantCalled {
				assert.NotEmpty(t, syncer.credential)
			}
		})
	}
}

func TestSyncWallet_VersionedAlias(t *testing.T) {
	syncer := &fakeSyncer{result: &models.SyncResult{Synced: false, Message: "Wallet already exists", Address: "0xabc"}}
	s := newTestServer(syncer)

	w := doRequest(s, http.MethodPost, "/api/v1/wallet/sync", "Bearer token-2")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "token-2", syncer.credential)
}

func TestSyncWallet_OmitsEmptyAddress(t *testing.T) {
	syncer := &fakeSyncer{result: &models.SyncResult{Synced: false, Message: "Wallet already exists"}}
	s := newTestServer(syncer)

	w := doRequest(s, http.MethodPost, "/wallet/sync", "Bearer token")
	body := parseJSONResponse(t, w)
	_, hasAddress := body["address"]
	assert.False(t, hasAddress)
}

func TestHealth(t *testing.T) {
	s := newTestServer(&fakeSyncer{})
	w := doRequest(s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", parseJSONResponse(t, w)["status"])

	s = newTestServer(&fakeSyncer{healthErr: errors.New("database is closed")})
	w = doRequest(s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), "database is closed")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(&fakeSyncer{})
	w := doRequest(s, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(&fakeSyncer{})
	req := httptest.NewRequest(http.MethodOptions, "/wallet/sync", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestResponseFor(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, responseFor(models.ErrMissingCredential).status)
	assert.Equal(t, http.StatusUnauthorized, responseFor(models.ErrInvalidCredential).status)
	assert.Equal(t, http.StatusNotFound, responseFor(fmt.Errorf("wrapped: %w", models.ErrNoEmbeddedWallet)).status)
	assert.Equal(t, http.StatusInternalServerError, responseFor(models.NewStageError(models.StageFetchLinkedAccounts, "s", models.ErrNotFound)).status)
	assert.Equal(t, http.StatusInternalServerError, responseFor(errors.New("boom")).status)
}
