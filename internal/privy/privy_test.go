package privy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/core-coin/walletsync/internal/models"
	"github.com/core-coin/walletsync/pkg/logger"
)

const userJSON = `{
  "id": "did:privy:abc",
  "created_at": 1700000000,
  "linked_accounts": [
    {"type": "email", "address": "user@example.com", "verified_at": 1700000000},
    {"type": "wallet", "address": "0x1111111111111111111111111111111111111111", "chain_type": "ethereum", "wallet_client_type": "metamask", "connector_type": "injected"},
    {"type": "wallet", "address": "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", "chain_type": "ethereum", "wallet_client_type": "privy", "connector_type": "embedded"},
    {"type": "google_oauth", "subject": "1234", "email": "user@gmail.com"}
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(logger.NewNop(), server.URL+"/", "app-123", "secret", 5*time.Second)
}

func TestFetchLinkedAccounts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/users/did:privy:abc", r.URL.Path)
		assert.Equal(t, "app-123", r.Header.Get("privy-app-id"))
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "app-123", user)
		assert.Equal(t, "secret", pass)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(userJSON))
	})

	accounts, err := client.FetchLinkedAccounts(context.Background(), "did:privy:abc")
	require.NoError(t, err)
	require.Len(t, accounts, 4)

	assert.Equal(t, models.OtherAccount{Type: "email"}, accounts[0])
	assert.Equal(t, models.WalletAccount{
		ClientKind:    "metamask",
		ChainType:     "ethereum",
		ConnectorType: "injected",
		Address:       "0x1111111111111111111111111111111111111111",
	}, accounts[1])
	assert.Equal(t, models.OtherAccount{Type: "google_oauth"}, accounts[3])

	wallet, found := models.FindEmbeddedWallet(accounts)
	require.True(t, found)
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", wallet.Address)
	assert.Equal(t, "embedded", wallet.ConnectorType)
}

func TestFetchLinkedAccounts_EmailAddressIsNotAWallet(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"did:privy:abc","linked_accounts":[{"type":"email","address":"user@example.com"}]}`))
	})

	accounts, err := client.FetchLinkedAccounts(context.Background(), "did:privy:abc")
	require.NoError(t, err)

	_, found := models.FindEmbeddedWallet(accounts)
	assert.False(t, found)
}

func TestFetchLinkedAccounts_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "not found", status: http.StatusNotFound, body: `{"error":"User not found"}`, wantErr: "unexpected status code 404"},
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{"error":"Too many requests"}`, wantErr: "unexpected status code 429"},
		{name: "bad json", status: http.StatusOK, body: `{"linked_accounts":`, wantErr: "failed to decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			accounts, err := client.FetchLinkedAccounts(context.Background(), "did:privy:abc")
			require.Error(t, err)
			assert.Nil(t, accounts)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFetchLinkedAccounts_ContextCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(userJSON))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchLinkedAccounts(ctx, "did:privy:abc")
	assert.ErrorIs(t, err, context.Canceled)
}
