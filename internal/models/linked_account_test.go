package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindEmbeddedWallet(t *testing.T) {
	tests := []struct {
		name     string
		accounts []LinkedAccount
		want     string
		found    bool
	}{
		{
			name:     "no accounts",
			accounts: nil,
		},
		{
			name: "only non wallet accounts",
			accounts: []LinkedAccount{
				OtherAccount{Type: "email"},
				OtherAccount{Type: "google_oauth"},
			},
		},
		{
			name: "external wallet is ignored",
			accounts: []LinkedAccount{
				WalletAccount{ClientKind: "metamask", Address: "0xexternal"},
			},
		},
		{
			name: "embedded wallet without address is ignored",
			accounts: []LinkedAccount{
				WalletAccount{ClientKind: WalletClientPrivy},
			},
		},
		{
			name: "embedded wallet after other accounts",
			accounts: []LinkedAccount{
				OtherAccount{Type: "email"},
				WalletAccount{ClientKind: "metamask", Address: "0xexternal"},
				WalletAccount{ClientKind: WalletClientPrivy, Address: "0xembedded"},
			},
			want:  "0xembedded",
			found: true,
		},
		{
			name: "first of several embedded wallets",
			accounts: []LinkedAccount{
				WalletAccount{ClientKind: WalletClientPrivy, Address: "0xfirst"},
				WalletAccount{ClientKind: WalletClientPrivy, Address: "0xsecond"},
			},
			want:  "0xfirst",
			found: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wallet, found := FindEmbeddedWallet(tt.accounts)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, wallet.Address)
		})
	}
}

func TestStageError_UnwrapsToInternalAndCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewStageError(StageCreateWallet, "did:privy:abc", cause)

	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "create_wallet")
	assert.Contains(t, err.Error(), "did:privy:abc")
}

func TestCredentialErrors_AreUnauthorized(t *testing.T) {
	assert.ErrorIs(t, ErrMissingCredential, ErrUnauthorized)
	assert.ErrorIs(t, ErrInvalidCredential, ErrUnauthorized)
	assert.ErrorIs(t, ErrNoEmbeddedWallet, ErrNotFound)
}
