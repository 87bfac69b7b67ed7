package models

import "context"

// TokenVerifier turns an opaque bearer credential into a verified identity.
type TokenVerifier interface {
	// Verify fails with an error wrapping ErrInvalidCredential.
	Verify(ctx context.Context, credential string) (*IdentityClaim, error)
}

// IdentityProvider reads external account state for a subject.
type IdentityProvider interface {
	FetchLinkedAccounts(ctx context.Context, subjectID string) ([]LinkedAccount, error)
}

// AddressCache remembers subject -> wallet address for subjects already provisioned.
type AddressCache interface {
	// GetAddress returns "", nil on a miss.
	GetAddress(ctx context.Context, subjectID string) (string, error)
	SetAddress(ctx context.Context, subjectID, address string) error
}

// WalletSyncer is the wallet provisioning service.
type WalletSyncer interface {
	// SyncWallet guarantees a local user for the credential's subject and, if the
	// identity provider reports an embedded wallet, exactly one stored wallet.
	SyncWallet(ctx context.Context, credential string) (*SyncResult, error)

	// Healthy reports whether the backing store is reachable.
	Healthy(ctx context.Context) error
}

// APIServer is the HTTP front of the service.
type APIServer interface {
	Start()
	Shutdown() error
}
