package models

import "context"

// Repository is the persistent store of users and their wallets.
// Uniqueness of User.SubjectID and Wallet.UserID is enforced by the store itself.
type Repository interface {
	// FindUserBySubject returns nil, nil when no user has the subject id.
	FindUserBySubject(ctx context.Context, subjectID string, includeWallet bool) (*User, error)
	// CreateUser fails with ErrConflict if the subject id is already taken.
	CreateUser(ctx context.Context, subjectID, email string) (*User, error)
	// CreateWallet fails with ErrConflict if the user already owns a wallet.
	CreateWallet(ctx context.Context, userID, address, chainType string) (*Wallet, error)
	// FindWalletByUser returns nil, nil when the user has no wallet.
	FindWalletByUser(ctx context.Context, userID string) (*Wallet, error)

	Ping(ctx context.Context) error
	Close() error
}
