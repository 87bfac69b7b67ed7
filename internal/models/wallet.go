package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the local record of an identity provider subject.
type User struct {
	// ID is the generated primary key.
	ID string `json:"id" gorm:"column:id;primaryKey;size:36"`
	// SubjectID is the identity provider's stable identifier for the user (did:privy:...).
	// It is assigned once and never reassigned.
	SubjectID string `json:"subject_id" gorm:"column:subject_id;uniqueIndex;size:255;not null"`
	// Email is the email from the credential or a placeholder derived from SubjectID.
	Email string `json:"email" gorm:"column:email;size:320;not null"`
	// CreatedAt is the Unix timestamp of the first successful sync.
	CreatedAt int64 `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	// Wallet is the custodial wallet of the user, nil until provisioned.
	Wallet *Wallet `json:"wallet,omitempty" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:RESTRICT"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Wallet is the embedded wallet owned by a user. A user has at most one.
type Wallet struct {
	// ID is the generated primary key.
	ID string `json:"id" gorm:"column:id;primaryKey;size:36"`
	// UserID is the owner. The unique index enforces one wallet per user.
	UserID string `json:"user_id" gorm:"column:user_id;uniqueIndex;size:36;not null"`
	// Address is the blockchain account identifier. Immutable once stored.
	Address string `json:"address" gorm:"column:address;index;size:128;not null"`
	// ChainType is the chain reported by the identity provider (ethereum, solana).
	ChainType string `json:"chain_type" gorm:"column:chain_type;size:32"`
	// CreatedAt is the Unix timestamp when the wallet was synced.
	CreatedAt int64 `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Wallet) TableName() string {
	return "wallets"
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}

// IdentityClaim is the verified identity carried by a bearer credential.
type IdentityClaim struct {
	SubjectID string
	// Email is empty when the credential carries none.
	Email string
}

// SyncResult is the outcome of a wallet sync.
type SyncResult struct {
	Synced  bool   `json:"synced"`
	Message string `json:"message"`
	Address string `json:"address,omitempty"`
}
