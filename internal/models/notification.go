package models

import (
	"fmt"
	"time"
)

// NotificationService delivers provisioning events to operators.
type NotificationService interface {
	SendNotification(notification *Notification)
}

// Notification describes a freshly provisioned wallet.
type Notification struct {
	SubjectID string    `json:"subject_id"`
	UserID    string    `json:"user_id"`
	Address   string    `json:"address"`
	ChainType string    `json:"chain_type"`
	SyncedAt  time.Time `json:"synced_at"`
}

func (n *Notification) String() string {
	return fmt.Sprintf("Wallet provisioned\nSubject: %s\nUser: %s\nAddress: %s (%s)\nAt: %s",
		n.SubjectID, n.UserID, n.Address, n.ChainType, n.SyncedAt.UTC().Format(time.RFC3339))
}
