package models

// WalletClientKind classifies who controls a linked wallet.
type WalletClientKind string

const (
	// WalletClientPrivy marks the provider's own custodial embedded wallet.
	WalletClientPrivy WalletClientKind = "privy"
)

// LinkedAccount is one account the identity provider associates with a subject.
// It is either a WalletAccount or an OtherAccount.
type LinkedAccount interface {
	// AccountType returns the provider's type tag (wallet, email, google_oauth, ...).
	AccountType() string
}

// WalletAccount is a linked blockchain wallet.
type WalletAccount struct {
	ClientKind    WalletClientKind
	ChainType     string
	ConnectorType string
	Address       string
}

func (WalletAccount) AccountType() string { return "wallet" }

// Embedded reports whether the wallet is the provider's custodial wallet and exposes an address.
func (w WalletAccount) Embedded() bool {
	return w.ClientKind == WalletClientPrivy && w.Address != ""
}

// OtherAccount is any non-wallet linked account. Only its type is retained.
type OtherAccount struct {
	Type string
}

func (o OtherAccount) AccountType() string { return o.Type }

// FindEmbeddedWallet returns the first embedded wallet in accounts.
func FindEmbeddedWallet(accounts []LinkedAccount) (WalletAccount, bool) {
	for _, account := range accounts {
		if wallet, ok := account.(WalletAccount); ok && wallet.Embedded() {
			return wallet, true
		}
	}
	return WalletAccount{}, false
}
