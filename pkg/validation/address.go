package validation

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

const (
	// ChainEthereum is the chain type reported for EVM embedded wallets.
	ChainEthereum = "ethereum"
	// ChainSolana is the chain type reported for Solana embedded wallets.
	ChainSolana = "solana"
)

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// ValidateAddress validates a wallet address for the given chain type.
// An empty chain type is treated as ethereum.
func ValidateAddress(chainType, addr string) error {
	if addr == "" {
		return fmt.Errorf("address cannot be empty")
	}

	switch strings.ToLower(chainType) {
	case "", ChainEthereum:
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("invalid EVM address: %q", addr)
		}
	case ChainSolana:
		if len(addr) < 32 || len(addr) > 44 {
			return fmt.Errorf("invalid solana address length: got %d", len(addr))
		}
		for _, r := range addr {
			if !strings.ContainsRune(base58Alphabet, r) {
				return fmt.Errorf("invalid base58 character %q in solana address", r)
			}
		}
	default:
		if strings.TrimSpace(addr) != addr {
			return fmt.Errorf("address has surrounding whitespace")
		}
	}

	return nil
}

// NormalizeAddress converts EVM addresses to their EIP-55 checksum form.
// Addresses of other chains are returned unchanged.
func NormalizeAddress(chainType, addr string) string {
	switch strings.ToLower(chainType) {
	case "", ChainEthereum:
		return common.HexToAddress(addr).Hex()
	default:
		return addr
	}
}

// ValidateAndNormalizeAddress validates an address and returns its normalized form
func ValidateAndNormalizeAddress(chainType, addr string) (string, error) {
	if err := ValidateAddress(chainType, addr); err != nil {
		return "", err
	}
	return NormalizeAddress(chainType, addr), nil
}
