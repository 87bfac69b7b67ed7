package auth

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/core-coin/walletsync/internal/models"
)

// accessTokenClaims are the claims of a Privy access token.
// Email is not part of the standard token and is only present for custom issuers.
type accessTokenClaims struct {
	Email     string `json:"email,omitempty"`
	SessionID string `json:"sid,omitempty"`
	jwt.RegisteredClaims
}

// KeyVerifier verifies ES256 access tokens against a static verification key.
type KeyVerifier struct {
	key      *ecdsa.PublicKey
	issuer   string
	audience string
	parser   *jwt.Parser
}

var _ models.TokenVerifier = (*KeyVerifier)(nil)

// NewKeyVerifier parses a PEM encoded P-256 public key. Escaped newlines ("\n")
// are accepted so the key can be passed through a single environment variable.
func NewKeyVerifier(pemKey, issuer, audience string) (*KeyVerifier, error) {
	if pemKey == "" {
		return nil, errors.New("verification key is empty")
	}
	pemKey = strings.ReplaceAll(pemKey, `\n`, "\n")

	key, err := jwt.ParseECPublicKeyFromPEM([]byte(pemKey))
	if err != nil {
		return nil, fmt.Errorf("failed to parse verification key: %w", err)
	}

	return &KeyVerifier{
		key:      key,
		issuer:   issuer,
		audience: audience,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodES256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithAudience(audience),
			jwt.WithExpirationRequired(),
		),
	}, nil
}

func (v *KeyVerifier) Verify(_ context.Context, credential string) (*models.IdentityClaim, error) {
	claims := &accessTokenClaims{}
	_, err := v.parser.ParseWithClaims(credential, claims, func(*jwt.Token) (interface{}, error) {
		return v.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidCredential, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", models.ErrInvalidCredential)
	}

	return &models.IdentityClaim{SubjectID: claims.Subject, Email: claims.Email}, nil
}
