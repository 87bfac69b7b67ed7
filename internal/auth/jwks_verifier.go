package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/core-coin/walletsync/internal/models"
)

// JWKSVerifier verifies access tokens against the keys published at a JWKS endpoint.
// Keys are fetched lazily and refreshed when an unknown key id shows up.
type JWKSVerifier struct {
	verifier *oidc.IDTokenVerifier
}

var _ models.TokenVerifier = (*JWKSVerifier)(nil)

// NewJWKSVerifier builds a verifier. ctx bounds the lifetime of key fetches and
// may carry a custom *http.Client via oidc.ClientContext.
func NewJWKSVerifier(ctx context.Context, jwksURL, issuer, audience string, client *http.Client) *JWKSVerifier {
	if client != nil {
		ctx = oidc.ClientContext(ctx, client)
	}
	keySet := oidc.NewRemoteKeySet(ctx, jwksURL)
	return &JWKSVerifier{
		verifier: oidc.NewVerifier(issuer, keySet, &oidc.Config{
			ClientID:             audience,
			SupportedSigningAlgs: []string{oidc.ES256},
		}),
	}
}

func (v *JWKSVerifier) Verify(ctx context.Context, credential string) (*models.IdentityClaim, error) {
	token, err := v.verifier.Verify(ctx, credential)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidCredential, err)
	}
	if token.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", models.ErrInvalidCredential)
	}

	var extra struct {
		Email string `json:"email"`
	}
	if err := token.Claims(&extra); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidCredential, err)
	}

	return &models.IdentityClaim{SubjectID: token.Subject, Email: extra.Email}, nil
}
