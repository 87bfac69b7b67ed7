package auth

import (
	"strings"

	"github.com/core-coin/walletsync/internal/models"
)

const bearerScheme = "bearer"

// ExtractBearer returns the credential of an Authorization header value.
// The Bearer scheme is required; the scheme name is matched case-insensitively.
func ExtractBearer(header string) (string, error) {
	scheme, credential, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, bearerScheme) {
		return "", models.ErrMissingCredential
	}
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return "", models.ErrMissingCredential
	}
	return credential, nil
}
