package privy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/core-coin/walletsync/internal/models"
	"github.com/core-coin/walletsync/pkg/logger"
)

// maxErrorBody caps how much of an error response is kept for diagnostics.
const maxErrorBody = 512

// UserResponse is the subset of GET /api/v1/users/{id} the service reads.
type UserResponse struct {
	ID             string                `json:"id"`
	CreatedAt      int64                 `json:"created_at"`
	LinkedAccounts []LinkedAccountRecord `json:"linked_accounts"`
}

// LinkedAccountRecord is one raw entry of linked_accounts. Wallet specific fields
// are empty for other account types.
type LinkedAccountRecord struct {
	Type             string `json:"type"`
	Address          string `json:"address,omitempty"`
	ChainType        string `json:"chain_type,omitempty"`
	WalletClientType string `json:"wallet_client_type,omitempty"`
	ConnectorType    string `json:"connector_type,omitempty"`
}

// Client talks to the Privy server API. It is constructed once at startup and
// shared by all requests.
type Client struct {
	logger    *logger.Logger
	baseURL   string
	appID     string
	appSecret string
	client    *http.Client
}

var _ models.IdentityProvider = (*Client)(nil)

// NewClient creates a Privy API client
func NewClient(logger *logger.Logger, baseURL, appID, appSecret string, timeout time.Duration) *Client {
	return &Client{
		logger:    logger,
		baseURL:   strings.TrimRight(baseURL, "/"),
		appID:     appID,
		appSecret: appSecret,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchLinkedAccounts fetches the user and converts its linked accounts
func (c *Client) FetchLinkedAccounts(ctx context.Context, subjectID string) ([]models.LinkedAccount, error) {
	user, err := c.fetchUser(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	accounts := make([]models.LinkedAccount, 0, len(user.LinkedAccounts))
	for _, record := range user.LinkedAccounts {
		accounts = append(accounts, record.toLinkedAccount())
	}

	c.logger.Debugw("Fetched linked accounts", "subject_id", subjectID, "count", len(accounts))
	return accounts, nil
}

// fetchUser fetches the raw user record
func (c *Client) fetchUser(ctx context.Context, subjectID string) (*UserResponse, error) {
	endpoint := fmt.Sprintf("%s/api/v1/users/%s", c.baseURL, url.PathEscape(subjectID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build user request: %w", err)
	}
	req.SetBasicAuth(c.appID, c.appSecret)
	req.Header.Set("privy-app-id", c.appID)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	var user UserResponse
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user response: %w", err)
	}

	return &user, nil
}

func (r LinkedAccountRecord) toLinkedAccount() models.LinkedAccount {
	if r.Type != "wallet" {
		return models.OtherAccount{Type: r.Type}
	}
	return models.WalletAccount{
		ClientKind:    models.WalletClientKind(r.WalletClientType),
		ChainType:     r.ChainType,
		ConnectorType: r.ConnectorType,
		Address:       r.Address,
	}
}
