// Package pluggy provides a client for the Pluggy open-banking API.
package pluggy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/fincompar/fincompar/internal/common"
	"github.com/fincompar/fincompar/internal/service"
)

// DefaultBaseURL is the production Pluggy API endpoint.
const DefaultBaseURL = "https://api.pluggy.ai"

const (
	// Session keys are valid for roughly two hours; we refresh five
	// minutes early so an in-flight import never straddles an expiry.
	apiKeyTTL          = 2 * time.Hour
	apiKeyExpiryMargin = 5 * time.Minute
)

// Config holds Pluggy API credentials.
type Config struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
}

// Validate ensures all required fields are present.
func (c *Config) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("pluggy client ID is required")
	}
	if c.ClientSecret == "" {
		return fmt.Errorf("pluggy client secret is required")
	}
	return nil
}

// Client talks to the Pluggy API. It caches the session key returned by
// the auth endpoint and refreshes it under a mutex so concurrent callers
// never trigger duplicate authentication calls.
type Client struct {
	httpClient   *http.Client
	logger       *slog.Logger
	retryOpts    *service.RetryOptions
	baseURL      string
	clientID     string
	clientSecret string

	mu              sync.Mutex
	apiKey          string
	apiKeyExpiresAt time.Time
}

// NewClient creates a new Pluggy client with the given configuration.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:      baseURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		logger:       slog.Default().With("component", "pluggy"),
		retryOpts: &service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 1 * time.Second,
			MaxDelay:     30 * time.Second,
			Multiplier:   2.0,
		},
	}, nil
}

// sessionKey returns a valid API key, authenticating or re-authenticating
// when the cached key is missing or about to expire. Authentication
// failures are not retried; the caller must re-attempt the whole operation.
func (c *Client) sessionKey(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.apiKey != "" && time.Now().Before(c.apiKeyExpiresAt.Add(-apiKeyExpiryMargin)) {
		return c.apiKey, nil
	}

	c.logger.Debug("Authenticating with Pluggy")

	body, err := json.Marshal(map[string]string{
		"clientId":     c.clientID,
		"clientSecret": c.clientSecret,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode auth request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrPluggyAuth, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: status %d - %s", common.ErrPluggyAuth, resp.StatusCode, string(respBody))
	}

	var auth struct {
		APIKey string `json:"apiKey"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return "", fmt.Errorf("failed to decode auth response: %w", err)
	}
	if auth.APIKey == "" {
		return "", fmt.Errorf("%w: empty api key in response", common.ErrPluggyAuth)
	}

	c.apiKey = auth.APIKey
	c.apiKeyExpiresAt = time.Now().Add(apiKeyTTL)

	return c.apiKey, nil
}

// do performs an authenticated request and decodes the JSON response into
// out. Rate-limit responses are retried with backoff; every other non-2xx
// status is an immediate error.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	key, err := c.sessionKey(ctx)
	if err != nil {
		return err
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	return common.WithRetry(ctx, func() error {
		var reader io.Reader
		if body != nil {
			encoded, marshalErr := json.Marshal(body)
			if marshalErr != nil {
				return &common.RetryableError{Err: marshalErr, Retryable: false}
			}
			reader = bytes.NewReader(encoded)
		}

		req, reqErr := http.NewRequestWithContext(ctx, method, u, reader)
		if reqErr != nil {
			return &common.RetryableError{Err: reqErr, Retryable: false}
		}
		req.Header.Set("X-API-KEY", key)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, doErr := c.httpClient.Do(req)
		if doErr != nil {
			return fmt.Errorf("request failed: %w", doErr)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode == http.StatusTooManyRequests {
			c.logger.Warn("Rate limit hit, will retry", "path", path)
			return &common.RetryableError{Err: common.ErrPluggyRateLimit, Retryable: true}
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			respBody, _ := io.ReadAll(resp.Body)
			return &common.RetryableError{
				Err:       fmt.Errorf("pluggy API error: %d - %s", resp.StatusCode, string(respBody)),
				Retryable: false,
			}
		}

		if out == nil {
			return nil
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(out); decodeErr != nil {
			return &common.RetryableError{
				Err:       fmt.Errorf("failed to decode response: %w", decodeErr),
				Retryable: false,
			}
		}
		return nil
	}, *c.retryOpts)
}

// ListAccounts fetches all accounts under the given item.
func (c *Client) ListAccounts(ctx context.Context, itemID string) ([]Account, error) {
	if itemID == "" {
		return nil, fmt.Errorf("%w: item ID is required", common.ErrInvalidAccount)
	}

	query := url.Values{}
	query.Set("itemId", itemID)

	var resp accountsResponse
	if err := c.do(ctx, http.MethodGet, "/accounts", query, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to list accounts for item %s: %w", itemID, err)
	}

	c.logger.Debug("Fetched accounts", "item_id", itemID, "count", len(resp.Results))

	return resp.Results, nil
}

// ListTransactionsOptions narrows a transaction listing.
type ListTransactionsOptions struct {
	From     time.Time
	To       time.Time
	Page     int
	PageSize int
}

// ListTransactions fetches one page of an account's transaction history,
// newest first.
func (c *Client) ListTransactions(ctx context.Context, accountID string, opts ListTransactionsOptions) (*TransactionPage, error) {
	if accountID == "" {
		return nil, fmt.Errorf("%w: account ID is required", common.ErrInvalidAccount)
	}

	query := url.Values{}
	query.Set("accountId", accountID)
	if !opts.From.IsZero() {
		query.Set("from", opts.From.Format("2006-01-02"))
	}
	if !opts.To.IsZero() {
		query.Set("to", opts.To.Format("2006-01-02"))
	}
	if opts.Page > 0 {
		query.Set("page", fmt.Sprintf("%d", opts.Page))
	}
	if opts.PageSize > 0 {
		query.Set("pageSize", fmt.Sprintf("%d", opts.PageSize))
	}

	var page TransactionPage
	if err := c.do(ctx, http.MethodGet, "/transactions", query, nil, &page); err != nil {
		return nil, fmt.Errorf("failed to list transactions for account %s: %w", accountID, err)
	}

	return &page, nil
}

// CreateConnectToken generates a token for the Pluggy Connect widget.
func (c *Client) CreateConnectToken(ctx context.Context, clientUserID string) (string, error) {
	body := map[string]any{}
	if clientUserID != "" {
		body["options"] = map[string]string{"clientUserId": clientUserID}
	}

	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	if err := c.do(ctx, http.MethodPost, "/connect_token", nil, body, &resp); err != nil {
		return "", fmt.Errorf("failed to create connect token: %w", err)
	}

	return resp.AccessToken, nil
}

// GetItem fetches the connected item's status and connector info.
func (c *Client) GetItem(ctx context.Context, itemID string) (*Item, error) {
	var item Item
	if err := c.do(ctx, http.MethodGet, "/items/"+itemID, nil, nil, &item); err != nil {
		return nil, fmt.Errorf("failed to fetch item %s: %w", itemID, err)
	}
	return &item, nil
}

// DeleteItem removes a connected item.
func (c *Client) DeleteItem(ctx context.Context, itemID string) error {
	if err := c.do(ctx, http.MethodDelete, "/items/"+itemID, nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete item %s: %w", itemID, err)
	}
	return nil
}

// Ensure Client implements BankClient interface.
var _ BankClient = (*Client)(nil)
