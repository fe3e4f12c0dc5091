package pluggy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fincompar/fincompar/internal/common"
	"github.com/fincompar/fincompar/internal/service"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name:   "valid config",
			config: Config{ClientID: "id", ClientSecret: "secret"},
		},
		{
			name:    "missing client ID",
			config:  Config{ClientSecret: "secret"},
			wantErr: "client ID is required",
		},
		{
			name:    "missing client secret",
			config:  Config{ClientID: "id"},
			wantErr: "client secret is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestNewClient_DefaultsBaseURL(t *testing.T) {
	client, err := NewClient(Config{ClientID: "id", ClientSecret: "secret"})
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, client.baseURL)

	_, err = NewClient(Config{})
	require.Error(t, err)
}

// newTestServer stands up a fake Pluggy API. authCalls counts hits to the
// auth endpoint so tests can assert key caching.
func newTestServer(t *testing.T, authCalls *atomic.Int32, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth" {
			authCalls.Add(1)

			var creds map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			if creds["clientId"] != "id" || creds["clientSecret"] != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"apiKey": "session-key"})
			return
		}

		if r.Header.Get("X-API-KEY") != "session-key" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		ClientID:     "id",
		ClientSecret: "secret",
		BaseURL:      server.URL,
	})
	require.NoError(t, err)

	// Keep retry delays out of test runtime.
	client.retryOpts = &service.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}

	return client
}

func TestClient_SessionKeyCaching(t *testing.T) {
	var authCalls atomic.Int32
	client := newTestServer(t, &authCalls, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(accountsResponse{Results: []Account{{ID: "acc-1"}}})
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := client.ListAccounts(ctx, "item-1")
		require.NoError(t, err)
	}

	// One auth call serves every request while the key is fresh.
	assert.Equal(t, int32(1), authCalls.Load())
}

func TestClient_SessionKeyRefreshNearExpiry(t *testing.T) {
	var authCalls atomic.Int32
	client := newTestServer(t, &authCalls, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(accountsResponse{})
	})

	ctx := context.Background()
	_, err := client.ListAccounts(ctx, "item-1")
	require.NoError(t, err)
	require.Equal(t, int32(1), authCalls.Load())

	// Age the key to within the early-refresh margin.
	client.mu.Lock()
	client.apiKeyExpiresAt = time.Now().Add(2 * time.Minute)
	client.mu.Unlock()

	_, err = client.ListAccounts(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), authCalls.Load())
}

func TestClient_AuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(Config{ClientID: "wrong", ClientSecret: "wrong", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.ListAccounts(context.Background(), "item-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrPluggyAuth)
}

func TestClient_RateLimitIsRetried(t *testing.T) {
	var authCalls atomic.Int32
	var dataCalls atomic.Int32
	client := newTestServer(t, &authCalls, func(w http.ResponseWriter, _ *http.Request) {
		if dataCalls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(accountsResponse{Results: []Account{{ID: "acc-1"}}})
	})

	accounts, err := client.ListAccounts(context.Background(), "item-1")
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
	assert.Equal(t, int32(2), dataCalls.Load())
}

func TestClient_ServerErrorIsNotRetried(t *testing.T) {
	var authCalls atomic.Int32
	var dataCalls atomic.Int32
	client := newTestServer(t, &authCalls, func(w http.ResponseWriter, _ *http.Request) {
		dataCalls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.ListAccounts(context.Background(), "item-1")
	require.Error(t, err)
	assert.Equal(t, int32(1), dataCalls.Load())
}

func TestClient_ListTransactions(t *testing.T) {
	var authCalls atomic.Int32
	client := newTestServer(t, &authCalls, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactions", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "acc-1", q.Get("accountId"))
		assert.Equal(t, "2026-01-01", q.Get("from"))
		assert.Equal(t, "2026-03-01", q.Get("to"))
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "100", q.Get("pageSize"))

		_ = json.NewEncoder(w).Encode(TransactionPage{
			Results:    []Transaction{{ID: "t1", Description: "IFOOD"}},
			Total:      150,
			TotalPages: 2,
			Page:       2,
		})
	})

	page, err := client.ListTransactions(context.Background(), "acc-1", ListTransactionsOptions{
		From:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		To:       time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Page:     2,
		PageSize: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "t1", page.Results[0].ID)
}

func TestClient_InputValidation(t *testing.T) {
	client, err := NewClient(Config{ClientID: "id", ClientSecret: "secret"})
	require.NoError(t, err)

	_, err = client.ListAccounts(context.Background(), "")
	assert.ErrorIs(t, err, common.ErrInvalidAccount)

	_, err = client.ListTransactions(context.Background(), "", ListTransactionsOptions{})
	assert.ErrorIs(t, err, common.ErrInvalidAccount)
}

func TestAccount_IsCreditCard(t *testing.T) {
	assert.True(t, Account{Subtype: SubtypeCreditCard}.IsCreditCard())
	assert.False(t, Account{Subtype: "CHECKING"}.IsCreditCard())
	assert.False(t, Account{}.IsCreditCard())
}
