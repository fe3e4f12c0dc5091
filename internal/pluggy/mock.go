package pluggy

import "context"

// MockClient is a mock implementation of BankClient for testing.
type MockClient struct {
	// Functions that can be set by tests to control behavior
	ListAccountsFn     func(ctx context.Context, itemID string) ([]Account, error)
	ListTransactionsFn func(ctx context.Context, accountID string, opts ListTransactionsOptions) (*TransactionPage, error)

	// Call tracking
	ListAccountsCalls     []string
	ListTransactionsCalls []ListTransactionsCall
}

// ListTransactionsCall records the parameters of a ListTransactions call.
type ListTransactionsCall struct {
	AccountID string
	Opts      ListTransactionsOptions
}

// NewMockClient creates a new mock Pluggy client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// ListAccounts implements BankClient.ListAccounts.
func (m *MockClient) ListAccounts(ctx context.Context, itemID string) ([]Account, error) {
	m.ListAccountsCalls = append(m.ListAccountsCalls, itemID)

	if m.ListAccountsFn != nil {
		return m.ListAccountsFn(ctx, itemID)
	}
	return []Account{}, nil
}

// ListTransactions implements BankClient.ListTransactions.
func (m *MockClient) ListTransactions(ctx context.Context, accountID string, opts ListTransactionsOptions) (*TransactionPage, error) {
	m.ListTransactionsCalls = append(m.ListTransactionsCalls, ListTransactionsCall{
		AccountID: accountID,
		Opts:      opts,
	})

	if m.ListTransactionsFn != nil {
		return m.ListTransactionsFn(ctx, accountID, opts)
	}
	return &TransactionPage{TotalPages: 0}, nil
}

// Reset clears all call tracking.
func (m *MockClient) Reset() {
	m.ListAccountsCalls = nil
	m.ListTransactionsCalls = nil
}

// Ensure MockClient implements BankClient interface.
var _ BankClient = (*MockClient)(nil)
