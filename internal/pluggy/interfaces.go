package pluggy

import "context"

// BankClient defines the aggregator operations the import pipeline needs.
// This interface allows for easy mocking in tests and swapping data sources.
type BankClient interface {
	ListAccounts(ctx context.Context, itemID string) ([]Account, error)
	ListTransactions(ctx context.Context, accountID string, opts ListTransactionsOptions) (*TransactionPage, error)
}
