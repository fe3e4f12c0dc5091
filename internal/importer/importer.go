// Package importer fetches bank statements from the aggregator and runs
// them through the reconciler.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fincompar/fincompar/internal/model"
	"github.com/fincompar/fincompar/internal/pluggy"
	"github.com/fincompar/fincompar/internal/reconcile"
)

// pageSize is the aggregator page size used while walking an account's
// history.
const pageSize = 100

// DefaultWindowDays is the rolling historical window when no explicit
// start date is configured.
const DefaultWindowDays = 90

// Window controls how far back an import reaches. An explicit From date
// wins; otherwise a rolling window of Days is used.
type Window struct {
	From time.Time
	Days int
}

// Range resolves the window against the given current time.
func (w Window) Range(now time.Time) (from, to time.Time) {
	if !w.From.IsZero() {
		return w.From, now
	}
	days := w.Days
	if days <= 0 {
		days = DefaultWindowDays
	}
	return now.AddDate(0, 0, -days), now
}

// Service walks all accounts under a connected item and returns the
// normalized, non-suppressed transactions.
type Service struct {
	client     pluggy.BankClient
	reconciler *reconcile.Reconciler
	logger     *slog.Logger
	window     Window
}

// New creates an import service.
func New(client pluggy.BankClient, reconciler *reconcile.Reconciler, window Window) *Service {
	return &Service{
		client:     client,
		reconciler: reconciler,
		window:     window,
		logger:     slog.Default().With("component", "importer"),
	}
}

// ImportStatementTransactions fetches every transaction for every account
// under the item, pages of 100 at a time, and reconciles each record.
// Accounts are processed sequentially; a failure mid-pagination abandons
// the in-flight account and fails the whole call, with no retry or
// rollback at this layer. Ordering is per-account as returned by the
// source, with no cross-account guarantee.
func (s *Service) ImportStatementTransactions(ctx context.Context, itemID, payerID string) ([]model.Transaction, error) {
	from, to := s.window.Range(time.Now())

	s.logger.Info("Importing statement transactions",
		"item_id", itemID,
		"from", from.Format("2006-01-02"),
		"to", to.Format("2006-01-02"))

	accounts, err := s.client.ListAccounts(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	var all []model.Transaction
	var suppressed int

	for _, account := range accounts {
		imported, dropped, err := s.importAccount(ctx, account, payerID, from, to)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", account.ID, err)
		}
		all = append(all, imported...)
		suppressed += dropped
	}

	s.logger.Info("Import complete",
		"accounts", len(accounts),
		"transactions", len(all),
		"suppressed", suppressed)

	return all, nil
}

func (s *Service) importAccount(ctx context.Context, account pluggy.Account, payerID string, from, to time.Time) ([]model.Transaction, int, error) {
	extAccount := reconcile.ExternalAccount{
		ID:      account.ID,
		Subtype: account.Subtype,
	}

	var imported []model.Transaction
	var suppressed int

	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		resp, err := s.client.ListTransactions(ctx, account.ID, pluggy.ListTransactionsOptions{
			From:     from,
			To:       to,
			Page:     page,
			PageSize: pageSize,
		})
		if err != nil {
			return nil, 0, fmt.Errorf("page %d: %w", page, err)
		}

		for _, tx := range resp.Results {
			normalized, ok := s.reconciler.Reconcile(reconcile.ExternalTransaction{
				ID:          tx.ID,
				Description: tx.Description,
				Amount:      tx.Amount,
				Date:        tx.Date,
			}, extAccount, payerID)
			if !ok {
				suppressed++
				continue
			}
			imported = append(imported, *normalized)
		}

		s.logger.Debug("Fetched transaction page",
			"account_id", account.ID,
			"page", page,
			"total_pages", resp.TotalPages,
			"count", len(resp.Results))

		if page >= resp.TotalPages {
			break
		}
	}

	return imported, suppressed, nil
}
