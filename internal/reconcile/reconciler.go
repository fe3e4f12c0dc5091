// Package reconcile turns raw statement entries into normalized
// transactions, deciding for each one whether it is income, an expense, a
// credit-card refund, or a bill payment that must be dropped to avoid
// counting the same money twice.
package reconcile

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fincompar/fincompar/internal/classification"
	"github.com/fincompar/fincompar/internal/model"
)

// SubtypeCreditCard marks an account whose statements are always expenses.
const SubtypeCreditCard = "CREDIT_CARD"

// refundPrefix marks credit-card refunds in the stored description.
const refundPrefix = "Estorno: "

// ExternalTransaction is the reconciler's input shape. Amount keeps the
// aggregator's sign convention: on non-card accounts negative means a debit
// from the account, on credit cards positive means a refund. That
// convention is a documented contract with the source, not something the
// reconciler validates.
type ExternalTransaction struct {
	Date        time.Time
	ID          string
	Description string
	Amount      decimal.Decimal
}

// ExternalAccount carries the account fields the reconciler cares about.
type ExternalAccount struct {
	ID      string
	Subtype string
}

// IsCreditCard reports whether the account is a credit card. Checking and
// savings are treated uniformly as non-card.
func (a ExternalAccount) IsCreditCard() bool {
	return a.Subtype == SubtypeCreditCard
}

// DefaultBillPaymentPatterns matches the common Brazilian phrasings for a
// credit-card bill payment on a checking account: "pag fatura", "pagto de
// fatura", "pag*fatura", "pag cartão", "fatura cart...", "pgto cart...".
// Phrasings outside this set are not suppressed; keep the list in config
// when a bank uses different wording.
func DefaultBillPaymentPatterns() []string {
	return []string{
		`pag\w*\s*[*\s]*(de\s+)?fatura`,
		`pag\w*\s+cart[aã]o`,
		`fatura\s+cart`,
		`pgto?\s+cart`,
	}
}

var pixRegex = regexp.MustCompile(`(?i)\bpix\b`)

// Options configures a Reconciler.
type Options struct {
	// IDPrefix namespaces normalized IDs, making re-imports idempotent:
	// the same external transaction always yields the same ID. Defaults
	// to "pluggy".
	IDPrefix string
	// BillPaymentPatterns override DefaultBillPaymentPatterns.
	BillPaymentPatterns []string
}

// Reconciler normalizes external transactions. It is stateless after
// construction and safe for concurrent use.
type Reconciler struct {
	categorizer *classification.Categorizer
	billPayment []*regexp.Regexp
	idPrefix    string
}

// New creates a Reconciler backed by the given categorizer.
func New(categorizer *classification.Categorizer, opts Options) (*Reconciler, error) {
	if categorizer == nil {
		return nil, fmt.Errorf("categorizer is required")
	}

	prefix := opts.IDPrefix
	if prefix == "" {
		prefix = "pluggy"
	}

	patterns := opts.BillPaymentPatterns
	if len(patterns) == 0 {
		patterns = DefaultBillPaymentPatterns()
	}

	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		if !strings.HasPrefix(p, "(?i)") {
			p = "(?i)" + p
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to compile bill payment pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}

	return &Reconciler{
		categorizer: categorizer,
		billPayment: compiled,
		idPrefix:    prefix,
	}, nil
}

// Reconcile maps one external transaction to a normalized transaction.
// The second return value is false when the transaction is suppressed and
// must not be imported.
func (r *Reconciler) Reconcile(tx ExternalTransaction, account ExternalAccount, payerID string) (*model.Transaction, bool) {
	if account.IsCreditCard() {
		return r.reconcileCard(tx, payerID), true
	}
	return r.reconcileNonCard(tx, payerID)
}

// reconcileCard handles credit-card statements: everything is an expense,
// and a positive amount is a refund that reduces spending.
func (r *Reconciler) reconcileCard(tx ExternalTransaction, payerID string) *model.Transaction {
	isRefund := tx.Amount.IsPositive()

	description := tx.Description
	if isRefund {
		description = refundPrefix + description
	}

	return &model.Transaction{
		ID:            r.normalizedID(tx.ID),
		Amount:        tx.Amount.Abs(),
		Description:   description,
		Date:          tx.Date,
		Category:      r.categorizer.Categorize(tx.Description),
		PayerID:       payerID,
		Type:          model.TypeExpense,
		PaymentMethod: model.MethodCredit,
		IsRefund:      isRefund,
		CreatedAt:     time.Now(),
	}
}

// reconcileNonCard handles checking and savings statements. Debits that
// look like credit-card bill payments are suppressed entirely, since the
// same money already shows up on the card statement.
func (r *Reconciler) reconcileNonCard(tx ExternalTransaction, payerID string) (*model.Transaction, bool) {
	if tx.Amount.IsNegative() && r.isBillPayment(tx.Description) {
		return nil, false
	}

	method := model.MethodChecking
	if pixRegex.MatchString(tx.Description) {
		method = model.MethodPix
	}

	category := r.categorizer.Categorize(tx.Description)

	var txType model.TransactionType
	switch {
	case model.IsExpenseCategory(category):
		txType = model.TypeExpense
	case model.IsIncomeCategory(category):
		txType = model.TypeIncome
	case tx.Amount.IsPositive():
		// Category gave no signal; the aggregator's sign convention is
		// the only oracle left.
		txType = model.TypeIncome
	default:
		txType = model.TypeExpense
	}

	return &model.Transaction{
		ID:            r.normalizedID(tx.ID),
		Amount:        tx.Amount.Abs(),
		Description:   tx.Description,
		Date:          tx.Date,
		Category:      category,
		PayerID:       payerID,
		Type:          txType,
		PaymentMethod: method,
		IsRefund:      false,
		CreatedAt:     time.Now(),
	}, true
}

func (r *Reconciler) isBillPayment(description string) bool {
	for _, re := range r.billPayment {
		if re.MatchString(description) {
			return true
		}
	}
	return false
}

func (r *Reconciler) normalizedID(externalID string) string {
	return r.idPrefix + "_" + externalID
}
