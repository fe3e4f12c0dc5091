package pluggy

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubtypeCreditCard is the account subtype Pluggy reports for credit cards.
// Every other subtype (checking, savings) is treated uniformly as non-card.
const SubtypeCreditCard = "CREDIT_CARD"

// Account is one financial account under a connected item.
type Account struct {
	ID           string          `json:"id"`
	ItemID       string          `json:"itemId"`
	Type         string          `json:"type"`
	Subtype      string          `json:"subtype"`
	Name         string          `json:"name"`
	Number       string          `json:"number"`
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"`
}

// IsCreditCard reports whether the account is a credit card.
func (a Account) IsCreditCard() bool {
	return a.Subtype == SubtypeCreditCard
}

// Transaction is a raw transaction as reported by the aggregator. Amount is
// signed: on non-card accounts negative means a debit from the account; on
// credit cards positive means a refund.
type Transaction struct {
	Date         time.Time       `json:"date"`
	ID           string          `json:"id"`
	AccountID    string          `json:"accountId"`
	Description  string          `json:"description"`
	CurrencyCode string          `json:"currencyCode"`
	Amount       decimal.Decimal `json:"amount"`
}

// TransactionPage is one page of a paginated transaction listing.
type TransactionPage struct {
	Results    []Transaction `json:"results"`
	Total      int           `json:"total"`
	TotalPages int           `json:"totalPages"`
	Page       int           `json:"page"`
}

type accountsResponse struct {
	Results []Account `json:"results"`
	Total   int       `json:"total"`
}

// Item is one connected bank link.
type Item struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Connector struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"connector"`
}
