// Package ofx imports OFX/QFX statement files through the same
// reconciliation pipeline used for aggregator imports.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/fincompar/fincompar/internal/model"
	"github.com/fincompar/fincompar/internal/reconcile"
)

// Parser reads OFX/QFX files and reconciles their statements. Bank
// statements go through the non-card rules (bill-payment suppression, pix
// detection); credit-card statements through the card rules.
type Parser struct {
	reconciler *reconcile.Reconciler
}

// NewParser creates a parser backed by the given reconciler.
func NewParser(reconciler *reconcile.Reconciler) *Parser {
	return &Parser{reconciler: reconciler}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// Mixed-case SEVERITY values (should be INFO, WARN, or ERROR)
	severityRegex := regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// SGML-style files sometimes drop the closing angle bracket on a tag
	// that ends a line
	tagFixRegex := regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// ParseFile parses an OFX/QFX file and returns the reconciled
// transactions. Suppressed entries are dropped, matching the aggregator
// import path.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader, payerID string) ([]model.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var transactions []model.Transaction
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		bankStmts++

		account := reconcile.ExternalAccount{
			ID:      string(stmt.BankAcctFrom.AcctID),
			Subtype: "CHECKING",
		}
		transactions = append(transactions, p.reconcileStatement(stmt.BankTranList.Transactions, account, payerID)...)
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		ccStmts++

		account := reconcile.ExternalAccount{
			ID:      string(stmt.CCAcctFrom.AcctID),
			Subtype: reconcile.SubtypeCreditCard,
		}
		transactions = append(transactions, p.reconcileStatement(stmt.BankTranList.Transactions, account, payerID)...)
	}

	slog.Info("Parsed OFX file",
		"transactions", len(transactions),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return transactions, nil
}

func (p *Parser) reconcileStatement(entries []ofxgo.Transaction, account reconcile.ExternalAccount, payerID string) []model.Transaction {
	var transactions []model.Transaction

	for _, ofxTx := range entries {
		// OFX amounts carry the same sign convention as the aggregator:
		// negative is a debit
		amountFloat, _ := ofxTx.TrnAmt.Float64()

		external := reconcile.ExternalTransaction{
			// FITID is only unique within one account
			ID:          account.ID + "_" + string(ofxTx.FiTID),
			Description: transactionDescription(ofxTx),
			Amount:      decimal.NewFromFloat(amountFloat),
			Date:        ofxTx.DtPosted.Time,
		}

		normalized, ok := p.reconciler.Reconcile(external, account, payerID)
		if !ok {
			continue
		}
		transactions = append(transactions, *normalized)
	}

	return transactions
}

// transactionDescription picks the most descriptive field available.
func transactionDescription(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := strings.TrimSpace(string(tx.Name))
	if tx.Memo != "" && name == "" {
		return strings.TrimSpace(string(tx.Memo))
	}
	return name
}
