package ofx

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fincompar/fincompar/internal/classification"
	"github.com/fincompar/fincompar/internal/model"
	"github.com/fincompar/fincompar/internal/reconcile"
)

const testBankOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20260315120000[0:GMT]
<LANGUAGE>POR
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>BRL
<BANKACCTFROM>
<BANKID>260
<ACCTID>12345-6
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20260301120000[0:GMT]
<DTEND>20260331120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20260310120000[0:GMT]
<TRNAMT>-35.90
<FITID>T1
<NAME>IFOOD RESTAURANTE
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20260312120000[0:GMT]
<TRNAMT>1500.00
<FITID>T2
<NAME>PIX RECEBIDO JOAO
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20260315120000[0:GMT]
<TRNAMT>-450.00
<FITID>T3
<NAME>PAG FATURA CARTAO
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20260331120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

const testCreditCardOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20260315120000[0:GMT]
<LANGUAGE>POR
</SONRS>
</SIGNONMSGSRSV1>
<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>BRL
<CCACCTFROM>
<ACCTID>5500-1234
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20260301120000[0:GMT]
<DTEND>20260331120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20260305120000[0:GMT]
<TRNAMT>-89.90
<FITID>C1
<NAME>NETFLIX.COM
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20260308120000[0:GMT]
<TRNAMT>120.00
<FITID>C2
<NAME>UBER TRIP
</STMTTRN>
</BANKTRANLIST>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	categorizer, err := classification.NewCategorizer(classification.DefaultRules())
	require.NoError(t, err)

	reconciler, err := reconcile.New(categorizer, reconcile.Options{IDPrefix: "ofx"})
	require.NoError(t, err)

	return NewParser(reconciler)
}

func TestParser_ParseFile_BankStatement(t *testing.T) {
	parser := newTestParser(t)

	got, err := parser.ParseFile(context.Background(), strings.NewReader(testBankOFX), "user-1")
	require.NoError(t, err)

	// The bill payment is suppressed; the other two survive.
	require.Len(t, got, 2)

	byID := make(map[string]model.Transaction, len(got))
	for _, tx := range got {
		byID[tx.ID] = tx
	}

	food, ok := byID["ofx_12345-6_T1"]
	require.True(t, ok)
	assert.Equal(t, model.CategoryFood, food.Category)
	assert.Equal(t, model.TypeExpense, food.Type)
	assert.Equal(t, model.MethodChecking, food.PaymentMethod)
	assert.Equal(t, "35.9", food.Amount.String())
	assert.Equal(t, "2026-03-10", food.DateString())

	pix, ok := byID["ofx_12345-6_T2"]
	require.True(t, ok)
	assert.Equal(t, model.TypeIncome, pix.Type)
	assert.Equal(t, model.MethodPix, pix.PaymentMethod)
	assert.Equal(t, "user-1", pix.PayerID)
}

func TestParser_ParseFile_CreditCardStatement(t *testing.T) {
	parser := newTestParser(t)

	got, err := parser.ParseFile(context.Background(), strings.NewReader(testCreditCardOFX), "user-1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	byID := make(map[string]model.Transaction, len(got))
	for _, tx := range got {
		byID[tx.ID] = tx
	}

	charge, ok := byID["ofx_5500-1234_C1"]
	require.True(t, ok)
	assert.Equal(t, model.TypeExpense, charge.Type)
	assert.Equal(t, model.MethodCredit, charge.PaymentMethod)
	assert.False(t, charge.IsRefund)

	refund, ok := byID["ofx_5500-1234_C2"]
	require.True(t, ok)
	assert.Equal(t, model.TypeExpense, refund.Type)
	assert.True(t, refund.IsRefund)
	assert.Equal(t, "Estorno: UBER TRIP", refund.Description)
	assert.Equal(t, "120", refund.Amount.String())
}

func TestParser_ParseFile_InvalidContent(t *testing.T) {
	parser := newTestParser(t)

	_, err := parser.ParseFile(context.Background(), strings.NewReader("not an ofx file"), "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse OFX file")
}

func TestParser_ParseFile_CanceledContext(t *testing.T) {
	parser := newTestParser(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := parser.ParseFile(ctx, strings.NewReader(testBankOFX), "u")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPreprocessOFX(t *testing.T) {
	parser := newTestParser(t)

	t.Run("fixes mixed-case severity", func(t *testing.T) {
		got := parser.preprocessOFX("<SEVERITY>Info</SEVERITY>")
		assert.Equal(t, "<SEVERITY>INFO</SEVERITY>", got)
	})

	t.Run("closes dangling tags", func(t *testing.T) {
		got := parser.preprocessOFX("<OFX>\n<STMTTRN\n</OFX>")
		assert.Contains(t, got, "<STMTTRN>")
	})

	t.Run("trims leading whitespace", func(t *testing.T) {
		got := parser.preprocessOFX("\n\n  OFXHEADER:100")
		assert.True(t, strings.HasPrefix(got, "OFXHEADER"))
	})
}
