package reconcile

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fincompar/fincompar/internal/classification"
	"github.com/fincompar/fincompar/internal/model"
)

func newTestReconciler(t *testing.T, opts Options) *Reconciler {
	t.Helper()
	categorizer, err := classification.NewCategorizer(classification.DefaultRules())
	require.NoError(t, err)

	reconciler, err := New(categorizer, opts)
	require.NoError(t, err)
	return reconciler
}

func TestReconciler_Reconcile(t *testing.T) {
	reconciler := newTestReconciler(t, Options{})
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	checking := ExternalAccount{ID: "acc-checking", Subtype: "CHECKING"}
	card := ExternalAccount{ID: "acc-card", Subtype: SubtypeCreditCard}

	tests := []struct {
		name           string
		tx             ExternalTransaction
		account        ExternalAccount
		wantSuppressed bool
		wantType       model.TransactionType
		wantCategory   model.Category
		wantMethod     model.PaymentMethod
		wantAmount     string
		wantRefund     bool
		wantDesc       string
	}{
		{
			name: "bill payment on checking is suppressed",
			tx: ExternalTransaction{
				ID:          "t1",
				Description: "PAG*FATURA CARTAO NUBANK",
				Amount:      decimal.RequireFromString("-450.00"),
				Date:        date,
			},
			account:        checking,
			wantSuppressed: true,
		},
		{
			name: "restaurant debit on checking",
			tx: ExternalTransaction{
				ID:          "t2",
				Description: "IFOOD *RESTAURANTE XPTO",
				Amount:      decimal.RequireFromString("-35.90"),
				Date:        date,
			},
			account:      checking,
			wantType:     model.TypeExpense,
			wantCategory: model.CategoryFood,
			wantMethod:   model.MethodChecking,
			wantAmount:   "35.9",
			wantDesc:     "IFOOD *RESTAURANTE XPTO",
		},
		{
			name: "received pix is income via pix method",
			tx: ExternalTransaction{
				ID:          "t3",
				Description: "PIX RECEBIDO JOAO",
				Amount:      decimal.RequireFromString("1500.00"),
				Date:        date,
			},
			account:      checking,
			wantType:     model.TypeIncome,
			wantCategory: model.CategoryPrimaryJob,
			wantMethod:   model.MethodPix,
			wantAmount:   "1500",
			wantDesc:     "PIX RECEBIDO JOAO",
		},
		{
			name: "positive amount on card is a refund",
			tx: ExternalTransaction{
				ID:          "t4",
				Description: "UBER *TRIP",
				Amount:      decimal.RequireFromString("120.00"),
				Date:        date,
			},
			account:      card,
			wantType:     model.TypeExpense,
			wantCategory: model.CategoryTransport,
			wantMethod:   model.MethodCredit,
			wantAmount:   "120",
			wantRefund:   true,
			wantDesc:     "Estorno: UBER *TRIP",
		},
		{
			name: "unmatched checking debit falls back to other expense",
			tx: ExternalTransaction{
				ID:          "t5",
				Description: "LOJA QUALQUER",
				Amount:      decimal.RequireFromString("-10.00"),
				Date:        date,
			},
			account:      checking,
			wantType:     model.TypeExpense,
			wantCategory: model.CategoryOther,
			wantMethod:   model.MethodChecking,
			wantAmount:   "10",
			wantDesc:     "LOJA QUALQUER",
		},
		{
			name: "unmatched checking credit falls back to other income",
			tx: ExternalTransaction{
				ID:          "t6",
				Description: "CREDITO DIVERSO",
				Amount:      decimal.RequireFromString("42.00"),
				Date:        date,
			},
			account:      checking,
			wantType:     model.TypeIncome,
			wantCategory: model.CategoryOther,
			wantMethod:   model.MethodChecking,
			wantAmount:   "42",
			wantDesc:     "CREDITO DIVERSO",
		},
		{
			name: "card charge is always an expense",
			tx: ExternalTransaction{
				ID:          "t7",
				Description: "NETFLIX.COM",
				Amount:      decimal.RequireFromString("-55.90"),
				Date:        date,
			},
			account:      card,
			wantType:     model.TypeExpense,
			wantCategory: model.CategoryLeisure,
			wantMethod:   model.MethodCredit,
			wantAmount:   "55.9",
			wantDesc:     "NETFLIX.COM",
		},
		{
			name: "bill payment wording on card is not suppressed",
			tx: ExternalTransaction{
				ID:          "t8",
				Description: "PAGAMENTO FATURA",
				Amount:      decimal.RequireFromString("-450.00"),
				Date:        date,
			},
			account:      card,
			wantType:     model.TypeExpense,
			wantCategory: model.CategoryPrimaryJob,
			wantMethod:   model.MethodCredit,
			wantAmount:   "450",
			wantDesc:     "PAGAMENTO FATURA",
		},
		{
			name: "positive bill payment wording on checking is kept",
			tx: ExternalTransaction{
				ID:          "t9",
				Description: "ESTORNO PAG FATURA",
				Amount:      decimal.RequireFromString("450.00"),
				Date:        date,
			},
			account:      checking,
			wantType:     model.TypeIncome,
			wantCategory: model.CategoryOther,
			wantMethod:   model.MethodChecking,
			wantAmount:   "450",
			wantDesc:     "ESTORNO PAG FATURA",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := reconciler.Reconcile(tt.tx, tt.account, "user-1")

			if tt.wantSuppressed {
				assert.False(t, ok)
				assert.Nil(t, got)
				return
			}

			require.True(t, ok)
			require.NotNil(t, got)
			assert.Equal(t, "pluggy_"+tt.tx.ID, got.ID)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantCategory, got.Category)
			assert.Equal(t, tt.wantMethod, got.PaymentMethod)
			assert.Equal(t, tt.wantAmount, got.Amount.String())
			assert.Equal(t, tt.wantRefund, got.IsRefund)
			assert.Equal(t, tt.wantDesc, got.Description)
			assert.Equal(t, "user-1", got.PayerID)
			assert.Equal(t, tt.tx.Date, got.Date)
			assert.False(t, got.Amount.IsNegative(), "stored amount is a magnitude")
		})
	}
}

func TestReconciler_BillPaymentPatterns(t *testing.T) {
	reconciler := newTestReconciler(t, Options{})

	suppressed := []string{
		"PAG*FATURA CARTAO",
		"PAGTO DE FATURA",
		"PAG FATURA NUBANK",
		"PAGAMENTO CARTÃO",
		"PAGAMENTO CARTAO DE CREDITO",
		"FATURA CARTAO INTER",
		"PGTO CARTAO",
		"PGT CART STONE",
	}
	kept := []string{
		"COMPRA NO CARTAO",
		"TRANSFERENCIA ENVIADA",
		"FATURAMENTO MENSAL",
	}

	account := ExternalAccount{ID: "acc", Subtype: "CHECKING"}
	amount := decimal.RequireFromString("-100.00")

	for _, desc := range suppressed {
		_, ok := reconciler.Reconcile(ExternalTransaction{ID: "x", Description: desc, Amount: amount}, account, "u")
		assert.False(t, ok, "expected %q to be suppressed", desc)
	}
	for _, desc := range kept {
		_, ok := reconciler.Reconcile(ExternalTransaction{ID: "x", Description: desc, Amount: amount}, account, "u")
		assert.True(t, ok, "expected %q to be kept", desc)
	}
}

func TestReconciler_CustomOptions(t *testing.T) {
	reconciler := newTestReconciler(t, Options{
		IDPrefix:            "ofx",
		BillPaymentPatterns: []string{`cartao\s+pagto`},
	})

	account := ExternalAccount{ID: "acc", Subtype: "CHECKING"}

	// Custom patterns replace the defaults entirely.
	got, ok := reconciler.Reconcile(ExternalTransaction{
		ID:          "abc",
		Description: "PAG*FATURA CARTAO",
		Amount:      decimal.RequireFromString("-50"),
	}, account, "u")
	require.True(t, ok)
	assert.Equal(t, "ofx_abc", got.ID)

	_, ok = reconciler.Reconcile(ExternalTransaction{
		ID:          "def",
		Description: "CARTAO PAGTO JUNHO",
		Amount:      decimal.RequireFromString("-50"),
	}, account, "u")
	assert.False(t, ok)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, Options{})
	require.Error(t, err)

	categorizer, err := classification.NewCategorizer(classification.DefaultRules())
	require.NoError(t, err)

	_, err = New(categorizer, Options{BillPaymentPatterns: []string{`([bad`}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bill payment pattern")
}
