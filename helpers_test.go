package homefin

import (
	"testing"

	"github.com/shopspring/decimal"
)

// newTestLedger builds a ledger with the usual household skeleton:
// a checking account, a savings account, an emergency reserve, a
// credit card and a handful of categories.
func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l := NewLedger()
	accounts := []Account{
		{ID: "checking", Name: "Banco Corrente", Type: Checking, OpenedOn: MustParse("2024-01-01")},
		{ID: "savings", Name: "Poupança", Type: Savings, OpenedOn: MustParse("2024-01-01")},
		{ID: "reserve", Name: "Reserva de Emergência", Type: EmergencyReserve, OpenedOn: MustParse("2024-01-01")},
		{ID: "card", Name: "Cartão", Type: CreditCard, OpenedOn: MustParse("2024-01-01")},
	}
	for _, a := range accounts {
		if err := l.AddAccount(a); err != nil {
			t.Fatalf("AddAccount(%s): %v", a.ID, err)
		}
	}
	categories := []Category{
		{ID: "salary", Label: "Salário", Nature: Revenue},
		{ID: "rent", Label: "Aluguel", Nature: FixedExpense, Recurring: true, ExpectedAmount: M(1200), DueDay: 5},
		{ID: "groceries", Label: "Mercado", Nature: VariableExpense},
		{ID: "transport", Label: "Transporte", Nature: VariableExpense},
		{ID: "insurance", Label: "Seguro", Nature: FixedExpense, Insurance: true},
	}
	for _, c := range categories {
		if err := l.AddCategory(c); err != nil {
			t.Fatalf("AddCategory(%s): %v", c.ID, err)
		}
	}
	return l
}

// addTx records a transaction, failing the test on rejection.
func addTx(t *testing.T, l *Ledger, tx Transaction) Transaction {
	t.Helper()
	if err := l.AddTransaction(tx); err != nil {
		t.Fatalf("AddTransaction(%s %s %s): %v", tx.Date, tx.Operation, tx.Amount, err)
	}
	return tx
}

// rate is a shorthand for decimal rates in fixtures.
func rate(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

// checkMoney compares a Money against an expected float value.
func checkMoney(t *testing.T, what string, got Money, want float64) {
	t.Helper()
	if !got.Equal(M(want)) {
		t.Errorf("%s = %s, want %s", what, got, M(want))
	}
}
