package homefin

import (
	"errors"
	"testing"
)

func TestMutationValidation(t *testing.T) {
	l := newTestLedger(t)

	tests := []struct {
		name string
		tx   Transaction
	}{
		{"unknown account", NewTransaction(MustParse("2025-01-01"), "ghost", FlowOut, OpExpense, M(10), "", "")},
		{"unknown category", NewTransaction(MustParse("2025-01-01"), "checking", FlowOut, OpExpense, M(10), "ghost", "")},
		{"revenue category on expense", NewTransaction(MustParse("2025-01-01"), "checking", FlowOut, OpExpense, M(10), "salary", "")},
		{"expense category on revenue", NewTransaction(MustParse("2025-01-01"), "checking", FlowIn, OpRevenue, M(10), "rent", "")},
		{"category on a transfer", func() Transaction {
			tx := NewTransaction(MustParse("2025-01-01"), "checking", FlowTransferOut, OpTransfer, M(10), "groceries", "")
			tx.Links.TransferGroupID = NewTransferGroupID()
			return tx
		}()},
		{"paired operation without group", NewTransaction(MustParse("2025-01-01"), "checking", FlowTransferOut, OpTransfer, M(10), "", "")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := l.AddTransaction(tt.tx)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("AddTransaction = %v, want a validation error", err)
			}
		})
	}
	if n := len(l.transactions); n != 0 {
		t.Errorf("rejected mutations left %d transactions behind", n)
	}
}

func TestDeleteGuards(t *testing.T) {
	l := newTestLedger(t)
	addTx(t, l, NewTransaction(MustParse("2025-01-10"), "checking", FlowOut, OpExpense, M(50), "groceries", ""))

	if err := l.DeleteAccount("checking"); !errors.Is(err, ErrIntegrity) {
		t.Errorf("DeleteAccount = %v, want an integrity error", err)
	}
	if err := l.DeleteCategory("groceries"); !errors.Is(err, ErrIntegrity) {
		t.Errorf("DeleteCategory = %v, want an integrity error", err)
	}
	if err := l.DeleteAccount("ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteAccount(ghost) = %v, want not found", err)
	}

	// Freeing the dependent clears the guard.
	if err := l.DeleteTransaction(l.transactions[0].ID); err != nil {
		t.Fatal(err)
	}
	if err := l.DeleteCategory("groceries"); err != nil {
		t.Errorf("DeleteCategory after freeing: %v", err)
	}
}

func TestUpdateTransactionPropagation(t *testing.T) {
	l := newTestLedger(t)
	out, in, err := l.AddTransferPair(MustParse("2025-03-05"), "checking", "savings", OpTransfer, M(500), "ted")
	if err != nil {
		t.Fatal(err)
	}

	newAmount := M(650)
	newDate := MustParse("2025-03-07")
	err = l.UpdateTransaction(out.ID, TransactionEdit{Amount: &newAmount, Date: &newDate})
	if err != nil {
		t.Fatal(err)
	}

	// Both legs moved together.
	for _, id := range []string{out.ID, in.ID} {
		tx, ok := l.Transaction(id)
		if !ok {
			t.Fatalf("transaction %q disappeared", id)
		}
		if !tx.Amount.Equal(newAmount) || tx.Date != newDate {
			t.Errorf("leg %q = %s on %s, want %s on %s", id, tx.Amount, tx.Date, newAmount, newDate)
		}
	}
	if err := l.CheckInvariants(); err != nil {
		t.Fatalf("pair invariant broken after edit: %v", err)
	}
}

func TestDeleteTransferDeletesBothLegs(t *testing.T) {
	l := newTestLedger(t)
	out, _, err := l.AddTransferPair(MustParse("2025-03-05"), "checking", "savings", OpTransfer, M(500), "ted")
	if err != nil {
		t.Fatal(err)
	}
	if err := l.DeleteTransaction(out.ID); err != nil {
		t.Fatal(err)
	}
	if n := len(l.transactions); n != 0 {
		t.Errorf("%d transactions left, want 0: a half-deleted pair", n)
	}
	if err := l.CheckInvariants(); err != nil {
		t.Errorf("invariants after pair delete: %v", err)
	}
}

func TestTransactionOrdering(t *testing.T) {
	l := newTestLedger(t)
	addTx(t, l, NewTransaction(MustParse("2025-05-20"), "checking", FlowIn, OpRevenue, M(1), "salary", "late"))
	addTx(t, l, NewTransaction(MustParse("2025-05-01"), "checking", FlowIn, OpRevenue, M(2), "salary", "early"))
	addTx(t, l, NewTransaction(MustParse("2025-05-10"), "checking", FlowIn, OpRevenue, M(3), "salary", "middle"))

	var got []string
	for _, tx := range l.Transactions() {
		got = append(got, tx.Description)
	}
	want := []string{"early", "middle", "late"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestTransactionFilters(t *testing.T) {
	l := newTestLedger(t)
	addTx(t, l, NewTransaction(MustParse("2025-05-01"), "checking", FlowIn, OpRevenue, M(10), "salary", ""))
	addTx(t, l, NewTransaction(MustParse("2025-05-02"), "savings", FlowIn, OpYield, M(20), "salary", ""))
	addTx(t, l, NewTransaction(MustParse("2025-06-01"), "checking", FlowOut, OpExpense, M(30), "groceries", ""))

	count := func(filters ...func(Transaction) bool) int {
		n := 0
		for range l.Transactions(filters...) {
			n++
		}
		return n
	}
	if got := count(ByAccount("checking")); got != 2 {
		t.Errorf("ByAccount(checking) = %d, want 2", got)
	}
	if got := count(ByOperation(OpRevenue, OpYield)); got != 2 {
		t.Errorf("ByOperation(revenue, yield) = %d, want 2", got)
	}
	if got := count(ByRange(MonthOf(MustParse("2025-05-15")))); got != 2 {
		t.Errorf("ByRange(may) = %d, want 2", got)
	}
	// Filters are OR-combined.
	if got := count(ByAccount("savings"), ByOperation(OpExpense)); got != 2 {
		t.Errorf("OR of filters = %d, want 2", got)
	}
	if got := count(); got != 3 {
		t.Errorf("no filter = %d, want all 3", got)
	}
}

func TestVersionCounting(t *testing.T) {
	l := newTestLedger(t)
	v := l.Version()
	addTx(t, l, NewTransaction(MustParse("2025-01-01"), "checking", FlowIn, OpRevenue, M(1), "salary", ""))
	if l.Version() <= v {
		t.Error("mutation must advance the version")
	}
	v = l.Version()
	l.BalanceOn("checking", MustParse("2025-01-31"))
	l.Snapshot()
	if l.Version() != v {
		t.Error("queries must not advance the version")
	}
	if err := l.AddAccount(Account{ID: "checking", Name: "dup", OpenedOn: MustParse("2024-01-01")}); err == nil {
		t.Fatal("duplicate account accepted")
	}
	if l.Version() != v {
		t.Error("a rejected mutation must not advance the version")
	}
}
