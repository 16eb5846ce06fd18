package homefin

import "testing"

func TestBalanceOn(t *testing.T) {
	l := newTestLedger(t)
	addTx(t, l, NewTransaction(MustParse("2025-01-01"), "checking", FlowIn, OpInitialBalance, M(1000), "", "saldo inicial"))
	addTx(t, l, NewTransaction(MustParse("2025-01-10"), "checking", FlowOut, OpExpense, M(200), "groceries", "mercado"))
	addTx(t, l, NewTransaction(MustParse("2025-01-20"), "checking", FlowIn, OpRevenue, M(500), "salary", "salário"))

	tests := []struct {
		name string
		on   string
		want float64
	}{
		{"before any transaction", "2024-12-31", 0},
		{"on the opening day", "2025-01-01", 1000},
		{"between transactions", "2025-01-15", 800},
		{"after everything", "2025-01-31", 1300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkMoney(t, "balance", l.BalanceOn("checking", MustParse(tt.on)), tt.want)
		})
	}

	t.Run("unknown account is zero", func(t *testing.T) {
		checkMoney(t, "balance", l.BalanceOn("ghost", MustParse("2025-01-31")), 0)
	})

	t.Run("balance only moves on transaction dates", func(t *testing.T) {
		// Between two consecutive transactions the balance is constant
		// day by day.
		r := NewRange(MustParse("2025-01-11"), MustParse("2025-01-19"))
		for d := range r.Days() {
			checkMoney(t, "balance on "+d.String(), l.BalanceOn("checking", d), 800)
		}
	})
}

func TestCreditCardPolarity(t *testing.T) {
	l := newTestLedger(t)
	addTx(t, l, NewTransaction(MustParse("2025-02-01"), "checking", FlowIn, OpInitialBalance, M(2000), "", ""))
	addTx(t, l, NewTransaction(MustParse("2025-02-05"), "card", FlowOut, OpExpense, M(250), "groceries", "mercado no cartão"))

	// A card expense grows the payable instead of going negative.
	checkMoney(t, "card payable", l.BalanceOn("card", MustParse("2025-02-28")), 250)
	checkMoney(t, "checking untouched", l.BalanceOn("checking", MustParse("2025-02-28")), 2000)

	// Paying the statement moves cash out and clears the payable.
	out, in, err := l.AddTransferPair(MustParse("2025-02-10"), "checking", "card", OpTransfer, M(250), "fatura")
	if err != nil {
		t.Fatal(err)
	}
	if in.Flow != FlowIn {
		t.Errorf("card leg flow = %s, want in", in.Flow)
	}
	if out.Flow != FlowTransferOut {
		t.Errorf("checking leg flow = %s, want transfer_out", out.Flow)
	}
	checkMoney(t, "card payable after fatura", l.BalanceOn("card", MustParse("2025-02-28")), 0)
	checkMoney(t, "checking after fatura", l.BalanceOn("checking", MustParse("2025-02-28")), 1750)
}

func TestBalanceAggregates(t *testing.T) {
	l := newTestLedger(t)
	on := MustParse("2025-03-31")
	addTx(t, l, NewTransaction(MustParse("2025-03-01"), "checking", FlowIn, OpInitialBalance, M(3000), "", ""))
	addTx(t, l, NewTransaction(MustParse("2025-03-01"), "reserve", FlowIn, OpInitialBalance, M(9000), "", ""))
	if _, _, err := l.AddTransferPair(MustParse("2025-03-05"), "checking", "savings", OpInvestContribution, M(1000), "aporte"); err != nil {
		t.Fatal(err)
	}
	addTx(t, l, NewTransaction(MustParse("2025-03-10"), "card", FlowOut, OpExpense, M(400), "groceries", ""))

	checkMoney(t, "liquid", l.LiquidBalanceOn(on), 2000+9000+1000)
	checkMoney(t, "invested", l.InvestedBalanceOn(on), 0)
	checkMoney(t, "card payables", l.CardPayablesOn(on), 400)
}

func TestSnapshotMemoization(t *testing.T) {
	l := newTestLedger(t)
	addTx(t, l, NewTransaction(MustParse("2025-01-01"), "checking", FlowIn, OpInitialBalance, M(100), "", ""))

	s1 := l.Snapshot()
	if s2 := l.Snapshot(); s1 != s2 {
		t.Error("snapshot should be reused while the ledger is unchanged")
	}
	checkMoney(t, "snapshot balance", s1.BalanceOn("checking", MustParse("2025-01-31")), 100)

	addTx(t, l, NewTransaction(MustParse("2025-01-15"), "checking", FlowIn, OpRevenue, M(50), "salary", ""))
	s3 := l.Snapshot()
	if s3 == s1 {
		t.Error("mutation must invalidate the snapshot")
	}
	checkMoney(t, "fresh snapshot balance", s3.BalanceOn("checking", MustParse("2025-01-31")), 150)
	// The stale snapshot keeps answering for its own version.
	checkMoney(t, "stale snapshot balance", s1.BalanceOn("checking", MustParse("2025-01-31")), 100)
}
