package homefin

import (
	"testing"
)

func testLoan() Loan {
	return Loan{
		ID:          "car",
		Label:       "Financiamento do carro",
		Principal:   M(12000),
		MonthlyRate: rate(0.02),
		Months:      12,
		StartsOn:    MustParse("2025-06-10"),
		Status:      LoanActive,
		AccountID:   "checking",
	}
}

func TestPriceInstallment(t *testing.T) {
	tests := []struct {
		name      string
		principal Money
		rate      float64
		months    int
		want      float64
	}{
		{"12k at 2% over 12", M(12000), 0.02, 12, 1134.72},
		{"zero rate splits evenly", M(1200), 0, 12, 100},
		{"single installment", M(500), 0.01, 1, 505},
		{"zero months", M(500), 0.01, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PriceInstallment(tt.principal, rate(tt.rate), tt.months)
			checkMoney(t, "installment", got, tt.want)
		})
	}
}

func TestLoanSchedule(t *testing.T) {
	l := newTestLedger(t)
	if err := l.AddLoan(testLoan()); err != nil {
		t.Fatal(err)
	}
	rows := l.Schedule("car")
	if len(rows) != 12 {
		t.Fatalf("schedule has %d rows, want 12", len(rows))
	}

	// First period: interest on the full principal.
	checkMoney(t, "rows[0].Interest", rows[0].Interest, 240)
	checkMoney(t, "rows[0].Amortization", rows[0].Amortization, 894.72)
	checkMoney(t, "rows[0].RemainingBalance", rows[0].RemainingBalance, 11105.28)
	if got := rows[0].DueDate; got != MustParse("2025-06-10") {
		t.Errorf("rows[0].DueDate = %s, want 2025-06-10", got)
	}
	if got := rows[11].DueDate; got != MustParse("2026-05-10") {
		t.Errorf("rows[11].DueDate = %s, want 2026-05-10", got)
	}

	// Amortizations must rebuild the principal exactly, whatever the
	// per-period rounding did; the last row absorbs the residual.
	sum := M(0)
	for _, row := range rows {
		sum = sum.Add(row.Amortization)
	}
	checkMoney(t, "sum of amortizations", sum, 12000)
	if !rows[11].RemainingBalance.IsZero() {
		t.Errorf("final balance = %s, want zero", rows[11].RemainingBalance)
	}

	// Balance decreases monotonically.
	prev := M(12000)
	for _, row := range rows {
		if !row.RemainingBalance.LessThan(prev) {
			t.Errorf("balance did not decrease at installment %d: %s -> %s", row.Number, prev, row.RemainingBalance)
		}
		prev = row.RemainingBalance
	}
}

func TestLoanScheduleUnconfigured(t *testing.T) {
	l := newTestLedger(t)
	pending := Loan{ID: "new", Label: "Empréstimo importado", Status: LoanPending, Principal: M(15000)}
	if err := l.AddLoan(pending); err != nil {
		t.Fatal(err)
	}
	if rows := l.Schedule("new"); rows != nil {
		t.Errorf("pending loan schedule = %d rows, want none", len(rows))
	}
	if rows := l.Schedule("ghost"); rows != nil {
		t.Errorf("unknown loan schedule = %d rows, want none", len(rows))
	}
	checkMoney(t, "pending principal remaining", l.PrincipalRemainingOn("new", MustParse("2025-12-31")), 0)
}

func TestMarkInstallmentPaid(t *testing.T) {
	l := newTestLedger(t)
	if err := l.AddLoan(testLoan()); err != nil {
		t.Fatal(err)
	}

	tx, err := l.MarkInstallmentPaid("car", M(1134.72), MustParse("2025-06-12"), 0)
	if err != nil {
		t.Fatal(err)
	}
	if tx.Links.Installment != 1 {
		t.Errorf("paid installment = %d, want 1 (next unpaid)", tx.Links.Installment)
	}
	if tx.Operation != OpLoanPayment || tx.Flow != FlowOut {
		t.Errorf("payment recorded as %s/%s", tx.Operation, tx.Flow)
	}

	rows := l.Schedule("car")
	if !rows[0].Paid || rows[0].PaidOn != MustParse("2025-06-12") {
		t.Errorf("rows[0] not marked paid: %+v", rows[0])
	}
	if rows[1].Paid {
		t.Error("rows[1] should still be unpaid")
	}
	if got := l.NextUnpaidInstallment("car"); got != 2 {
		t.Errorf("NextUnpaidInstallment = %d, want 2", got)
	}
	checkMoney(t, "principal remaining", l.PrincipalRemainingOn("car", MustParse("2025-06-30")), 11105.28)

	// The payment also moved the account.
	checkMoney(t, "checking balance", l.BalanceOn("checking", MustParse("2025-06-30")), -1134.72)

	if err := l.UnmarkInstallmentPaid("car"); err != nil {
		t.Fatal(err)
	}
	if got := l.NextUnpaidInstallment("car"); got != 1 {
		t.Errorf("after unmark, NextUnpaidInstallment = %d, want 1", got)
	}
}

func TestRepeatedPaymentCountsOnce(t *testing.T) {
	l := newTestLedger(t)
	if err := l.AddLoan(testLoan()); err != nil {
		t.Fatal(err)
	}

	// A corrective second payment on the same installment must not
	// advance the schedule position.
	if _, err := l.MarkInstallmentPaid("car", M(1134.72), MustParse("2025-06-12"), 1); err != nil {
		t.Fatal(err)
	}
	if _, err := l.MarkInstallmentPaid("car", M(1134.72), MustParse("2025-06-15"), 1); err != nil {
		t.Fatal(err)
	}

	if got := l.PaidInstallmentsOn("car", MustParse("2025-06-30")); got != 1 {
		t.Errorf("PaidInstallmentsOn = %d, want 1 (same installment twice)", got)
	}
	checkMoney(t, "principal remaining", l.PrincipalRemainingOn("car", MustParse("2025-06-30")), 11105.28)
	if got := l.NextUnpaidInstallment("car"); got != 2 {
		t.Errorf("NextUnpaidInstallment = %d, want 2", got)
	}
}

func TestLoanSettlement(t *testing.T) {
	l := newTestLedger(t)
	loan := testLoan()
	loan.Months = 3
	loan.Principal = M(3000)
	if err := l.AddLoan(loan); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if _, err := l.MarkInstallmentPaid("car", M(1020.13), MustParse("2025-06-10").AddMonth(i), 0); err != nil {
			t.Fatal(err)
		}
	}
	got, _ := l.Loan("car")
	if got.Status != LoanSettled {
		t.Fatalf("status after full payment = %s, want settled", got.Status)
	}
	if _, err := l.MarkInstallmentPaid("car", M(1020.13), MustParse("2025-09-10"), 0); err == nil {
		t.Error("paying a settled loan should fail")
	}

	// Removing the last payment reopens the loan.
	if err := l.UnmarkInstallmentPaid("car"); err != nil {
		t.Fatal(err)
	}
	got, _ = l.Loan("car")
	if got.Status != LoanActive {
		t.Errorf("status after unmark = %s, want active", got.Status)
	}
}

func TestLegacyPaidCount(t *testing.T) {
	l := newTestLedger(t)
	loan := testLoan()
	loan.LegacyPaidCount = 3
	if err := l.AddLoan(loan); err != nil {
		t.Fatal(err)
	}

	// With no linked payment the manual count stands in.
	rows := l.Schedule("car")
	for n := 0; n < 3; n++ {
		if !rows[n].Paid {
			t.Errorf("rows[%d] should be paid from the legacy count", n)
		}
	}
	if got := l.PaidInstallmentsOn("car", MustParse("2025-12-31")); got != 3 {
		t.Errorf("PaidInstallmentsOn = %d, want 3", got)
	}
	if got := l.NextUnpaidInstallment("car"); got != 4 {
		t.Errorf("NextUnpaidInstallment = %d, want 4", got)
	}
	checkMoney(t, "principal remaining", l.PrincipalRemainingOn("car", MustParse("2025-12-31")), l.Schedule("car")[2].RemainingBalance.Decimal().InexactFloat64())

	// The first linked payment supersedes the manual count entirely.
	if _, err := l.MarkInstallmentPaid("car", M(1134.72), MustParse("2025-09-10"), 0); err != nil {
		t.Fatal(err)
	}
	if got := l.PaidInstallmentsOn("car", MustParse("2025-12-31")); got != 1 {
		t.Errorf("after first linked payment PaidInstallmentsOn = %d, want 1", got)
	}
}
