package homefin

import (
	"testing"
)

// reportsFixture builds July 2025: salary in, rent and groceries out, a
// cash insurance premium payment, one loan installment paid, and a
// transfer to savings that must not touch the income statement.
func reportsFixture(t *testing.T) *Ledger {
	t.Helper()
	l := newTestLedger(t)

	loan := testLoan()
	loan.StartsOn = MustParse("2025-07-05")
	if err := l.AddLoan(loan); err != nil {
		t.Fatal(err)
	}
	policy := testPolicy()
	policy.CoverageStart = MustParse("2025-07-01")
	if err := l.AddPolicy(policy); err != nil {
		t.Fatal(err)
	}

	addTx(t, l, NewTransaction(MustParse("2025-07-01"), "checking", FlowIn, OpRevenue, M(8000), "salary", "salário"))
	addTx(t, l, NewTransaction(MustParse("2025-07-05"), "checking", FlowOut, OpExpense, M(1200), "rent", "aluguel"))
	addTx(t, l, NewTransaction(MustParse("2025-07-12"), "checking", FlowOut, OpExpense, M(900), "groceries", "mercado"))

	// Cash premium payment: excluded from the accrual statement, which
	// books the prorated coverage instead.
	premium := NewTransaction(MustParse("2025-07-01"), "checking", FlowOut, OpExpense, M(200), "insurance", "seguro auto 1/12")
	premium.Links.PolicyID = "auto"
	premium.Links.Installment = 1
	addTx(t, l, premium)
	if err := l.MarkPolicyInstallmentPaid("auto", 1, MustParse("2025-07-01")); err != nil {
		t.Fatal(err)
	}

	if _, err := l.MarkInstallmentPaid("car", M(1134.72), MustParse("2025-07-05"), 0); err != nil {
		t.Fatal(err)
	}
	if _, _, err := l.AddTransferPair(MustParse("2025-07-20"), "checking", "savings", OpTransfer, M(1000), "guardado"); err != nil {
		t.Fatal(err)
	}
	return l
}

func TestIncomeStatement(t *testing.T) {
	l := reportsFixture(t)
	income := l.IncomeStatementFor(MonthOf(MustParse("2025-07-01")))

	checkMoney(t, "total revenue", income.TotalRevenue, 8000)
	// Fixed block: rent + accrued insurance month.
	checkMoney(t, "total fixed", income.TotalFixed, 1200+200)
	checkMoney(t, "total variable", income.TotalVariable, 900)
	checkMoney(t, "total loan interest", income.TotalLoanInterest, 240)

	// Results subtract in succession.
	checkMoney(t, "gross result", income.GrossResult, 8000-1400)
	checkMoney(t, "operating result", income.OperatingResult, 8000-1400-900)
	checkMoney(t, "net result", income.Result, 8000-1400-900-240)

	// The principal share of the loan payment and the transfer never
	// show up as expense; only the scheduled interest is booked.
	if len(income.LoanInterest) != 1 {
		t.Fatalf("got %d loan interest lines, want 1", len(income.LoanInterest))
	}
	if income.LoanInterest[0].Ref != "car" {
		t.Errorf("loan interest line ref = %q, want car", income.LoanInterest[0].Ref)
	}
	checkMoney(t, "loan line books interest only", income.LoanInterest[0].Amount, 240)
	for _, line := range append(income.FixedExpenses, income.VariableExpenses...) {
		if line.Ref == "car" {
			t.Errorf("loan payment leaked into an operating expense block: %+v", line)
		}
	}

	// The cash premium payment was replaced by the accrual, not doubled.
	seguro := 0
	for _, line := range income.FixedExpenses {
		if line.Ref == "auto" || line.Ref == "insurance" {
			seguro++
			checkMoney(t, "insurance accrual line", line.Amount, 200)
		}
	}
	if seguro != 1 {
		t.Errorf("found %d insurance lines, want exactly 1 (the accrual)", seguro)
	}
}

func TestBalanceSheet(t *testing.T) {
	l := reportsFixture(t)
	if err := l.AddVehicle(Vehicle{ID: "civic", Label: "Civic", PurchasedOn: MustParse("2024-03-01"), ReferenceValue: M(85000)}); err != nil {
		t.Fatal(err)
	}
	sheet := l.BalanceSheetOn(MustParse("2025-07-31"))

	// checking: 8000 - 1200 - 900 - 200 - 1134.72 - 1000 = 3565.28
	wantLiquid := 3565.28 + 1000 // checking + savings
	wantAssets := wantLiquid + 85000 + 2200
	total := M(0)
	for _, line := range sheet.Liquid {
		total = total.Add(line.Amount)
	}
	checkMoney(t, "liquid", total, wantLiquid)
	checkMoney(t, "total assets", sheet.TotalAssets, wantAssets)

	// Liabilities: loan principal after one installment + unpaid premium.
	wantLiabilities := 11105.28 + 2200
	checkMoney(t, "total liabilities", sheet.TotalLiabilities, wantLiabilities)
	checkMoney(t, "net worth", sheet.NetWorth, wantAssets-wantLiabilities)

	if len(sheet.CardPayables) != 0 {
		t.Errorf("no card debt expected, got %+v", sheet.CardPayables)
	}
	if len(sheet.Fleet) != 1 {
		t.Fatalf("fleet has %d lines, want 1", len(sheet.Fleet))
	}
}

func TestRatios(t *testing.T) {
	l := reportsFixture(t)
	addTx(t, l, NewTransaction(MustParse("2025-07-01"), "reserve", FlowIn, OpInitialBalance, M(20000), "", ""))
	report := l.ReportFor(MonthOf(MustParse("2025-07-01")))

	byName := map[string]Ratio{}
	for _, r := range report.Ratios {
		byName[r.Name] = r
	}

	savings := byName["savings rate"]
	if !savings.Defined {
		t.Fatal("savings rate should be defined")
	}
	// 5460 / 8000 = 68.25%, comfortably good.
	if savings.Band() != RatioGood {
		t.Errorf("savings rate band = %s (value %s)", savings.Band(), savings)
	}

	coverage := byName["emergency coverage"]
	if !coverage.Defined {
		t.Fatal("emergency coverage should be defined")
	}
	// 20000 / 2540 ≈ 7.9 months of expenses.
	if coverage.Band() != RatioGood {
		t.Errorf("coverage band = %s (value %s)", coverage.Band(), coverage)
	}

	debt := byName["debt to assets"]
	if !debt.Inverse {
		t.Error("debt to assets should be lower-is-better")
	}

	dti := byName["debt to income"]
	if !dti.Defined || !dti.Inverse {
		t.Fatalf("debt to income should be defined and lower-is-better: %+v", dti)
	}
	// 13305.28 of liabilities / 8000 of monthly revenue ≈ 1.7 months.
	if dti.Band() != RatioGood {
		t.Errorf("debt to income band = %s (value %s)", dti.Band(), dti)
	}
}

func TestRatiosUndefinedOnEmptyLedger(t *testing.T) {
	l := NewLedger()
	report := l.ReportFor(MonthOf(MustParse("2025-07-01")))
	for _, r := range report.Ratios {
		if r.Defined {
			t.Errorf("%s should be undefined on an empty ledger", r.Name)
		}
		if r.Band() != RatioUnknown {
			t.Errorf("%s band = %s, want n/a", r.Name, r.Band())
		}
		if r.String() != "n/a" {
			t.Errorf("%s renders as %q, want n/a", r.Name, r.String())
		}
	}
}

func TestCompare(t *testing.T) {
	l := reportsFixture(t)
	addTx(t, l, NewTransaction(MustParse("2025-06-01"), "checking", FlowIn, OpRevenue, M(8000), "salary", "salário"))
	addTx(t, l, NewTransaction(MustParse("2025-06-10"), "checking", FlowOut, OpExpense, M(3000), "groceries", "mercado"))

	c := l.Compare(MonthOf(MustParse("2025-07-01")), MonthOf(MustParse("2025-06-01")))
	// June result 8000-3000=5000, July result 5460.
	checkMoney(t, "result delta", c.ResultDelta(), 460)
	if got := c.NetWorthDelta(); !got.IsPositive() {
		t.Errorf("net worth delta = %s, want positive", got)
	}

	trends := map[string]Trend{}
	for _, rt := range c.RatioTrends() {
		trends[rt.Current.Name] = rt.Trend
	}
	// Savings rate rose from 62.5% to 68.25%.
	if got := trends["savings rate"]; got != TrendImproving {
		t.Errorf("savings rate trend = %s, want improving", got)
	}
	// Fixed expense load rose from 0% to 17.5%; lower is better, so a
	// rising value reads as worsening.
	if got := trends["fixed expense load"]; got != TrendWorsening {
		t.Errorf("fixed expense load trend = %s, want worsening", got)
	}
}
