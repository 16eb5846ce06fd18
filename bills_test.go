package homefin

import "testing"

// billsFixture sets up June 2025 with one of each bill source: the
// recurring rent template, a loan installment, an insurance
// installment and an ad-hoc entry.
func billsFixture(t *testing.T) *Ledger {
	t.Helper()
	l := newTestLedger(t)
	if err := l.AddLoan(testLoan()); err != nil { // first installment due 2025-06-10
		t.Fatal(err)
	}
	policy := InsurancePolicy{
		ID:             "auto",
		Label:          "Seguro auto",
		Premium:        M(2400),
		CoverageStart:  MustParse("2025-06-15"),
		CoverageMonths: 12,
		Installments:   12,
		CategoryID:     "insurance",
		AccountID:      "checking",
	}
	if err := l.AddPolicy(policy); err != nil {
		t.Fatal(err)
	}
	dentist := NewBillEntry("Dentista", MustParse("2025-06-20"), M(300), "groceries", "checking")
	if err := l.AddBill(dentist); err != nil {
		t.Fatal(err)
	}
	return l
}

func TestGenerateMonthList(t *testing.T) {
	l := billsFixture(t)
	entries := l.GenerateMonthList(MustParse("2025-06-01"), true)
	if len(entries) != 4 {
		t.Fatalf("got %d entries, want 4: %+v", len(entries), entries)
	}

	wantOrder := []struct {
		source BillSource
		due    string
		amount float64
	}{
		{BillTemplate, "2025-06-05", 1200},
		{BillLoan, "2025-06-10", 1134.72},
		{BillInsurance, "2025-06-15", 200},
		{BillAdHoc, "2025-06-20", 300},
	}
	for i, want := range wantOrder {
		e := entries[i]
		if e.Source != want.source {
			t.Errorf("entries[%d].Source = %s, want %s", i, e.Source, want.source)
		}
		if e.DueDate != MustParse(want.due) {
			t.Errorf("entries[%d].DueDate = %s, want %s", i, e.DueDate, want.due)
		}
		checkMoney(t, "entry amount", e.Amount, want.amount)
		if e.Paid {
			t.Errorf("entries[%d] should start unpaid", i)
		}
	}

	// Generating again is pure: same list, nothing persisted.
	again := l.GenerateMonthList(MustParse("2025-06-28"), true)
	if len(again) != 4 {
		t.Errorf("second generation has %d entries, want 4", len(again))
	}
}

func TestCommitMonthToggles(t *testing.T) {
	l := billsFixture(t)
	entries := l.GenerateMonthList(MustParse("2025-06-01"), true)

	// Pay everything, each entry through its own mechanism.
	for i := range entries {
		entries[i].Paid = true
		entries[i].PaidOn = entries[i].DueDate
		if entries[i].AccountID == "" {
			entries[i].AccountID = "checking"
		}
	}
	if err := l.CommitMonth(entries); err != nil {
		t.Fatal(err)
	}

	regen := l.GenerateMonthList(MustParse("2025-06-01"), true)
	for i, e := range regen {
		if !e.Paid {
			t.Errorf("after commit, entries[%d] (%s) still unpaid", i, e.Source)
		}
		if e.TransactionID == "" {
			t.Errorf("after commit, entries[%d] (%s) has no transaction", i, e.Source)
		}
	}

	// The loan toggle went through the amortization engine.
	if got := l.NextUnpaidInstallment("car"); got != 2 {
		t.Errorf("loan next unpaid = %d, want 2", got)
	}
	// The insurance toggle both recorded the expense and marked the policy.
	policy, _ := l.Policy("auto")
	if _, ok := policy.Paid[1]; !ok {
		t.Error("policy installment 1 not marked paid")
	}

	// Committing the same worksheet again is a no-op.
	version := l.Version()
	if err := l.CommitMonth(regen); err != nil {
		t.Fatal(err)
	}
	if l.Version() != version {
		t.Error("re-committing an unchanged worksheet mutated the ledger")
	}

	// Toggle the rent back to unpaid: its transaction goes away.
	for i := range regen {
		if regen[i].Source == BillTemplate {
			regen[i].Paid = false
		}
	}
	if err := l.CommitMonth(regen); err != nil {
		t.Fatal(err)
	}
	final := l.GenerateMonthList(MustParse("2025-06-01"), true)
	for _, e := range final {
		if e.Source == BillTemplate && e.Paid {
			t.Error("rent should be unpaid again")
		}
		if e.Source == BillAdHoc && !e.Paid {
			t.Error("ad-hoc entry should remain paid")
		}
	}
}

func TestExcludedEntryStaysOut(t *testing.T) {
	l := billsFixture(t)
	entries := l.GenerateMonthList(MustParse("2025-06-01"), true)

	// Exclude the rent template for June: the landlord waived it.
	for i := range entries {
		if entries[i].Source == BillTemplate {
			entries[i].Excluded = true
		}
	}
	if err := l.CommitMonth(entries); err != nil {
		t.Fatal(err)
	}

	regen := l.GenerateMonthList(MustParse("2025-06-01"), true)
	for _, e := range regen {
		if e.Source == BillTemplate {
			t.Fatalf("excluded template entry came back: %+v", e)
		}
	}
	if len(regen) != 3 {
		t.Errorf("got %d entries after exclusion, want 3", len(regen))
	}

	// Exclusion is terminal and sticky: committing the regenerated
	// worksheet changes nothing, and no expense is ever recorded.
	version := l.Version()
	if err := l.CommitMonth(regen); err != nil {
		t.Fatal(err)
	}
	if l.Version() != version {
		t.Error("re-committing after an exclusion mutated the ledger")
	}
	got := 0
	for range l.Transactions(ByRange(MonthOf(MustParse("2025-06-01")))) {
		got++
	}
	if got != 0 {
		t.Errorf("exclusion recorded %d transactions, want 0", got)
	}

	// July regenerates its own rent entry; only June's was excluded.
	for _, e := range l.GenerateMonthList(MustParse("2025-07-01"), true) {
		if e.Source == BillTemplate {
			return
		}
	}
	t.Error("July lost its rent template entry")
}

func TestExcludePaidEntryFails(t *testing.T) {
	l := billsFixture(t)
	entries := l.GenerateMonthList(MustParse("2025-06-01"), true)
	for i := range entries {
		if entries[i].Source == BillAdHoc {
			entries[i].Paid = true
		}
	}
	if err := l.CommitMonth(entries); err != nil {
		t.Fatal(err)
	}

	regen := l.GenerateMonthList(MustParse("2025-06-01"), true)
	for i := range regen {
		if regen[i].Source == BillAdHoc {
			regen[i].Excluded = true
		}
	}
	if err := l.CommitMonth(regen); err == nil {
		t.Fatal("excluding a paid entry should fail")
	}
}

func TestExcludedAdHocEntry(t *testing.T) {
	l := billsFixture(t)
	entries := l.GenerateMonthList(MustParse("2025-06-01"), true)
	for i := range entries {
		if entries[i].Source == BillAdHoc {
			entries[i].Excluded = true
		}
	}
	if err := l.CommitMonth(entries); err != nil {
		t.Fatal(err)
	}
	for _, e := range l.GenerateMonthList(MustParse("2025-06-01"), true) {
		if e.Source == BillAdHoc {
			t.Fatalf("excluded ad-hoc entry came back: %+v", e)
		}
	}
}

func TestGenerateWithoutTemplates(t *testing.T) {
	l := billsFixture(t)
	entries := l.GenerateMonthList(MustParse("2025-06-01"), false)
	if len(entries) != 3 {
		t.Fatalf("got %d entries without templates, want 3", len(entries))
	}
	for _, e := range entries {
		if e.Source == BillTemplate {
			t.Errorf("template entry present with templates off: %+v", e)
		}
	}
}

func TestOverdueAdHocCarriesOver(t *testing.T) {
	l := billsFixture(t)
	july := l.GenerateMonthList(MustParse("2025-07-01"), true)
	found := false
	for _, e := range july {
		if e.Source == BillAdHoc && e.Label == "Dentista" {
			found = true
		}
	}
	if !found {
		t.Fatal("unpaid June ad-hoc entry should carry over to July")
	}

	// Once paid it belongs to June alone.
	june := l.GenerateMonthList(MustParse("2025-06-01"), true)
	for i := range june {
		if june[i].Source == BillAdHoc {
			june[i].Paid = true
		}
	}
	if err := l.CommitMonth(june); err != nil {
		t.Fatal(err)
	}
	for _, e := range l.GenerateMonthList(MustParse("2025-07-01"), true) {
		if e.Source == BillAdHoc && e.Label == "Dentista" {
			t.Fatalf("paid June entry still carried over: %+v", e)
		}
	}
}

func TestRecordedExpensesShowReadOnly(t *testing.T) {
	l := billsFixture(t)
	addTx(t, l, NewTransaction(MustParse("2025-06-18"), "checking", FlowOut, OpExpense, M(89.9), "groceries", "padaria"))

	entries := l.GenerateMonthList(MustParse("2025-06-01"), true)
	var recorded *BillEntry
	for i := range entries {
		if entries[i].Source == BillPurchase {
			recorded = &entries[i]
		}
	}
	if recorded == nil {
		t.Fatal("recorded expense missing from the worksheet")
	}
	if !recorded.ReadOnly || !recorded.Paid {
		t.Errorf("recorded entry should be read-only and paid: %+v", recorded)
	}
	checkMoney(t, "recorded amount", recorded.Amount, 89.9)

	// Committing the worksheet never touches the mirrored transaction,
	// even if a caller flips its flags.
	recorded.Paid = false
	version := l.Version()
	if err := l.CommitMonth(entries); err != nil {
		t.Fatal(err)
	}
	if l.Version() != version {
		t.Error("committing a read-only entry mutated the ledger")
	}
}

func TestAdHocBillLifecycle(t *testing.T) {
	l := newTestLedger(t)
	b := NewBillEntry("IPTU", MustParse("2025-04-10"), M(480), "groceries", "checking")
	if err := l.AddBill(b); err != nil {
		t.Fatal(err)
	}

	entries := l.GenerateMonthList(MustParse("2025-04-01"), true)
	if len(entries) != 2 { // the recurring rent template plus IPTU
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	// A paid ad-hoc entry cannot be deleted outright.
	for i := range entries {
		if entries[i].ID == b.ID {
			entries[i].Paid = true
		}
	}
	if err := l.CommitMonth(entries); err != nil {
		t.Fatal(err)
	}
	if err := l.DeleteBill(b.ID); err == nil {
		t.Fatal("deleting a paid bill should fail")
	}

	// Deleting the paying transaction reverts it to pending.
	regen := l.GenerateMonthList(MustParse("2025-04-01"), true)
	for _, e := range regen {
		if e.ID == b.ID {
			if err := l.DeleteTransaction(e.TransactionID); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := l.DeleteBill(b.ID); err != nil {
		t.Fatalf("delete after revert: %v", err)
	}
}
