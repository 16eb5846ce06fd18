package homefin

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// BillSource tells where a bills-of-the-month entry comes from. Only
// ad-hoc entries are persisted; the other sources are regenerated from
// their contracts on every listing.
type BillSource int

const (
	BillTemplate  BillSource = iota // recurring expense category
	BillLoan                        // loan installment
	BillInsurance                   // insurance premium installment
	BillAdHoc                       // one-off entry typed by hand
	BillPurchase                    // recorded purchase shown read-only
)

func (s BillSource) String() string {
	switch s {
	case BillTemplate:
		return "template"
	case BillLoan:
		return "loan"
	case BillInsurance:
		return "insurance"
	case BillAdHoc:
		return "adhoc"
	case BillPurchase:
		return "purchase-installment"
	default:
		return "unknown"
	}
}

func ParseBillSource(str string) (BillSource, error) {
	switch str {
	case "template":
		return BillTemplate, nil
	case "loan":
		return BillLoan, nil
	case "insurance":
		return BillInsurance, nil
	case "adhoc":
		return BillAdHoc, nil
	case "purchase-installment":
		return BillPurchase, nil
	default:
		return 0, fmt.Errorf("unknown bill source: %q", str)
	}
}

func (s BillSource) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", s.String())), nil
}

func (s *BillSource) UnmarshalJSON(data []byte) error {
	str, err := unquote(data)
	if err != nil {
		return err
	}
	v, err := ParseBillSource(str)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// BillEntry is one line of the bills-of-the-month worksheet. Generated
// entries (template, loan, insurance) are derived views over their
// contracts; editing them means editing the contract. Ad-hoc entries
// live in the ledger, as do the exclusion marks of generated entries.
type BillEntry struct {
	ID            string     `json:"id"`
	Source        BillSource `json:"source"`
	SourceRef     string     `json:"sourceRef,omitempty"` // category, loan or policy id
	Installment   int        `json:"installment,omitempty"`
	Label         string     `json:"label"`
	DueDate       Date       `json:"dueDate"`
	Amount        Money      `json:"amount"`
	CategoryID    string     `json:"categoryId,omitempty"`
	AccountID     string     `json:"accountId,omitempty"`
	Paid          bool       `json:"paid,omitempty"`
	PaidOn        Date       `json:"paidOn,omitzero"`
	PaidAmount    Money      `json:"paidAmount,omitzero"`
	TransactionID string     `json:"transactionId,omitempty"`
	Excluded      bool       `json:"excluded,omitempty"`
	ReadOnly      bool       `json:"-"` // derived: a recorded movement shown for completeness
}

// dedupKey identifies a generated entry across regenerations.
func (b BillEntry) dedupKey() string {
	return fmt.Sprintf("%s/%s/%d", b.Source, b.SourceRef, b.Installment)
}

// Validate checks an ad-hoc entry's own fields.
func (b BillEntry) Validate() error {
	if b.ID == "" {
		return validationf("bill entry id is missing")
	}
	if b.Label == "" {
		return validationf("bill entry %s label is missing", b.ID)
	}
	if b.DueDate.IsZero() {
		return validationf("bill entry %s due date is missing", b.ID)
	}
	if b.Amount.IsNegative() {
		return validationf("bill entry %s amount must be non-negative, got %s", b.ID, b.Amount)
	}
	return nil
}

// NewBillEntry builds an ad-hoc bill with a fresh id.
func NewBillEntry(label string, due Date, amount Money, categoryID, accountID string) BillEntry {
	return BillEntry{
		ID:         uuid.NewString(),
		Source:     BillAdHoc,
		Label:      label,
		DueDate:    due,
		Amount:     amount.Abs(),
		CategoryID: categoryID,
		AccountID:  accountID,
	}
}

// AddBill persists a new ad-hoc entry.
func (l *Ledger) AddBill(b BillEntry) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if b.Source != BillAdHoc {
		return validationf("only ad-hoc bill entries are persisted, got source %s", b.Source)
	}
	for _, existing := range l.bills {
		if existing.ID == b.ID {
			return validationf("bill entry %q already exists", b.ID)
		}
	}
	l.bills = append(l.bills, b)
	l.bump()
	return nil
}

// DeleteBill removes an ad-hoc entry. A paid entry must be un-paid
// first so the ledger transaction does not dangle.
func (l *Ledger) DeleteBill(id string) error {
	for i, b := range l.bills {
		if b.ID != id {
			continue
		}
		if b.Paid {
			return integrityf("bill entry %q is paid; un-pay it before deleting", id)
		}
		l.bills = append(l.bills[:i], l.bills[i+1:]...)
		l.bump()
		return nil
	}
	return notFoundf("bill entry %q", id)
}

// GenerateMonthList assembles the bills-of-the-month worksheet for the
// month containing day: recurring expense templates (when
// includeTemplates is set), loan installments and insurance
// installments due in the month, persisted ad-hoc entries (including
// overdue unpaid ones from earlier months), and read-only lines for
// expenses already recorded outside the worksheet. Entries excluded in
// an earlier commit stay out on every regeneration. Generated entries
// carry their live paid state inferred from the ledger. Entries come
// back sorted by due date.
func (l *Ledger) GenerateMonthList(day Date, includeTemplates bool) []BillEntry {
	month := MonthOf(day)

	excluded := make(map[string]bool)
	for _, b := range l.bills {
		if b.Excluded {
			excluded[b.ID] = true
		}
	}

	var entries []BillEntry
	seen := make(map[string]bool)
	add := func(b BillEntry) {
		if excluded[b.ID] {
			return
		}
		switch b.Source {
		case BillTemplate, BillLoan, BillInsurance:
			k := b.dedupKey()
			if seen[k] {
				return
			}
			seen[k] = true
		}
		entries = append(entries, b)
	}

	for c := range l.Categories() {
		if !includeTemplates || !c.Recurring || !c.Nature.IsExpense() {
			continue
		}
		due := NewDate(day.Year(), day.Month(), c.DueDay)
		entry := BillEntry{
			ID:         "template:" + c.ID + ":" + month.Identifier(),
			Source:     BillTemplate,
			SourceRef:  c.ID,
			Label:      c.Label,
			DueDate:    due,
			Amount:     c.ExpectedAmount,
			CategoryID: c.ID,
		}
		if tx, ok := l.monthExpenseFor(c.ID, month); ok {
			entry.Paid = true
			entry.PaidOn = tx.Date
			entry.PaidAmount = tx.Amount
			entry.TransactionID = tx.ID
		}
		add(entry)
	}

	for loan := range l.Loans() {
		if !loan.Configured() {
			continue
		}
		for _, row := range l.Schedule(loan.ID) {
			if !month.Contains(row.DueDate) {
				continue
			}
			entry := BillEntry{
				ID:          "loan:" + loan.ID + ":" + fmt.Sprint(row.Number),
				Source:      BillLoan,
				SourceRef:   loan.ID,
				Installment: row.Number,
				Label:       fmt.Sprintf("%s (%d/%d)", loan.Label, row.Number, loan.Months),
				DueDate:     row.DueDate,
				Amount:      row.Interest.Add(row.Amortization),
				AccountID:   loan.AccountID,
			}
			if row.Paid {
				entry.Paid = true
				entry.PaidOn = row.PaidOn
				entry.PaidAmount = row.PaidAmount
				if tx, ok := l.loanPaymentFor(loan.ID, row.Number); ok {
					entry.TransactionID = tx.ID
				}
			}
			add(entry)
		}
	}

	for p := range l.Policies() {
		for n := 1; n <= p.Installments; n++ {
			due := p.InstallmentDue(n)
			if !month.Contains(due) {
				continue
			}
			entry := BillEntry{
				ID:          "insurance:" + p.ID + ":" + fmt.Sprint(n),
				Source:      BillInsurance,
				SourceRef:   p.ID,
				Installment: n,
				Label:       fmt.Sprintf("%s (%d/%d)", p.Label, n, p.Installments),
				DueDate:     due,
				Amount:      p.installmentAmount(),
				CategoryID:  p.CategoryID,
				AccountID:   p.AccountID,
			}
			if when, paid := p.Paid[n]; paid {
				entry.Paid = true
				entry.PaidOn = when
				entry.PaidAmount = p.installmentAmount()
				if tx, ok := l.policyPaymentFor(p.ID, n); ok {
					entry.TransactionID = tx.ID
				}
			}
			add(entry)
		}
	}

	for _, b := range l.bills {
		if b.Source != BillAdHoc || b.Excluded {
			continue
		}
		// An unpaid bill from an earlier month stays on the worksheet
		// until it is paid or excluded.
		if month.Contains(b.DueDate) || (!b.Paid && b.DueDate.Before(month.From)) {
			add(b)
		}
	}

	// Expenses recorded directly in the ledger (card purchases,
	// one-off spending) show up read-only so the worksheet covers the
	// whole month, without becoming a second way to edit them.
	used := make(map[string]bool)
	for _, e := range entries {
		if e.TransactionID != "" {
			used[e.TransactionID] = true
		}
	}
	for _, tx := range l.Transactions(ByRange(month)) {
		if tx.Operation != OpExpense || tx.Flow != FlowOut {
			continue
		}
		if tx.Links.LoanID != "" || tx.Links.PolicyID != "" || used[tx.ID] {
			continue
		}
		add(BillEntry{
			ID:            "recorded:" + tx.ID,
			Source:        BillPurchase,
			SourceRef:     tx.CategoryID,
			Label:         tx.Description,
			DueDate:       tx.Date,
			Amount:        tx.Amount,
			CategoryID:    tx.CategoryID,
			AccountID:     tx.AccountID,
			Paid:          true,
			PaidOn:        tx.Date,
			PaidAmount:    tx.Amount,
			TransactionID: tx.ID,
			ReadOnly:      true,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].DueDate.Before(entries[j].DueDate)
	})
	return entries
}

// monthExpenseFor finds the first expense transaction of a category
// inside the month, the signal that a recurring template was paid.
func (l *Ledger) monthExpenseFor(categoryID string, month Range) (Transaction, bool) {
	for _, tx := range l.Transactions(ByRange(month)) {
		if tx.Operation == OpExpense && tx.CategoryID == categoryID {
			return tx, true
		}
	}
	return Transaction{}, false
}

// loanPaymentFor finds the linked payment of one installment.
func (l *Ledger) loanPaymentFor(loanID string, n int) (Transaction, bool) {
	for _, tx := range l.loanPayments(loanID, l.horizon()) {
		if tx.Links.Installment == n {
			return tx, true
		}
	}
	return Transaction{}, false
}

// policyPaymentFor finds the transaction that paid one policy installment.
func (l *Ledger) policyPaymentFor(policyID string, n int) (Transaction, bool) {
	for _, tx := range l.transactions {
		if tx.Links.PolicyID == policyID && tx.Links.Installment == n {
			return tx, true
		}
	}
	return Transaction{}, false
}

// CommitMonth applies the paid/unpaid/excluded toggles of an edited
// worksheet back to the ledger. An entry toggled to paid without a
// transaction gets one recorded (a loan payment, an insurance premium
// expense, a category expense); an entry toggled to unpaid that still
// points at a transaction gets that transaction deleted with full
// cascade; an entry toggled to excluded is remembered so later
// regenerations leave it out. Read-only entries and untouched entries
// are no-ops, so committing twice is harmless.
func (l *Ledger) CommitMonth(entries []BillEntry) error {
	for _, e := range entries {
		if e.ReadOnly {
			continue
		}
		switch {
		case e.Excluded:
			if err := l.excludeBill(e); err != nil {
				return err
			}
		case e.Paid && e.TransactionID == "":
			if err := l.commitPaid(e); err != nil {
				return err
			}
		case !e.Paid && e.TransactionID != "":
			if err := l.DeleteTransaction(e.TransactionID); err != nil {
				return err
			}
		}
	}
	return nil
}

// excludeBill takes an entry out of the worksheet for good. Ad-hoc
// entries keep their stored record with the mark set; generated
// entries get a persisted mark under their deterministic id, which is
// what lets the next regeneration skip them. Exclusion is terminal, so
// a paid entry must be un-paid first.
func (l *Ledger) excludeBill(e BillEntry) error {
	if e.Paid || e.TransactionID != "" {
		return integrityf("bill entry %q is paid; un-pay it before excluding", e.ID)
	}
	for i := range l.bills {
		if l.bills[i].ID != e.ID {
			continue
		}
		if !l.bills[i].Excluded {
			l.bills[i].Excluded = true
			l.bump()
		}
		return nil
	}
	mark := e
	mark.Excluded = true
	mark.ReadOnly = false
	l.bills = append(l.bills, mark)
	l.bump()
	return nil
}

func (l *Ledger) commitPaid(e BillEntry) error {
	on := e.PaidOn
	if on.IsZero() {
		on = e.DueDate
	}
	amount := e.PaidAmount
	if amount.IsZero() {
		amount = e.Amount
	}
	switch e.Source {
	case BillLoan:
		if amount.IsZero() {
			n := e.Installment
			if n == 0 {
				n = l.NextUnpaidInstallment(e.SourceRef)
			}
			if rows := l.Schedule(e.SourceRef); n >= 1 && n <= len(rows) {
				amount = rows[n-1].Interest.Add(rows[n-1].Amortization)
			}
		}
		_, err := l.MarkInstallmentPaid(e.SourceRef, amount, on, e.Installment)
		return err
	case BillInsurance:
		p, ok := l.policies[e.SourceRef]
		if !ok {
			return notFoundf("insurance policy %q", e.SourceRef)
		}
		if amount.IsZero() {
			amount = p.installmentAmount()
		}
		accountID := e.AccountID
		if accountID == "" {
			accountID = p.AccountID
		}
		tx := NewTransaction(on, accountID, FlowOut, OpExpense, amount, p.CategoryID, fmt.Sprintf("%s - installment %d/%d", p.Label, e.Installment, p.Installments))
		tx.Links.PolicyID = p.ID
		tx.Links.Installment = e.Installment
		if err := l.AddTransaction(tx); err != nil {
			return err
		}
		return l.MarkPolicyInstallmentPaid(p.ID, e.Installment, on)
	case BillTemplate, BillAdHoc:
		tx := NewTransaction(on, e.AccountID, FlowOut, OpExpense, amount, e.CategoryID, e.Label)
		if err := l.AddTransaction(tx); err != nil {
			return err
		}
		if e.Source == BillAdHoc {
			for i := range l.bills {
				if l.bills[i].ID == e.ID {
					l.bills[i].Paid = true
					l.bills[i].PaidOn = on
					l.bills[i].PaidAmount = amount
					l.bills[i].TransactionID = tx.ID
					l.bump()
				}
			}
		}
		return nil
	default:
		return validationf("bill entry %s source %s cannot be paid from the worksheet", e.ID, e.Source)
	}
}
