package homefin

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// LoanStatus tracks a loan contract's lifecycle. A loan created from an
// imported disbursement starts pending-configuration: term, rate and
// installment are zero and the amortization engine returns empty
// results for it until the contract details are filled in.
type LoanStatus int

const (
	LoanPending LoanStatus = iota
	LoanActive
	LoanSettled
)

func (s LoanStatus) String() string {
	switch s {
	case LoanPending:
		return "pending-configuration"
	case LoanActive:
		return "active"
	case LoanSettled:
		return "settled"
	default:
		return "unknown"
	}
}

func ParseLoanStatus(str string) (LoanStatus, error) {
	switch str {
	case "pending-configuration":
		return LoanPending, nil
	case "active":
		return LoanActive, nil
	case "settled":
		return LoanSettled, nil
	default:
		return 0, fmt.Errorf("unknown loan status: %q", str)
	}
}

func (s LoanStatus) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", s.String())), nil
}

func (s *LoanStatus) UnmarshalJSON(data []byte) error {
	str, err := unquote(data)
	if err != nil {
		return err
	}
	v, err := ParseLoanStatus(str)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Loan is a fixed-rate contract amortized with the Price (French)
// method: constant installment, shifting interest/principal split.
type Loan struct {
	ID               string          `json:"id"`
	Label            string          `json:"label"`
	Principal        Money           `json:"principal,omitzero"`
	Installment      Money           `json:"installment,omitzero"`
	MonthlyRate      decimal.Decimal `json:"monthlyRate"`
	Months           int             `json:"months,omitempty"`
	StartsOn         Date            `json:"startsOn,omitzero"`
	Status           LoanStatus      `json:"status"`
	AccountID        string          `json:"accountId,omitempty"`
	DisbursementTxID string          `json:"disbursementTxId,omitempty"`
	// LegacyPaidCount is a one-time migration aid: a manually recorded
	// number of paid installments from before payments were linked in
	// the ledger. It is consulted only while ZERO linked loan-payment
	// transactions exist; the first linked payment supersedes it.
	LegacyPaidCount int `json:"legacyPaidCount,omitempty"`
}

// Configured reports whether the contract carries enough data for the
// amortization engine to produce a schedule.
func (l Loan) Configured() bool {
	return l.Status != LoanPending && l.Months > 0 && !l.StartsOn.IsZero() && l.Principal.IsPositive()
}

// Validate checks the loan's own fields.
func (l Loan) Validate() error {
	if l.ID == "" {
		return validationf("loan id is missing")
	}
	if l.Label == "" {
		return validationf("loan %s label is missing", l.ID)
	}
	if l.Status == LoanPending {
		return nil // the contract is allowed to be empty until configured
	}
	if l.Months <= 0 {
		return validationf("loan %s term must be positive, got %d", l.ID, l.Months)
	}
	if !l.Principal.IsPositive() {
		return validationf("loan %s principal must be positive, got %s", l.ID, l.Principal)
	}
	if l.MonthlyRate.IsNegative() {
		return validationf("loan %s monthly rate must be non-negative, got %s", l.ID, l.MonthlyRate)
	}
	if l.StartsOn.IsZero() {
		return validationf("loan %s start date is missing", l.ID)
	}
	return nil
}

// LoanInstallment is one row of the derived amortization schedule. It
// is never persisted; the schedule is recomputed from the contract.
type LoanInstallment struct {
	Number           int   // 1..Months
	DueDate          Date  // StartsOn + (Number-1) months
	Interest         Money // scheduled interest component
	Amortization     Money // scheduled principal component
	RemainingBalance Money // balance after this installment
	Paid             bool
	PaidOn           Date
	PaidAmount       Money
}

// PriceInstallment computes the fixed Price-method installment for a
// principal, a monthly rate and a term, rounded to cents:
//
//	installment = P * r * (1+r)^n / ((1+r)^n - 1)
//
// A zero rate degenerates to straight division.
func PriceInstallment(principal Money, rate decimal.Decimal, months int) Money {
	if months <= 0 {
		return M(0)
	}
	if rate.IsZero() {
		return principal.DivInt(months).Round()
	}
	one := decimal.NewFromInt(1)
	compound := one.Add(rate).Pow(decimal.NewFromInt(int64(months)))
	factor := rate.Mul(compound).Div(compound.Sub(one))
	return principal.MulDec(factor).Round()
}

// schedule generates the full amortization table for a configured loan.
//
// Rounding policy: interest rounds half away from zero to cents each
// period and amortization is the installment minus that interest; the
// LAST installment's amortization absorbs the accumulated residual, so
// the amortizations sum exactly to the principal. The last installment
// total may therefore differ from the fixed installment by a few cents.
func (l Loan) schedule() []LoanInstallment {
	if !l.Configured() {
		return nil
	}
	installment := l.Installment
	if installment.IsZero() {
		installment = PriceInstallment(l.Principal, l.MonthlyRate, l.Months)
	}
	rows := make([]LoanInstallment, 0, l.Months)
	balance := l.Principal
	for n := 1; n <= l.Months; n++ {
		interest := balance.MulDec(l.MonthlyRate).Round()
		amortization := installment.Sub(interest)
		if n == l.Months {
			amortization = balance // absorb the rounding residual
		}
		balance = balance.Sub(amortization)
		rows = append(rows, LoanInstallment{
			Number:           n,
			DueDate:          l.StartsOn.AddMonth(n - 1),
			Interest:         interest,
			Amortization:     amortization,
			RemainingBalance: balance,
		})
	}
	return rows
}

// --- ledger-level loan queries ---

// loanPayments yields the linked loan-payment transactions for a loan,
// dated on or before max, in chronological order.
func (l *Ledger) loanPayments(loanID string, max Date) []Transaction {
	var payments []Transaction
	for _, tx := range l.transactions {
		if tx.Date.After(max) {
			break // the ledger is sorted by date
		}
		if tx.Operation == OpLoanPayment && tx.Links.LoanID == loanID {
			payments = append(payments, tx)
		}
	}
	return payments
}

// Schedule returns the amortization schedule for a loan with paid marks
// inferred from the ledger. Pending-configuration or unknown loans
// yield an empty schedule, never an error: dashboards query loans
// before configuration completes.
func (l *Ledger) Schedule(loanID string) []LoanInstallment {
	loan, ok := l.loans[loanID]
	if !ok {
		return nil
	}
	rows := loan.schedule()
	if len(rows) == 0 {
		return nil
	}
	payments := l.loanPayments(loanID, l.horizon())
	if len(payments) == 0 {
		// Legacy fallback: a manually recorded paid count marks the
		// first installments paid with no payment transaction behind.
		for i := 0; i < loan.LegacyPaidCount && i < len(rows); i++ {
			rows[i].Paid = true
			rows[i].PaidOn = rows[i].DueDate
			rows[i].PaidAmount = rows[i].Interest.Add(rows[i].Amortization)
		}
		return rows
	}
	for _, p := range payments {
		n := p.Links.Installment
		if n < 1 || n > len(rows) {
			continue // out-of-range link, defensiveness handled at mutation time
		}
		rows[n-1].Paid = true
		rows[n-1].PaidOn = p.Date
		rows[n-1].PaidAmount = p.Amount
	}
	return rows
}

// PaidInstallmentsOn counts a loan's installments paid on or before the
// given date: the number of DISTINCT installments with a linked
// loan-payment transaction (a corrective second payment on the same
// installment does not advance the schedule), falling back to the
// legacy manual count only when no linked payment exists.
func (l *Ledger) PaidInstallmentsOn(loanID string, on Date) int {
	loan, ok := l.loans[loanID]
	if !ok || !loan.Configured() {
		return 0
	}
	all := l.loanPayments(loanID, l.horizon())
	if len(all) == 0 {
		return loan.LegacyPaidCount
	}
	paid := make(map[int]bool)
	for _, p := range all {
		if !p.Date.After(on) {
			paid[p.Links.Installment] = true
		}
	}
	return len(paid)
}

// PrincipalRemainingOn returns the scheduled remaining balance at the
// installment index implied by PaidInstallmentsOn.
func (l *Ledger) PrincipalRemainingOn(loanID string, on Date) Money {
	loan, ok := l.loans[loanID]
	if !ok || !loan.Configured() {
		return M(0)
	}
	rows := loan.schedule()
	paid := l.PaidInstallmentsOn(loanID, on)
	if paid <= 0 {
		return loan.Principal
	}
	if paid >= len(rows) {
		return M(0)
	}
	return rows[paid-1].RemainingBalance
}

// LoanInterestPaid sums the SCHEDULED interest component of every
// installment paid inside the range. The accrual income statement uses
// it to book only the interest share of a payment, never the principal.
func (l *Ledger) LoanInterestPaid(loanID string, r Range) Money {
	loan, ok := l.loans[loanID]
	if !ok || !loan.Configured() {
		return M(0)
	}
	rows := loan.schedule()
	total := M(0)
	for _, p := range l.loanPayments(loanID, r.To) {
		if p.Date.Before(r.From) {
			continue
		}
		n := p.Links.Installment
		if n >= 1 && n <= len(rows) {
			total = total.Add(rows[n-1].Interest)
		}
	}
	return total
}

// NextUnpaidInstallment returns the lowest schedule entry with no
// linked payment, or 0 when the loan is fully paid or unconfigured.
func (l *Ledger) NextUnpaidInstallment(loanID string) int {
	rows := l.Schedule(loanID)
	for _, row := range rows {
		if !row.Paid {
			return row.Number
		}
	}
	return 0
}

// MarkInstallmentPaid records a loan payment in the ledger, linked to
// the given installment number, or to the next unpaid one when n is 0.
// Paying the last installment settles the loan.
func (l *Ledger) MarkInstallmentPaid(loanID string, amount Money, on Date, n int) (Transaction, error) {
	loan, ok := l.loans[loanID]
	if !ok {
		return Transaction{}, notFoundf("loan %q", loanID)
	}
	if !loan.Configured() {
		return Transaction{}, validationf("loan %s is not configured yet", loanID)
	}
	if n == 0 {
		n = l.NextUnpaidInstallment(loanID)
		if n == 0 {
			return Transaction{}, validationf("loan %s has no unpaid installment", loanID)
		}
	}
	if n < 1 || n > loan.Months {
		return Transaction{}, validationf("loan %s installment %d out of range 1..%d", loanID, n, loan.Months)
	}
	tx := NewTransaction(on, loan.AccountID, FlowOut, OpLoanPayment, amount, "", fmt.Sprintf("%s - installment %d/%d", loan.Label, n, loan.Months))
	tx.Links.LoanID = loanID
	tx.Links.Installment = n
	if err := l.AddTransaction(tx); err != nil {
		return Transaction{}, err
	}
	l.settleIfComplete(loanID)
	return tx, nil
}

// UnmarkInstallmentPaid deletes the latest linked payment transaction
// and reverts settlement if the loan had been settled by it.
func (l *Ledger) UnmarkInstallmentPaid(loanID string) error {
	payments := l.loanPayments(loanID, l.horizon())
	if len(payments) == 0 {
		return notFoundf("loan %q has no linked payment", loanID)
	}
	last := payments[len(payments)-1]
	if err := l.DeleteTransaction(last.ID); err != nil {
		return err
	}
	if loan, ok := l.loans[loanID]; ok && loan.Status == LoanSettled {
		loan.Status = LoanActive
		l.loans[loanID] = loan
	}
	return nil
}

// settleIfComplete flips the loan to settled when every installment has
// a linked payment.
func (l *Ledger) settleIfComplete(loanID string) {
	loan, ok := l.loans[loanID]
	if !ok || !loan.Configured() {
		return
	}
	if l.NextUnpaidInstallment(loanID) == 0 && len(l.loanPayments(loanID, l.horizon())) >= loan.Months {
		loan.Status = LoanSettled
		l.loans[loanID] = loan
	}
}
