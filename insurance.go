package homefin

import "fmt"

// InsurancePolicy is a premium contract paid in installments but
// consumed evenly over its coverage months. Cash views follow the
// installments; accrual views follow the coverage proration.
type InsurancePolicy struct {
	ID                string       `json:"id"`
	Label             string       `json:"label"`
	Premium           Money        `json:"premium"`
	CoverageStart     Date         `json:"coverageStart"`
	CoverageMonths    int          `json:"coverageMonths"`
	Installments      int          `json:"installments"`
	InstallmentAmount Money        `json:"installmentAmount,omitzero"`
	CategoryID        string       `json:"categoryId,omitempty"`
	AccountID         string       `json:"accountId,omitempty"`
	Paid              map[int]Date `json:"paid,omitempty"` // installment number -> payment date
}

// Validate checks the policy's own fields.
func (p InsurancePolicy) Validate() error {
	if p.ID == "" {
		return validationf("insurance policy id is missing")
	}
	if p.Label == "" {
		return validationf("insurance policy %s label is missing", p.ID)
	}
	if !p.Premium.IsPositive() {
		return validationf("insurance policy %s premium must be positive, got %s", p.ID, p.Premium)
	}
	if p.CoverageMonths <= 0 {
		return validationf("insurance policy %s coverage months must be positive, got %d", p.ID, p.CoverageMonths)
	}
	if p.CoverageStart.IsZero() {
		return validationf("insurance policy %s coverage start is missing", p.ID)
	}
	if p.Installments <= 0 {
		return validationf("insurance policy %s installment count must be positive, got %d", p.ID, p.Installments)
	}
	return nil
}

// installmentAmount returns the contract's installment value, deriving
// an even split when the field was left empty.
func (p InsurancePolicy) installmentAmount() Money {
	if !p.InstallmentAmount.IsZero() {
		return p.InstallmentAmount
	}
	return p.Premium.DivInt(p.Installments).Round()
}

// InstallmentDue returns the due date of installment n (1-based),
// following the coverage start's day of month.
func (p InsurancePolicy) InstallmentDue(n int) Date {
	return p.CoverageStart.AddMonth(n - 1)
}

// coverage returns the inclusive range of coverage months.
func (p InsurancePolicy) coverage() Range {
	return Range{From: p.CoverageStart, To: p.CoverageStart.AddMonth(p.CoverageMonths).Add(-1)}
}

// monthlyPremium is the evenly prorated premium per coverage month.
func (p InsurancePolicy) monthlyPremium() Money {
	return p.Premium.DivInt(p.CoverageMonths)
}

// AccruedPremium recognizes the portion of the premium whose coverage
// month falls inside the range, independent of when installments are
// actually paid. A coverage month counts when its first day is inside
// the range.
func (p InsurancePolicy) AccruedPremium(r Range) Money {
	total := M(0)
	for n := 0; n < p.CoverageMonths; n++ {
		monthStart := p.CoverageStart.AddMonth(n)
		if r.Contains(monthStart) {
			total = total.Add(p.monthlyPremium())
		}
	}
	return total.Round()
}

// UnexpiredPremium is the asset-side proration: coverage months
// starting strictly after the given date are not yet consumed.
func (p InsurancePolicy) UnexpiredPremium(on Date) Money {
	total := M(0)
	for n := 0; n < p.CoverageMonths; n++ {
		if p.CoverageStart.AddMonth(n).After(on) {
			total = total.Add(p.monthlyPremium())
		}
	}
	return total.Round()
}

// UnpaidPremium is the liability-side proration: installments not yet
// marked paid as of the given date.
func (p InsurancePolicy) UnpaidPremium(on Date) Money {
	total := M(0)
	for n := 1; n <= p.Installments; n++ {
		if when, ok := p.Paid[n]; ok && !when.After(on) {
			continue
		}
		total = total.Add(p.installmentAmount())
	}
	return total.Round()
}

// NextUnpaidInstallment returns the lowest unpaid installment number,
// or 0 when the policy is fully paid.
func (p InsurancePolicy) NextUnpaidInstallment() int {
	for n := 1; n <= p.Installments; n++ {
		if _, ok := p.Paid[n]; !ok {
			return n
		}
	}
	return 0
}

// --- ledger-level policy mutations ---

// MarkPolicyInstallmentPaid marks installment n of a policy paid on the
// given date. The bills engine calls it when committing a paid premium.
func (l *Ledger) MarkPolicyInstallmentPaid(policyID string, n int, on Date) error {
	p, ok := l.policies[policyID]
	if !ok {
		return notFoundf("insurance policy %q", policyID)
	}
	if n < 1 || n > p.Installments {
		return validationf("insurance policy %s installment %d out of range 1..%d", policyID, n, p.Installments)
	}
	if p.Paid == nil {
		p.Paid = make(map[int]Date)
	}
	p.Paid[n] = on
	l.policies[policyID] = p
	l.bump()
	return nil
}

// UnmarkPolicyInstallmentPaid reverts a paid mark, e.g. when the paying
// transaction is deleted.
func (l *Ledger) UnmarkPolicyInstallmentPaid(policyID string, n int) error {
	p, ok := l.policies[policyID]
	if !ok {
		return notFoundf("insurance policy %q", policyID)
	}
	if _, paid := p.Paid[n]; !paid {
		return fmt.Errorf("insurance policy %s installment %d is not marked paid", policyID, n)
	}
	delete(p.Paid, n)
	l.policies[policyID] = p
	l.bump()
	return nil
}
