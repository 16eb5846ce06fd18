package homefin

import (
	"sort"
)

// ReportLine is one labeled amount of a report block.
type ReportLine struct {
	Label  string
	Ref    string // category, loan or policy id behind the line
	Amount Money
}

// IncomeStatement is the accrual view of a period: what was earned and
// what was consumed, regardless of cash timing. Loan payments appear
// only through their scheduled interest share; insurance premiums
// appear prorated over coverage instead of at payment time.
//
// Results subtract in succession: gross = revenue − fixed, operating =
// gross − variable, net (Result) = operating − loan interest.
type IncomeStatement struct {
	Range Range

	Revenues     []ReportLine
	TotalRevenue Money

	FixedExpenses []ReportLine // includes the accrued insurance premium
	TotalFixed    Money

	VariableExpenses []ReportLine
	TotalVariable    Money

	LoanInterest      []ReportLine // scheduled interest of installments paid in range
	TotalLoanInterest Money

	GrossResult     Money
	OperatingResult Money

	TotalExpense Money
	Result       Money // net result
}

// IncomeStatementFor builds the accrual income statement for a range.
func (l *Ledger) IncomeStatementFor(r Range) IncomeStatement {
	out := IncomeStatement{Range: r}

	revenue := make(map[string]Money)
	fixed := make(map[string]Money)
	variable := make(map[string]Money)

	for _, tx := range l.Transactions(ByRange(r)) {
		switch tx.Operation {
		case OpRevenue, OpYield:
			v := tx.Amount
			if tx.Flow.Sign() < 0 { // a negative yield is a loss
				v = v.Neg()
			}
			revenue[tx.CategoryID] = revenue[tx.CategoryID].Add(v)
		case OpExpense, OpVehicle:
			cat, ok := l.categories[tx.CategoryID]
			if ok && cat.Insurance {
				// Premium payments are cash events; the accrual view
				// books the prorated coverage instead, below.
				continue
			}
			v := tx.Amount
			if tx.Flow.Sign() > 0 { // an inbound expense is a refund
				v = v.Neg()
			}
			if ok && cat.Nature == FixedExpense {
				fixed[tx.CategoryID] = fixed[tx.CategoryID].Add(v)
			} else {
				variable[tx.CategoryID] = variable[tx.CategoryID].Add(v)
			}
		case OpTransfer, OpInvestContribution, OpInvestWithdrawal,
			OpLoanDisbursement, OpLoanPayment, OpInitialBalance:
			// Principal moves: no accrual effect.
		}
	}

	out.Revenues = l.categoryLines(revenue)
	for _, line := range out.Revenues {
		out.TotalRevenue = out.TotalRevenue.Add(line.Amount)
	}

	out.FixedExpenses = l.categoryLines(fixed)
	for p := range l.Policies() {
		if accrued := p.AccruedPremium(r); !accrued.IsZero() {
			out.FixedExpenses = append(out.FixedExpenses, ReportLine{
				Label: p.Label, Ref: p.ID, Amount: accrued,
			})
		}
	}
	for _, line := range out.FixedExpenses {
		out.TotalFixed = out.TotalFixed.Add(line.Amount)
	}

	out.VariableExpenses = l.categoryLines(variable)
	for _, line := range out.VariableExpenses {
		out.TotalVariable = out.TotalVariable.Add(line.Amount)
	}

	for loan := range l.Loans() {
		if interest := l.LoanInterestPaid(loan.ID, r); !interest.IsZero() {
			out.LoanInterest = append(out.LoanInterest, ReportLine{
				Label: loan.Label, Ref: loan.ID, Amount: interest,
			})
			out.TotalLoanInterest = out.TotalLoanInterest.Add(interest)
		}
	}

	out.GrossResult = out.TotalRevenue.Sub(out.TotalFixed)
	out.OperatingResult = out.GrossResult.Sub(out.TotalVariable)
	out.TotalExpense = out.TotalFixed.Add(out.TotalVariable).Add(out.TotalLoanInterest)
	out.Result = out.OperatingResult.Sub(out.TotalLoanInterest)
	return out
}

// categoryLines turns a per-category accumulator into labeled lines
// sorted by descending amount. The empty category id becomes an
// explicit "uncategorized" line rather than disappearing.
func (l *Ledger) categoryLines(totals map[string]Money) []ReportLine {
	lines := make([]ReportLine, 0, len(totals))
	for id, amount := range totals {
		label := "uncategorized"
		if cat, ok := l.categories[id]; ok {
			label = cat.Label
		}
		lines = append(lines, ReportLine{Label: label, Ref: id, Amount: amount})
	}
	sort.SliceStable(lines, func(i, j int) bool {
		if !lines[i].Amount.Equal(lines[j].Amount) {
			return lines[j].Amount.LessThan(lines[i].Amount)
		}
		return lines[i].Label < lines[j].Label
	})
	return lines
}
