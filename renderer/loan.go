package renderer

import (
	"fmt"
	"strings"

	"github.com/homefin/homefin"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Loans renders the loan book with progress inferred from the ledger.
func Loans(l *homefin.Ledger) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Loans\n\n")
	fmt.Fprintf(&b, "| ID | Label | Status | Principal | Rate | Installment | Paid | Remaining |\n")
	fmt.Fprintf(&b, "|:---|:---|:---|---:|---:|---:|---:|---:|\n")
	any := false
	for loan := range l.Loans() {
		any = true
		if !loan.Configured() {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | | | | |\n",
				loan.ID, loan.Label, loan.Status, loan.Principal)
			continue
		}
		installment := loan.Installment
		if installment.IsZero() {
			installment = homefin.PriceInstallment(loan.Principal, loan.MonthlyRate, loan.Months)
		}
		paid := 0
		for _, row := range l.Schedule(loan.ID) {
			if row.Paid {
				paid++
			}
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s%% | %s | %d/%d | %s |\n",
			loan.ID, loan.Label, loan.Status, loan.Principal,
			loan.MonthlyRate.Mul(hundred), installment,
			paid, loan.Months, l.PrincipalRemainingOn(loan.ID, homefin.Today()))
	}
	if !any {
		return "No loans.\n"
	}
	return b.String()
}

// Schedule renders a loan's full amortization table with paid marks.
func Schedule(l *homefin.Ledger, loanID string) string {
	loan, ok := l.Loan(loanID)
	if !ok {
		return fmt.Sprintf("Unknown loan %q.\n", loanID)
	}
	rows := l.Schedule(loanID)
	if len(rows) == 0 {
		return fmt.Sprintf("Loan %s is %s and has no schedule yet.\n", loan.Label, loan.Status)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", loan.Label)
	fmt.Fprintf(&b, "%s over %d months at %s%% monthly.\n\n",
		loan.Principal, loan.Months, loan.MonthlyRate.Mul(hundred))
	fmt.Fprintf(&b, "| # | Due | Interest | Amortization | Balance | Paid | Paid on | Paid amount |\n")
	fmt.Fprintf(&b, "|---:|:---|---:|---:|---:|:---:|:---|---:|\n")
	for _, row := range rows {
		paidOn, paidAmount := "", ""
		if row.Paid {
			paidOn = row.PaidOn.String()
			paidAmount = row.PaidAmount.String()
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | %s | %s |\n",
			row.Number, row.DueDate, row.Interest, row.Amortization,
			row.RemainingBalance, check(row.Paid), paidOn, paidAmount)
	}
	return b.String()
}
