package renderer

import (
	"fmt"
	"strings"

	"github.com/homefin/homefin"
)

// Statements renders the imported statement inventory with review
// progress.
func Statements(l *homefin.Ledger) string {
	statements := l.Statements()
	if len(statements) == 0 {
		return "No imported statements.\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## Statements\n\n")
	fmt.Fprintf(&b, "| ID | Account | File | Imported | Progress |\n")
	fmt.Fprintf(&b, "|:---|:---|:---|:---|:---|\n")
	for _, st := range statements {
		settled, total := st.Progress()
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %d/%d |\n",
			st.ID, st.AccountID, st.FileName, st.ImportedOn, settled, total)
	}
	return b.String()
}

// Review renders one statement's lines with their review state. Line
// numbers are 1-based and accepted back as line selectors.
func Review(st *homefin.ImportedStatement) string {
	var b strings.Builder
	settled, total := st.Progress()
	fmt.Fprintf(&b, "## Statement %s (%s)\n\n", st.ID, st.AccountID)
	fmt.Fprintf(&b, "%d of %d lines settled.\n\n", settled, total)
	fmt.Fprintf(&b, "| # | Date | Amount | Description | Operation | Category | Link | State |\n")
	fmt.Fprintf(&b, "|---:|:---|---:|:---|:---|:---|:---|:---|\n")
	for i, ln := range st.Lines {
		amount := ln.Amount
		if ln.Flow.Sign() < 0 {
			amount = amount.Neg()
		}
		desc := ln.Description
		if desc == "" {
			desc = ln.RawDescription
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | %s | %s |\n",
			i+1, ln.Date, amount, desc, ln.Operation, ln.CategoryID,
			lineLink(ln), lineState(ln))
	}
	return b.String()
}

// lineLink shows the entity a decided line points at.
func lineLink(ln homefin.ImportedLine) string {
	switch {
	case ln.CounterAccountID != "":
		return "-> " + ln.CounterAccountID
	case ln.LoanID != "" && ln.Installment > 0:
		return fmt.Sprintf("%s #%d", ln.LoanID, ln.Installment)
	case ln.LoanID != "":
		return ln.LoanID
	case ln.VehicleID != "":
		return ln.VehicleID
	default:
		return ""
	}
}

func lineState(ln homefin.ImportedLine) string {
	switch {
	case ln.Contabilized:
		return "contabilized"
	case ln.Ignore:
		return "ignored"
	case ln.Duplicate:
		return "duplicate?"
	default:
		return "pending"
	}
}
