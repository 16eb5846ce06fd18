package renderer

import (
	"fmt"
	"strings"

	"github.com/homefin/homefin"
)

// Policies renders the insurance book with payment progress and the
// accrual prorations at today's date.
func Policies(l *homefin.Ledger) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Insurance Policies\n\n")
	fmt.Fprintf(&b, "| ID | Label | Premium | Coverage | Paid | Unexpired | Unpaid |\n")
	fmt.Fprintf(&b, "|:---|:---|---:|:---|---:|---:|---:|\n")
	today := homefin.Today()
	any := false
	for p := range l.Policies() {
		any = true
		fmt.Fprintf(&b, "| %s | %s | %s | %s +%dm | %d/%d | %s | %s |\n",
			p.ID, p.Label, p.Premium, p.CoverageStart, p.CoverageMonths,
			len(p.Paid), p.Installments,
			p.UnexpiredPremium(today), p.UnpaidPremium(today))
	}
	if !any {
		return "No insurance policies.\n"
	}
	return b.String()
}
