package renderer

import (
	"fmt"
	"strings"

	"github.com/homefin/homefin"
)

// Bills renders the bills-of-the-month worksheet with a running total
// of what is paid and what is still open.
func Bills(entries []homefin.BillEntry, day homefin.Date) string {
	if len(entries) == 0 {
		return fmt.Sprintf("No bills in %s %d.\n", day.Month(), day.Year())
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## Bills of %s %d\n\n", day.Month(), day.Year())
	fmt.Fprintf(&b, "| Entry | Source | Label | Due | Amount | Paid | Paid on | Paid amount |\n")
	fmt.Fprintf(&b, "|:---|:---|:---|:---|---:|:---:|:---|---:|\n")
	var open, settled homefin.Money
	for _, e := range entries {
		paidOn, paidAmount := "", ""
		if e.Paid {
			paidOn = e.PaidOn.String()
			paidAmount = e.PaidAmount.String()
			settled = settled.Add(e.PaidAmount)
		} else {
			open = open.Add(e.Amount)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			e.ID, e.Source, e.Label, e.DueDate, e.Amount, check(e.Paid), paidOn, paidAmount)
	}
	fmt.Fprintf(&b, "\nPaid %s, still open %s.\n", settled, open)
	return b.String()
}
