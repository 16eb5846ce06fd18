package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/homefin/homefin"
)

// Accounts renders the account registry, hidden accounts included.
func Accounts(l *homefin.Ledger) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Accounts\n\n")
	fmt.Fprintf(&b, "| ID | Name | Type | Institution | Opened | Hidden |\n")
	fmt.Fprintf(&b, "|:---|:---|:---|:---|:---|:---:|\n")
	for a := range l.Accounts() {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			a.ID, a.Name, a.Type, a.Institution, a.OpenedOn, check(a.Hidden))
	}
	return b.String()
}

// Balances renders per-account balances at a date with liquid, invested
// and card totals. Hidden accounts are skipped.
func Balances(l *homefin.Ledger, on homefin.Date) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Balances on %s\n\n", on)
	fmt.Fprintf(&b, "| Account | Type | Balance |\n")
	fmt.Fprintf(&b, "|:---|:---|---:|\n")
	for _, row := range l.BalancesOn(on) {
		if row.Account.Hidden {
			continue
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", row.Account.Name, row.Account.Type, row.Balance)
	}
	fmt.Fprintf(&b, "\n")
	fmt.Fprintf(&b, "- Liquid: %s\n", l.LiquidBalanceOn(on))
	fmt.Fprintf(&b, "- Invested: %s\n", l.InvestedBalanceOn(on))
	fmt.Fprintf(&b, "- Card payables: %s\n", l.CardPayablesOn(on))
	return b.String()
}

// Categories renders the category registry with the bill-template and
// insurance markers.
func Categories(l *homefin.Ledger) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Categories\n\n")
	fmt.Fprintf(&b, "| ID | Label | Nature | Recurring | Insurance |\n")
	fmt.Fprintf(&b, "|:---|:---|:---|:---|:---:|\n")
	for c := range l.Categories() {
		recurring := ""
		if c.Recurring {
			recurring = fmt.Sprintf("%s on day %d", c.ExpectedAmount, c.DueDay)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			c.ID, c.Label, c.Nature, recurring, check(c.Insurance))
	}
	return b.String()
}

// Vehicles renders the fleet with reference values and ownership dates.
func Vehicles(l *homefin.Ledger) string {
	var b strings.Builder
	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprintf(w, "## Vehicles\n\n")
		fmt.Fprintf(w, "| ID | Label | Reference value | Purchased | Sold |\n")
		fmt.Fprintf(w, "|:---|:---|---:|:---|:---|\n")
		any := false
		for v := range l.Vehicles() {
			sold := ""
			if !v.SoldOn.IsZero() {
				sold = v.SoldOn.String()
			}
			fmt.Fprintf(w, "| %s | %s | %s | %s | %s |\n",
				v.ID, v.Label, v.ReferenceValue, v.PurchasedOn, sold)
			any = true
		}
		return any
	})
	if b.Len() == 0 {
		return "No vehicles.\n"
	}
	return b.String()
}

// Rules renders the standardization rules in application order.
func Rules(l *homefin.Ledger) string {
	rules := l.Rules()
	if len(rules) == 0 {
		return "No rules.\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## Rules\n\n")
	fmt.Fprintf(&b, "| ID | Match | Description | Category | Operation |\n")
	fmt.Fprintf(&b, "|:---|:---|:---|:---|:---|\n")
	for _, r := range rules {
		op := ""
		if r.Classify {
			op = r.Operation.String()
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			r.ID, r.Match, r.Description, r.CategoryID, op)
	}
	return b.String()
}
