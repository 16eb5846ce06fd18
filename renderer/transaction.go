package renderer

import (
	"fmt"
	"strings"

	"github.com/homefin/homefin"
)

// Transactions renders a chronological transaction listing. Amounts are
// shown signed by flow; the account's own polarity (credit-card
// payables) is a balance concern, not a listing concern.
func Transactions(txs []homefin.Transaction) string {
	if len(txs) == 0 {
		return "No transactions.\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## Transactions\n\n")
	fmt.Fprintf(&b, "| Date | Account | Operation | Amount | Category | Description | C |\n")
	fmt.Fprintf(&b, "|:---|:---|:---|---:|:---|:---|:---:|\n")
	for _, tx := range txs {
		amount := tx.Amount
		if tx.Flow.Sign() < 0 {
			amount = amount.Neg()
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			tx.Date, tx.AccountID, tx.Operation, amount, tx.CategoryID,
			describe(tx), check(tx.Conciliated))
	}
	return b.String()
}

// describe joins the description with the entity links worth showing.
func describe(tx homefin.Transaction) string {
	parts := []string{}
	if tx.Description != "" {
		parts = append(parts, tx.Description)
	}
	if tx.Links.LoanID != "" && tx.Links.Installment > 0 {
		parts = append(parts, fmt.Sprintf("[%s #%d]", tx.Links.LoanID, tx.Links.Installment))
	} else if tx.Links.LoanID != "" {
		parts = append(parts, fmt.Sprintf("[%s]", tx.Links.LoanID))
	}
	if tx.Links.PolicyID != "" {
		parts = append(parts, fmt.Sprintf("[%s]", tx.Links.PolicyID))
	}
	if tx.Links.VehicleID != "" {
		parts = append(parts, fmt.Sprintf("[%s]", tx.Links.VehicleID))
	}
	return strings.Join(parts, " ")
}
