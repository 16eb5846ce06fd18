package homefin

// BalanceSheet is the stock view at a single date: everything owned
// against everything owed, with net worth as the difference. Vehicles
// enter at their market reference value and loans at the scheduled
// principal remaining, never at cash cost.
type BalanceSheet struct {
	On Date

	Liquid           []ReportLine // cash-like accounts
	Invested         []ReportLine // investment buckets
	Fleet            []ReportLine // vehicles at reference value
	PrepaidInsurance []ReportLine // unexpired premium per policy
	TotalAssets      Money

	LoanDebt          []ReportLine // principal remaining per loan
	CardPayables      []ReportLine // positive card balances
	InsurancePayables []ReportLine // unpaid installments per policy
	TotalLiabilities  Money

	NetWorth Money
}

// BalanceSheetOn builds the balance sheet at a date. Balances come
// through the snapshot so repeated lookups reuse the memoized sums.
func (l *Ledger) BalanceSheetOn(on Date) BalanceSheet {
	snap := l.Snapshot()
	out := BalanceSheet{On: on}

	for a := range l.Accounts() {
		balance := snap.BalanceOn(a.ID, on)
		line := ReportLine{Label: a.Name, Ref: a.ID, Amount: balance}
		switch {
		case a.Type == CreditCard:
			// A positive card balance is owed money; a negative one is
			// an overpayment sitting as a (small) asset.
			if balance.IsPositive() {
				out.CardPayables = append(out.CardPayables, line)
			} else if balance.IsNegative() {
				line.Amount = balance.Neg()
				out.Liquid = append(out.Liquid, line)
			}
		case a.Type.IsLiquid():
			out.Liquid = append(out.Liquid, line)
		default:
			out.Invested = append(out.Invested, line)
		}
	}

	for v := range l.Vehicles() {
		if v.Owned(on) && !v.ReferenceValue.IsZero() {
			out.Fleet = append(out.Fleet, ReportLine{Label: v.Label, Ref: v.ID, Amount: v.ReferenceValue})
		}
	}

	for p := range l.Policies() {
		if unexpired := p.UnexpiredPremium(on); unexpired.IsPositive() {
			out.PrepaidInsurance = append(out.PrepaidInsurance, ReportLine{Label: p.Label, Ref: p.ID, Amount: unexpired})
		}
		if unpaid := p.UnpaidPremium(on); unpaid.IsPositive() {
			out.InsurancePayables = append(out.InsurancePayables, ReportLine{Label: p.Label, Ref: p.ID, Amount: unpaid})
		}
	}

	for loan := range l.Loans() {
		if remaining := l.PrincipalRemainingOn(loan.ID, on); remaining.IsPositive() {
			out.LoanDebt = append(out.LoanDebt, ReportLine{Label: loan.Label, Ref: loan.ID, Amount: remaining})
		}
	}

	for _, block := range [][]ReportLine{out.Liquid, out.Invested, out.Fleet, out.PrepaidInsurance} {
		for _, line := range block {
			out.TotalAssets = out.TotalAssets.Add(line.Amount)
		}
	}
	for _, block := range [][]ReportLine{out.LoanDebt, out.CardPayables, out.InsurancePayables} {
		for _, line := range block {
			out.TotalLiabilities = out.TotalLiabilities.Add(line.Amount)
		}
	}
	out.NetWorth = out.TotalAssets.Sub(out.TotalLiabilities)
	return out
}
