package homefin

// signedAmount converts a transaction's magnitude into the value it
// contributes to its account's balance.
//
// For regular accounts this is just amount times the flow sign. A
// credit-card account holds a PAYABLE, so the sign of purchase-like
// operations is inverted: an expense grows the payable (positive), and
// the monthly statement payment, which arrives as an inbound transfer
// leg, shrinks it.
func signedAmount(tx Transaction, kind AccountType) Money {
	v := tx.Amount
	if tx.Flow.Sign() < 0 {
		v = v.Neg()
	}
	if kind != CreditCard {
		return v
	}
	switch tx.Operation {
	case OpExpense, OpTransfer:
		return v.Neg()
	case OpRevenue, OpInvestContribution, OpInvestWithdrawal, OpLoanDisbursement,
		OpLoanPayment, OpVehicle, OpYield, OpInitialBalance:
		return v
	default:
		return v
	}
}

// BalanceOn returns the balance of one account considering every
// transaction dated on or before the given date. Unknown accounts and
// accounts with no history yield zero; balance is a query and queries
// do not fail.
func (l *Ledger) BalanceOn(accountID string, on Date) Money {
	acct, ok := l.accounts[accountID]
	if !ok {
		return M(0)
	}
	total := M(0)
	for _, tx := range l.transactions {
		if tx.Date.After(on) {
			break // the ledger is sorted by date
		}
		if tx.AccountID != accountID {
			continue
		}
		total = total.Add(signedAmount(tx, acct.Type))
	}
	return total
}

// AccountBalance is one row of a balance listing.
type AccountBalance struct {
	Account Account
	Balance Money
}

// BalancesOn returns per-account balances at a date, in stable account
// id order, hidden accounts included (the renderer decides what to
// show).
func (l *Ledger) BalancesOn(on Date) []AccountBalance {
	rows := make([]AccountBalance, 0, len(l.accounts))
	for a := range l.Accounts() {
		rows = append(rows, AccountBalance{Account: a, Balance: l.BalanceOn(a.ID, on)})
	}
	return rows
}

// LiquidBalanceOn sums the balances of liquid accounts (checking,
// savings, emergency reserve) at a date.
func (l *Ledger) LiquidBalanceOn(on Date) Money {
	total := M(0)
	for a := range l.Accounts() {
		if a.Type.IsLiquid() {
			total = total.Add(l.BalanceOn(a.ID, on))
		}
	}
	return total
}

// InvestedBalanceOn sums the balances of investment accounts (fixed
// income, crypto, goals) at a date.
func (l *Ledger) InvestedBalanceOn(on Date) Money {
	total := M(0)
	for a := range l.Accounts() {
		switch a.Type {
		case FixedIncome, Crypto, Goal:
			total = total.Add(l.BalanceOn(a.ID, on))
		}
	}
	return total
}

// CardPayablesOn sums the positive payables of credit-card accounts at
// a date. A negative card balance (overpayment) reduces the total.
func (l *Ledger) CardPayablesOn(on Date) Money {
	total := M(0)
	for a := range l.Accounts() {
		if a.Type == CreditCard {
			total = total.Add(l.BalanceOn(a.ID, on))
		}
	}
	return total
}
