package homefin

// Snapshot memoizes derived values over one immutable version of the
// ledger. Reports ask for the same balances and schedules many times
// (per account, per period edge); the snapshot computes each once and
// is thrown away wholesale on the next mutation — there is no partial
// invalidation to get wrong.
type Snapshot struct {
	version   uint64
	ledger    *Ledger
	balances  map[balanceKey]Money
	schedules map[string][]LoanInstallment
}

type balanceKey struct {
	accountID string
	on        Date
}

// Snapshot returns the memoizing view of the current version, reusing
// the previous one while no mutation happened.
func (l *Ledger) Snapshot() *Snapshot {
	if l.snapshot != nil && l.snapshot.version == l.version {
		return l.snapshot
	}
	l.snapshot = &Snapshot{
		version:   l.version,
		ledger:    l,
		balances:  make(map[balanceKey]Money),
		schedules: make(map[string][]LoanInstallment),
	}
	return l.snapshot
}

// Version returns the ledger version this snapshot was taken at.
func (s *Snapshot) Version() uint64 { return s.version }

// BalanceOn is Ledger.BalanceOn memoized per (account, date).
func (s *Snapshot) BalanceOn(accountID string, on Date) Money {
	key := balanceKey{accountID, on}
	if v, ok := s.balances[key]; ok {
		return v
	}
	v := s.ledger.BalanceOn(accountID, on)
	s.balances[key] = v
	return v
}

// Schedule is Ledger.Schedule memoized per loan.
func (s *Snapshot) Schedule(loanID string) []LoanInstallment {
	if rows, ok := s.schedules[loanID]; ok {
		return rows
	}
	rows := s.ledger.Schedule(loanID)
	s.schedules[loanID] = rows
	return rows
}

// LiquidBalanceOn sums memoized balances of liquid accounts.
func (s *Snapshot) LiquidBalanceOn(on Date) Money {
	total := M(0)
	for a := range s.ledger.Accounts() {
		if a.Type.IsLiquid() {
			total = total.Add(s.BalanceOn(a.ID, on))
		}
	}
	return total
}

// InvestedBalanceOn sums memoized balances of investment accounts.
func (s *Snapshot) InvestedBalanceOn(on Date) Money {
	total := M(0)
	for a := range s.ledger.Accounts() {
		switch a.Type {
		case FixedIncome, Crypto, Goal:
			total = total.Add(s.BalanceOn(a.ID, on))
		}
	}
	return total
}

// CardPayablesOn sums memoized balances of credit-card accounts.
func (s *Snapshot) CardPayablesOn(on Date) Money {
	total := M(0)
	for a := range s.ledger.Accounts() {
		if a.Type == CreditCard {
			total = total.Add(s.BalanceOn(a.ID, on))
		}
	}
	return total
}
