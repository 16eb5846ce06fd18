package homefin

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"sort"
)

// Ledger is the authoritative store of the household's financial state:
// the ordered transaction log plus the entity collections that frame it
// (accounts, categories, loans, insurance policies, vehicles, ad-hoc
// bills, imported statements, standardization rules).
//
// All mutation goes through explicit operations that validate eagerly
// and bump the version counter; every derived value (balances,
// schedules, statements) is a pure function of the current state,
// memoized per version through Snapshot. There is one Ledger per
// session, passed by reference — no ambient singleton.
type Ledger struct {
	transactions []Transaction // always in chronological order
	accounts     map[string]Account
	categories   map[string]Category
	loans        map[string]Loan
	policies     map[string]InsurancePolicy
	vehicles     map[string]Vehicle
	bills        []BillEntry // ad-hoc entries and exclusion marks; generated ones are ephemeral
	statements   map[string]*ImportedStatement
	rules        []Rule

	version  uint64
	snapshot *Snapshot // last snapshot handed out, valid while version matches
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		transactions: make([]Transaction, 0),
		accounts:     make(map[string]Account),
		categories:   make(map[string]Category),
		loans:        make(map[string]Loan),
		policies:     make(map[string]InsurancePolicy),
		vehicles:     make(map[string]Vehicle),
		statements:   make(map[string]*ImportedStatement),
	}
}

// Version returns the mutation counter. Two reads under the same
// version see the exact same state.
func (l *Ledger) Version() uint64 { return l.version }

func (l *Ledger) bump() { l.version++ }

// horizon is a date after every recordable transaction, used by
// queries that mean "up to the end of time".
func (l *Ledger) horizon() Date { return NewDate(9999, 12, 31) }

// stableSort sorts the transaction log by date. The sort is stable, so
// transactions on the same day keep their original relative order.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		return l.transactions[i].Date.Before(l.transactions[j].Date)
	})
}

// --- accounts ---

// Account returns the account with this id, or false.
func (l *Ledger) Account(id string) (Account, bool) {
	a, ok := l.accounts[id]
	return a, ok
}

// Accounts iterates accounts in stable id order.
func (l *Ledger) Accounts() iter.Seq[Account] {
	return sortedValues(l.accounts)
}

// AddAccount registers a new account.
func (l *Ledger) AddAccount(a Account) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if _, exists := l.accounts[a.ID]; exists {
		return validationf("account %q already exists", a.ID)
	}
	l.accounts[a.ID] = a
	l.bump()
	return nil
}

// UpdateAccount replaces an existing account's descriptive fields.
func (l *Ledger) UpdateAccount(a Account) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if _, exists := l.accounts[a.ID]; !exists {
		return notFoundf("account %q", a.ID)
	}
	l.accounts[a.ID] = a
	l.bump()
	return nil
}

// DeleteAccount removes an account. It is rejected while any
// transaction still references it.
func (l *Ledger) DeleteAccount(id string) error {
	if _, exists := l.accounts[id]; !exists {
		return notFoundf("account %q", id)
	}
	n := 0
	for _, tx := range l.transactions {
		if tx.AccountID == id {
			n++
		}
	}
	if n > 0 {
		return integrityf("account %q has %d dependent transactions", id, n)
	}
	delete(l.accounts, id)
	l.bump()
	return nil
}

// --- categories ---

// Category returns the category with this id, or false.
func (l *Ledger) Category(id string) (Category, bool) {
	c, ok := l.categories[id]
	return c, ok
}

// Categories iterates categories in stable id order.
func (l *Ledger) Categories() iter.Seq[Category] {
	return sortedValues(l.categories)
}

// AddCategory registers a new category.
func (l *Ledger) AddCategory(c Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if _, exists := l.categories[c.ID]; exists {
		return validationf("category %q already exists", c.ID)
	}
	l.categories[c.ID] = c
	l.bump()
	return nil
}

// UpdateCategory replaces an existing category.
func (l *Ledger) UpdateCategory(c Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if _, exists := l.categories[c.ID]; !exists {
		return notFoundf("category %q", c.ID)
	}
	l.categories[c.ID] = c
	l.bump()
	return nil
}

// DeleteCategory removes a category. It is rejected while any
// transaction still references it.
func (l *Ledger) DeleteCategory(id string) error {
	if _, exists := l.categories[id]; !exists {
		return notFoundf("category %q", id)
	}
	n := 0
	for _, tx := range l.transactions {
		if tx.CategoryID == id {
			n++
		}
	}
	if n > 0 {
		return integrityf("category %q has %d dependent transactions", id, n)
	}
	delete(l.categories, id)
	l.bump()
	return nil
}

// --- loans, policies, vehicles ---

// Loan returns the loan with this id, or false.
func (l *Ledger) Loan(id string) (Loan, bool) {
	loan, ok := l.loans[id]
	return loan, ok
}

// Loans iterates loans in stable id order.
func (l *Ledger) Loans() iter.Seq[Loan] { return sortedValues(l.loans) }

// AddLoan registers a new loan contract.
func (l *Ledger) AddLoan(loan Loan) error {
	if err := loan.Validate(); err != nil {
		return err
	}
	if _, exists := l.loans[loan.ID]; exists {
		return validationf("loan %q already exists", loan.ID)
	}
	if loan.AccountID != "" {
		if _, ok := l.accounts[loan.AccountID]; !ok {
			return validationf("loan %s references unknown account %q", loan.ID, loan.AccountID)
		}
	}
	l.loans[loan.ID] = loan
	l.bump()
	return nil
}

// UpdateLoan replaces a loan contract, typically to configure a
// pending-configuration loan created from an imported disbursement.
func (l *Ledger) UpdateLoan(loan Loan) error {
	if err := loan.Validate(); err != nil {
		return err
	}
	if _, exists := l.loans[loan.ID]; !exists {
		return notFoundf("loan %q", loan.ID)
	}
	l.loans[loan.ID] = loan
	l.bump()
	return nil
}

// DeleteLoan removes a loan. It is rejected while any transaction is
// still linked to it.
func (l *Ledger) DeleteLoan(id string) error {
	if _, exists := l.loans[id]; !exists {
		return notFoundf("loan %q", id)
	}
	n := 0
	for _, tx := range l.transactions {
		if tx.Links.LoanID == id {
			n++
		}
	}
	if n > 0 {
		return integrityf("loan %q has %d dependent transactions", id, n)
	}
	delete(l.loans, id)
	l.bump()
	return nil
}

// Policy returns the insurance policy with this id, or false.
func (l *Ledger) Policy(id string) (InsurancePolicy, bool) {
	p, ok := l.policies[id]
	return p, ok
}

// Policies iterates insurance policies in stable id order.
func (l *Ledger) Policies() iter.Seq[InsurancePolicy] { return sortedValues(l.policies) }

// AddPolicy registers a new insurance policy.
func (l *Ledger) AddPolicy(p InsurancePolicy) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if _, exists := l.policies[p.ID]; exists {
		return validationf("insurance policy %q already exists", p.ID)
	}
	l.policies[p.ID] = p
	l.bump()
	return nil
}

// UpdatePolicy replaces an insurance policy.
func (l *Ledger) UpdatePolicy(p InsurancePolicy) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if _, exists := l.policies[p.ID]; !exists {
		return notFoundf("insurance policy %q", p.ID)
	}
	l.policies[p.ID] = p
	l.bump()
	return nil
}

// DeletePolicy removes an insurance policy. It is rejected while any
// transaction is still linked to it.
func (l *Ledger) DeletePolicy(id string) error {
	if _, exists := l.policies[id]; !exists {
		return notFoundf("insurance policy %q", id)
	}
	n := 0
	for _, tx := range l.transactions {
		if tx.Links.PolicyID == id {
			n++
		}
	}
	if n > 0 {
		return integrityf("insurance policy %q has %d dependent transactions", id, n)
	}
	delete(l.policies, id)
	l.bump()
	return nil
}

// Vehicle returns the vehicle with this id, or false.
func (l *Ledger) Vehicle(id string) (Vehicle, bool) {
	v, ok := l.vehicles[id]
	return v, ok
}

// Vehicles iterates vehicles in stable id order.
func (l *Ledger) Vehicles() iter.Seq[Vehicle] { return sortedValues(l.vehicles) }

// AddVehicle registers a new vehicle.
func (l *Ledger) AddVehicle(v Vehicle) error {
	if err := v.Validate(); err != nil {
		return err
	}
	if _, exists := l.vehicles[v.ID]; exists {
		return validationf("vehicle %q already exists", v.ID)
	}
	l.vehicles[v.ID] = v
	l.bump()
	return nil
}

// UpdateVehicle replaces a vehicle, typically to refresh its market
// reference value.
func (l *Ledger) UpdateVehicle(v Vehicle) error {
	if err := v.Validate(); err != nil {
		return err
	}
	if _, exists := l.vehicles[v.ID]; !exists {
		return notFoundf("vehicle %q", v.ID)
	}
	l.vehicles[v.ID] = v
	l.bump()
	return nil
}

// DeleteVehicle removes a vehicle. It is rejected while any transaction
// is still linked to it.
func (l *Ledger) DeleteVehicle(id string) error {
	if _, exists := l.vehicles[id]; !exists {
		return notFoundf("vehicle %q", id)
	}
	n := 0
	for _, tx := range l.transactions {
		if tx.Links.VehicleID == id {
			n++
		}
	}
	if n > 0 {
		return integrityf("vehicle %q has %d dependent transactions", id, n)
	}
	delete(l.vehicles, id)
	l.bump()
	return nil
}

// --- transactions ---

// Transaction returns the transaction with this id, or false.
func (l *Ledger) Transaction(id string) (Transaction, bool) {
	for _, tx := range l.transactions {
		if tx.ID == id {
			return tx, true
		}
	}
	return Transaction{}, false
}

// Transactions returns an iterator over the chronological log. Filters
// are OR-combined; with no filter every transaction is yielded.
func (l *Ledger) Transactions(filters ...func(Transaction) bool) iter.Seq2[int, Transaction] {
	return func(yield func(int, Transaction) bool) {
		for i, tx := range l.transactions {
			if len(filters) > 0 {
				accept := false
				for _, filter := range filters {
					if filter(tx) {
						accept = true
						break
					}
				}
				if !accept {
					continue
				}
			}
			if !yield(i, tx) {
				return
			}
		}
	}
}

// ByAccount returns a predicate that filters transactions by account.
func ByAccount(accountID string) func(Transaction) bool {
	return func(tx Transaction) bool { return tx.AccountID == accountID }
}

// ByOperation returns a predicate that filters transactions by operation type.
func ByOperation(ops ...OperationType) func(Transaction) bool {
	return func(tx Transaction) bool { return slices.Contains(ops, tx.Operation) }
}

// ByRange returns a predicate that filters transactions by date range.
func ByRange(r Range) func(Transaction) bool {
	return func(tx Transaction) bool { return r.Contains(tx.Date) }
}

// validateTransaction runs the cross-entity checks of the mutation
// boundary: the account must exist, the category must exist and be
// compatible with the operation, and a loan-payment link must resolve
// to a real schedule entry.
func (l *Ledger) validateTransaction(tx Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	if _, ok := l.accounts[tx.AccountID]; !ok {
		return validationf("transaction %s references unknown account %q", tx.ID, tx.AccountID)
	}
	if tx.CategoryID != "" {
		cat, ok := l.categories[tx.CategoryID]
		if !ok {
			return validationf("transaction %s references unknown category %q", tx.ID, tx.CategoryID)
		}
		if !cat.Nature.Compatible(tx.Operation) {
			return validationf("category %s (%s) is not compatible with operation %s", cat.ID, cat.Nature, tx.Operation)
		}
	}
	if tx.Links.LoanID != "" {
		loan, ok := l.loans[tx.Links.LoanID]
		if !ok {
			return validationf("transaction %s references unknown loan %q", tx.ID, tx.Links.LoanID)
		}
		if tx.Operation == OpLoanPayment && tx.Links.Installment != 0 {
			if !loan.Configured() {
				return validationf("loan %s is not configured, cannot link installment %d", loan.ID, tx.Links.Installment)
			}
			if tx.Links.Installment < 1 || tx.Links.Installment > loan.Months {
				return validationf("loan %s installment %d out of range 1..%d", loan.ID, tx.Links.Installment, loan.Months)
			}
		}
	}
	if tx.Links.PolicyID != "" {
		if _, ok := l.policies[tx.Links.PolicyID]; !ok {
			return validationf("transaction %s references unknown insurance policy %q", tx.ID, tx.Links.PolicyID)
		}
	}
	return nil
}

// AddTransaction appends a transaction to the log, keeping it sorted.
func (l *Ledger) AddTransaction(tx Transaction) error {
	if err := l.validateTransaction(tx); err != nil {
		return err
	}
	if _, exists := l.Transaction(tx.ID); exists {
		return validationf("transaction %q already exists", tx.ID)
	}
	l.transactions = append(l.transactions, tx)
	l.stableSort()
	l.bump()
	return nil
}

// AddTransferPair records the two legs of a transfer or investment move
// atomically under a fresh transfer group: equal amounts, opposite
// flows. A transfer INTO a credit-card account posts as a plain
// inbound flow (fatura payment) instead of transfer_in.
func (l *Ledger) AddTransferPair(day Date, fromAccountID, toAccountID string, op OperationType, amount Money, description string) (out, in Transaction, err error) {
	if !op.IsPaired() {
		return out, in, validationf("operation %s is not a paired move", op)
	}
	if fromAccountID == toAccountID {
		return out, in, validationf("cannot move between the same account %q", fromAccountID)
	}
	if !amount.IsPositive() {
		return out, in, validationf("paired move amount must be positive, got %s", amount)
	}
	group := NewTransferGroupID()
	out = NewTransaction(day, fromAccountID, FlowTransferOut, op, amount, "", description)
	out.Links.TransferGroupID = group
	inFlow := FlowTransferIn
	if dest, ok := l.accounts[toAccountID]; ok && dest.Type == CreditCard && op == OpTransfer {
		inFlow = FlowIn // fatura payment: reduces the card payable
	}
	in = NewTransaction(day, toAccountID, inFlow, op, amount, "", description)
	in.Links.TransferGroupID = group
	if err := l.validateTransaction(out); err != nil {
		return out, in, err
	}
	if err := l.validateTransaction(in); err != nil {
		return out, in, err
	}
	l.transactions = append(l.transactions, out, in)
	l.stableSort()
	l.bump()
	return out, in, nil
}

// UpdateTransaction applies the narrow edit set (date, amount,
// description, category, conciliated) to a recorded transaction. Date
// and amount re-propagate to the paired leg of a transfer group so the
// pair invariant holds.
func (l *Ledger) UpdateTransaction(id string, edit TransactionEdit) error {
	idx := slices.IndexFunc(l.transactions, func(tx Transaction) bool { return tx.ID == id })
	if idx < 0 {
		return notFoundf("transaction %q", id)
	}
	tx := l.transactions[idx]
	edit.apply(&tx)
	if err := l.validateTransaction(tx); err != nil {
		return err
	}
	l.transactions[idx] = tx
	if group := tx.Links.TransferGroupID; group != "" {
		for i, other := range l.transactions {
			if i != idx && other.Links.TransferGroupID == group {
				other.Date = tx.Date
				other.Amount = tx.Amount
				l.transactions[i] = other
			}
		}
	}
	l.stableSort()
	l.bump()
	return nil
}

// TransactionEdit is the narrow mutable surface of a recorded
// transaction. Nil fields are left untouched.
type TransactionEdit struct {
	Date        *Date
	Amount      *Money
	Description *string
	CategoryID  *string
	Conciliated *bool
}

func (e TransactionEdit) apply(tx *Transaction) {
	if e.Date != nil {
		tx.Date = *e.Date
	}
	if e.Amount != nil {
		tx.Amount = e.Amount.Abs()
	}
	if e.Description != nil {
		tx.Description = *e.Description
	}
	if e.CategoryID != nil {
		tx.CategoryID = *e.CategoryID
	}
	if e.Conciliated != nil {
		tx.Conciliated = *e.Conciliated
	}
}

// DeleteTransaction removes a transaction and cascades: the paired leg
// of a transfer group goes with it, a linked insurance paid-mark is
// reverted, a settled loan reopens, an ad-hoc bill paid by it returns
// to pending, and the originating imported line loses its contabilized
// flag.
func (l *Ledger) DeleteTransaction(id string) error {
	idx := slices.IndexFunc(l.transactions, func(tx Transaction) bool { return tx.ID == id })
	if idx < 0 {
		return notFoundf("transaction %q", id)
	}
	tx := l.transactions[idx]

	doomed := map[string]bool{id: true}
	if group := tx.Links.TransferGroupID; group != "" {
		for _, other := range l.transactions {
			if other.Links.TransferGroupID == group {
				doomed[other.ID] = true
			}
		}
	}
	l.transactions = slices.DeleteFunc(l.transactions, func(t Transaction) bool { return doomed[t.ID] })
	l.bump()

	if tx.Links.PolicyID != "" && tx.Links.Installment != 0 {
		// Best effort: the mark may already be absent.
		_ = l.UnmarkPolicyInstallmentPaid(tx.Links.PolicyID, tx.Links.Installment)
	}
	if tx.Operation == OpLoanPayment && tx.Links.LoanID != "" {
		if loan, ok := l.loans[tx.Links.LoanID]; ok && loan.Status == LoanSettled {
			loan.Status = LoanActive
			l.loans[tx.Links.LoanID] = loan
			l.bump()
		}
	}
	for i := range l.bills {
		if l.bills[i].TransactionID == id {
			l.bills[i].Paid = false
			l.bills[i].PaidOn = Date{}
			l.bills[i].PaidAmount = Money{}
			l.bills[i].TransactionID = ""
			l.bump()
		}
	}
	l.revertContabilized(doomed)
	return nil
}

// sortedValues iterates a map's values in key order, the stable
// iteration idiom used everywhere entities are listed.
func sortedValues[V any](m map[string]V) iter.Seq[V] {
	return func(yield func(V) bool) {
		keys := slices.Collect(maps.Keys(m))
		slices.Sort(keys)
		for _, k := range keys {
			if !yield(m[k]) {
				return
			}
		}
	}
}

// CheckInvariants validates the whole store: the pair invariant for
// every transfer group and the referential checks of every transaction.
// Decode runs it so a hand-edited data file cannot smuggle a broken
// state in.
func (l *Ledger) CheckInvariants() error {
	groups := make(map[string][]Transaction)
	for _, tx := range l.transactions {
		if err := l.validateTransaction(tx); err != nil {
			return err
		}
		if g := tx.Links.TransferGroupID; g != "" {
			groups[g] = append(groups[g], tx)
		}
	}
	for g, legs := range groups {
		if len(legs) != 2 {
			return validationf("transfer group %q has %d legs, want 2", g, len(legs))
		}
		if legs[0].Flow.Sign() == legs[1].Flow.Sign() {
			return validationf("transfer group %q legs flow in the same direction", g)
		}
		if !legs[0].Amount.Equal(legs[1].Amount) {
			return validationf("transfer group %q legs have different amounts %s and %s", g, legs[0].Amount, legs[1].Amount)
		}
	}
	return nil
}

// OldestTransactionDate returns the date of the earliest transaction,
// or the zero date for an empty ledger.
func (l *Ledger) OldestTransactionDate() Date {
	if len(l.transactions) == 0 {
		return Date{}
	}
	return l.transactions[0].Date
}

// NewestTransactionDate returns the date of the latest transaction,
// or the zero date for an empty ledger.
func (l *Ledger) NewestTransactionDate() Date {
	if len(l.transactions) == 0 {
		return Date{}
	}
	return l.transactions[len(l.transactions)-1].Date
}

// String summarizes the store for diagnostics.
func (l *Ledger) String() string {
	return fmt.Sprintf("ledger v%d: %d transactions, %d accounts, %d loans, %d policies",
		l.version, len(l.transactions), len(l.accounts), len(l.loans), len(l.policies))
}
