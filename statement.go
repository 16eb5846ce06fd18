package homefin

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Rule standardizes imported lines: when the raw bank description
// contains Match (case-insensitive), the line gets a clean description,
// a category and optionally an operation classification. Rules are
// applied in order; the first match wins.
type Rule struct {
	ID          string        `json:"id"`
	Match       string        `json:"match"`
	Description string        `json:"description,omitempty"`
	CategoryID  string        `json:"categoryId,omitempty"`
	Operation   OperationType `json:"operation"`
	Classify    bool          `json:"classify,omitempty"` // whether Operation applies
}

// Validate checks the rule's own fields.
func (r Rule) Validate() error {
	if r.ID == "" {
		return validationf("rule id is missing")
	}
	if r.Match == "" {
		return validationf("rule %s match pattern is missing", r.ID)
	}
	return nil
}

func (r Rule) matches(raw string) bool {
	return strings.Contains(strings.ToLower(raw), strings.ToLower(r.Match))
}

// AddRule registers a standardization rule.
func (l *Ledger) AddRule(r Rule) error {
	if err := r.Validate(); err != nil {
		return err
	}
	for _, existing := range l.rules {
		if existing.ID == r.ID {
			return validationf("rule %q already exists", r.ID)
		}
	}
	l.rules = append(l.rules, r)
	l.bump()
	return nil
}

// DeleteRule removes a standardization rule.
func (l *Ledger) DeleteRule(id string) error {
	for i, r := range l.rules {
		if r.ID == id {
			l.rules = append(l.rules[:i], l.rules[i+1:]...)
			l.bump()
			return nil
		}
	}
	return notFoundf("rule %q", id)
}

// Rules returns the standardization rules in application order.
func (l *Ledger) Rules() []Rule { return l.rules }

// RawLine is one movement as it comes out of a bank export, before any
// standardization: a date, a signed amount and the bank's description.
type RawLine struct {
	Date        Date
	Amount      decimal.Decimal // signed: negative means money out
	Description string
}

// ImportedLine is one statement movement going through review. The user
// adjusts classification fields; Contabilized and TransactionIDs are
// owned by the commit step.
type ImportedLine struct {
	ID               string        `json:"id"`
	Date             Date          `json:"date"`
	Flow             Flow          `json:"flow"`
	Amount           Money         `json:"amount"`
	RawDescription   string        `json:"rawDescription"`
	Description      string        `json:"description,omitempty"`
	Operation        OperationType `json:"operation"`
	CategoryID       string        `json:"categoryId,omitempty"`
	CounterAccountID string        `json:"counterAccountId,omitempty"` // transfers: the other leg's account
	LoanID           string        `json:"loanId,omitempty"`
	Installment      int           `json:"installment,omitempty"`
	VehicleID        string        `json:"vehicleId,omitempty"`
	Duplicate        bool          `json:"duplicate,omitempty"` // probable duplicate of a recorded transaction
	Ignore           bool          `json:"ignore,omitempty"`
	Contabilized     bool          `json:"contabilized,omitempty"`
	TransactionIDs   []string      `json:"transactionIds,omitempty"`
}

// Pending reports whether the line still needs a commit decision.
func (ln ImportedLine) Pending() bool { return !ln.Contabilized && !ln.Ignore }

// Ready reports whether the line carries everything its operation needs
// to commit: the category for categorized operations, the counterparty
// for paired moves, the loan for a payment. Lines that are not ready
// stay pending through a commit instead of erroring.
func (ln ImportedLine) Ready() bool {
	if ln.Operation.NeedsCategory() && ln.CategoryID == "" {
		return false
	}
	if ln.Operation.IsPaired() && ln.CounterAccountID == "" {
		return false
	}
	if ln.Operation == OpLoanPayment && ln.LoanID == "" {
		return false
	}
	return true
}

// ImportedStatement is one bank export loaded for review. Lines keep
// their review state across sessions, so a statement can be committed
// in several passes.
type ImportedStatement struct {
	ID         string         `json:"id"`
	AccountID  string         `json:"accountId"`
	FileName   string         `json:"fileName,omitempty"`
	ImportedOn Date           `json:"importedOn"`
	Lines      []ImportedLine `json:"lines"`
}

// Progress returns how many lines are settled (contabilized or
// ignored) out of the total.
func (s *ImportedStatement) Progress() (settled, total int) {
	for _, ln := range s.Lines {
		if !ln.Pending() {
			settled++
		}
	}
	return settled, len(s.Lines)
}

// Done reports whether every line has been settled.
func (s *ImportedStatement) Done() bool {
	settled, total := s.Progress()
	return settled == total
}

// ImportStatement loads a bank export against an account: each raw
// line becomes a review line with flow inferred from the amount sign,
// standardization rules applied, and probable duplicates of already
// recorded transactions flagged.
func (l *Ledger) ImportStatement(accountID, fileName string, raws []RawLine) (*ImportedStatement, error) {
	if _, ok := l.accounts[accountID]; !ok {
		return nil, validationf("statement references unknown account %q", accountID)
	}
	if len(raws) == 0 {
		return nil, validationf("statement %s has no lines", fileName)
	}
	st := &ImportedStatement{
		ID:         uuid.NewString(),
		AccountID:  accountID,
		FileName:   fileName,
		ImportedOn: Today(),
	}
	for _, raw := range raws {
		if raw.Date.IsZero() {
			return nil, validationf("statement line %q has no date", raw.Description)
		}
		flow := FlowIn
		op := OpRevenue
		if raw.Amount.IsNegative() {
			flow = FlowOut
			op = OpExpense
		}
		ln := ImportedLine{
			ID:             uuid.NewString(),
			Date:           raw.Date,
			Flow:           flow,
			Amount:         M(raw.Amount.Abs()),
			RawDescription: raw.Description,
			Operation:      op,
		}
		l.applyRules(&ln)
		ln.Duplicate = l.looksDuplicate(accountID, ln)
		if !ln.Duplicate {
			// The same movement can also appear twice inside one export.
			for _, prev := range st.Lines {
				if prev.Date == ln.Date && prev.Flow == ln.Flow && prev.Amount.Equal(ln.Amount) {
					ln.Duplicate = true
					break
				}
			}
		}
		st.Lines = append(st.Lines, ln)
	}
	l.statements[st.ID] = st
	l.bump()
	return st, nil
}

// applyRules standardizes a line with the first matching rule.
func (l *Ledger) applyRules(ln *ImportedLine) {
	for _, r := range l.rules {
		if !r.matches(ln.RawDescription) {
			continue
		}
		if r.Description != "" {
			ln.Description = r.Description
		}
		if r.CategoryID != "" {
			ln.CategoryID = r.CategoryID
		}
		if r.Classify {
			ln.Operation = r.Operation
		}
		return
	}
}

// looksDuplicate reports whether a recorded transaction already matches
// the line's account, date, direction and amount.
func (l *Ledger) looksDuplicate(accountID string, ln ImportedLine) bool {
	for _, tx := range l.transactions {
		if tx.Date.After(ln.Date) {
			break
		}
		if tx.Date == ln.Date && tx.AccountID == accountID &&
			tx.Flow.Sign() == ln.Flow.Sign() && tx.Amount.Equal(ln.Amount) {
			return true
		}
	}
	return false
}

// Statement returns an imported statement by id, or false.
func (l *Ledger) Statement(id string) (*ImportedStatement, bool) {
	st, ok := l.statements[id]
	return st, ok
}

// Statements iterates imported statements in stable id order.
func (l *Ledger) Statements() []*ImportedStatement {
	out := make([]*ImportedStatement, 0, len(l.statements))
	for st := range sortedValues(l.statements) {
		out = append(out, st)
	}
	return out
}

// DeleteStatement removes an imported statement. It is rejected while
// any line is still contabilized: delete the generated transactions
// first so nothing dangles.
func (l *Ledger) DeleteStatement(id string) error {
	st, ok := l.statements[id]
	if !ok {
		return notFoundf("statement %q", id)
	}
	for _, ln := range st.Lines {
		if ln.Contabilized {
			return integrityf("statement %q line %q is contabilized; revert it before deleting", id, ln.ID)
		}
	}
	delete(l.statements, id)
	l.bump()
	return nil
}

// ConsolidateForReview returns the lines still awaiting a decision,
// with standardization rules re-applied so rules added after the
// import still take effect.
func (l *Ledger) ConsolidateForReview(statementID string) ([]ImportedLine, error) {
	st, ok := l.statements[statementID]
	if !ok {
		return nil, notFoundf("statement %q", statementID)
	}
	var pending []ImportedLine
	for i := range st.Lines {
		if !st.Lines[i].Pending() {
			continue
		}
		l.applyRules(&st.Lines[i])
		pending = append(pending, st.Lines[i])
	}
	return pending, nil
}

// UpdateLine writes back the user's review decisions for one line.
// Contabilized lines are frozen.
func (l *Ledger) UpdateLine(statementID string, line ImportedLine) error {
	st, ok := l.statements[statementID]
	if !ok {
		return notFoundf("statement %q", statementID)
	}
	for i := range st.Lines {
		if st.Lines[i].ID != line.ID {
			continue
		}
		if st.Lines[i].Contabilized {
			return integrityf("statement line %q is contabilized; delete its transactions to edit it", line.ID)
		}
		line.Contabilized = false
		line.TransactionIDs = nil
		st.Lines[i] = line
		l.bump()
		return nil
	}
	return notFoundf("statement line %q", line.ID)
}

// CommitReview turns every decided pending line of a statement into
// ledger transactions. Lines that are not ready (missing category,
// counterparty or loan) stay pending; duplicate-flagged lines are
// skipped unless the user cleared the flag; ignored and
// already-contabilized lines are skipped, so committing the same
// statement twice creates nothing new.
func (l *Ledger) CommitReview(statementID string) (created int, err error) {
	st, ok := l.statements[statementID]
	if !ok {
		return 0, notFoundf("statement %q", statementID)
	}
	for i := range st.Lines {
		ln := &st.Lines[i]
		if !ln.Pending() || ln.Duplicate || !ln.Ready() {
			continue
		}
		ids, err := l.commitLine(st, ln)
		if err != nil {
			return created, fmt.Errorf("statement line %q (%s): %w", ln.ID, ln.RawDescription, err)
		}
		ln.Contabilized = true
		ln.TransactionIDs = ids
		created += len(ids)
		l.bump()
	}
	return created, nil
}

// commitLine expands one reviewed line into its ledger transactions.
func (l *Ledger) commitLine(st *ImportedStatement, ln *ImportedLine) ([]string, error) {
	desc := ln.Description
	if desc == "" {
		desc = ln.RawDescription
	}
	switch ln.Operation {
	case OpTransfer, OpInvestContribution, OpInvestWithdrawal:
		if ln.CounterAccountID == "" {
			return nil, validationf("%s line needs a counterparty account", ln.Operation)
		}
		from, to := st.AccountID, ln.CounterAccountID
		if ln.Flow.Sign() > 0 {
			from, to = to, from
		}
		out, in, err := l.AddTransferPair(ln.Date, from, to, ln.Operation, ln.Amount, desc)
		if err != nil {
			return nil, err
		}
		l.stampImported(st, out.ID, in.ID)
		return []string{out.ID, in.ID}, nil

	case OpLoanDisbursement:
		tx := NewTransaction(ln.Date, st.AccountID, FlowIn, OpLoanDisbursement, ln.Amount, "", desc)
		loanID := ln.LoanID
		if loanID == "" {
			// A disbursement with no known contract opens a
			// pending-configuration loan to be filled in later.
			loan := Loan{
				ID:               uuid.NewString(),
				Label:            desc,
				Principal:        ln.Amount,
				Status:           LoanPending,
				AccountID:        st.AccountID,
				DisbursementTxID: tx.ID,
			}
			if err := l.AddLoan(loan); err != nil {
				return nil, err
			}
			loanID = loan.ID
		}
		tx.Links.LoanID = loanID
		if err := l.AddTransaction(tx); err != nil {
			return nil, err
		}
		l.stampImported(st, tx.ID)
		return []string{tx.ID}, nil

	case OpLoanPayment:
		if ln.LoanID == "" {
			return nil, validationf("loan-payment line needs a loan")
		}
		tx, err := l.MarkInstallmentPaid(ln.LoanID, ln.Amount, ln.Date, ln.Installment)
		if err != nil {
			return nil, err
		}
		l.stampImported(st, tx.ID)
		return []string{tx.ID}, nil

	case OpVehicle:
		vehicleID := ln.VehicleID
		tx := NewTransaction(ln.Date, st.AccountID, ln.Flow, OpVehicle, ln.Amount, ln.CategoryID, desc)
		if vehicleID == "" && ln.Flow.Sign() < 0 {
			// A vehicle purchase with no known fleet entry creates one.
			v := Vehicle{
				ID:           uuid.NewString(),
				Label:        desc,
				PurchasedOn:  ln.Date,
				PurchaseTxID: tx.ID,
			}
			if err := l.AddVehicle(v); err != nil {
				return nil, err
			}
			vehicleID = v.ID
		}
		tx.Links.VehicleID = vehicleID
		if err := l.AddTransaction(tx); err != nil {
			return nil, err
		}
		l.stampImported(st, tx.ID)
		return []string{tx.ID}, nil

	case OpRevenue, OpExpense, OpYield, OpInitialBalance:
		tx := NewTransaction(ln.Date, st.AccountID, ln.Flow, ln.Operation, ln.Amount, ln.CategoryID, desc)
		if err := l.AddTransaction(tx); err != nil {
			return nil, err
		}
		l.stampImported(st, tx.ID)
		return []string{tx.ID}, nil

	default:
		return nil, validationf("line operation %s cannot be committed", ln.Operation)
	}
}

// stampImported marks committed transactions conciliated and records
// their statement provenance.
func (l *Ledger) stampImported(st *ImportedStatement, txIDs ...string) {
	for i := range l.transactions {
		for _, id := range txIDs {
			if l.transactions[i].ID == id {
				l.transactions[i].Conciliated = true
				l.transactions[i].Meta.Source = "statement:" + st.ID
			}
		}
	}
}

// revertContabilized drops deleted transaction ids from every statement
// line, reopening lines whose transactions are all gone. Called by
// DeleteTransaction so review state follows the ledger.
func (l *Ledger) revertContabilized(deleted map[string]bool) {
	for _, st := range l.statements {
		for i := range st.Lines {
			ln := &st.Lines[i]
			if len(ln.TransactionIDs) == 0 {
				continue
			}
			kept := ln.TransactionIDs[:0]
			for _, id := range ln.TransactionIDs {
				if !deleted[id] {
					kept = append(kept, id)
				}
			}
			if len(kept) != len(ln.TransactionIDs) {
				ln.TransactionIDs = kept
				if len(kept) == 0 {
					ln.TransactionIDs = nil
					ln.Contabilized = false
				}
				l.bump()
			}
		}
	}
}
