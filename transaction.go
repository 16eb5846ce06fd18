package homefin

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Flow is the directional tag of a transaction. The sign of a movement
// lives here; Amount is always a non-negative magnitude.
type Flow int

const (
	FlowIn Flow = iota
	FlowOut
	FlowTransferIn
	FlowTransferOut
)

func (f Flow) String() string {
	switch f {
	case FlowIn:
		return "in"
	case FlowOut:
		return "out"
	case FlowTransferIn:
		return "transfer_in"
	case FlowTransferOut:
		return "transfer_out"
	default:
		return "unknown"
	}
}

func ParseFlow(s string) (Flow, error) {
	switch s {
	case "in":
		return FlowIn, nil
	case "out":
		return FlowOut, nil
	case "transfer_in":
		return FlowTransferIn, nil
	case "transfer_out":
		return FlowTransferOut, nil
	default:
		return 0, fmt.Errorf("unknown flow: %q", s)
	}
}

// Sign returns +1 for inbound flows and -1 for outbound flows.
func (f Flow) Sign() int {
	switch f {
	case FlowIn, FlowTransferIn:
		return 1
	default:
		return -1
	}
}

// Opposite returns the matching flow for the other leg of a pair.
func (f Flow) Opposite() Flow {
	switch f {
	case FlowIn:
		return FlowOut
	case FlowOut:
		return FlowIn
	case FlowTransferIn:
		return FlowTransferOut
	default:
		return FlowTransferIn
	}
}

func (f Flow) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", f.String())), nil
}

func (f *Flow) UnmarshalJSON(data []byte) error {
	s, err := unquote(data)
	if err != nil {
		return err
	}
	v, err := ParseFlow(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// OperationType is the closed set of ledger operations. Every engine
// that branches on it does so with an exhaustive switch, so adding an
// operation is a compile-time-checked, single-place change.
type OperationType int

const (
	OpRevenue OperationType = iota
	OpExpense
	OpTransfer
	OpInvestContribution
	OpInvestWithdrawal
	OpLoanDisbursement
	OpLoanPayment
	OpVehicle
	OpYield
	OpInitialBalance
)

func (op OperationType) String() string {
	switch op {
	case OpRevenue:
		return "revenue"
	case OpExpense:
		return "expense"
	case OpTransfer:
		return "transfer"
	case OpInvestContribution:
		return "invest-contribution"
	case OpInvestWithdrawal:
		return "invest-withdrawal"
	case OpLoanDisbursement:
		return "loan-disbursement"
	case OpLoanPayment:
		return "loan-payment"
	case OpVehicle:
		return "vehicle"
	case OpYield:
		return "yield"
	case OpInitialBalance:
		return "initial-balance"
	default:
		return "unknown"
	}
}

func ParseOperationType(s string) (OperationType, error) {
	switch s {
	case "revenue":
		return OpRevenue, nil
	case "expense":
		return OpExpense, nil
	case "transfer":
		return OpTransfer, nil
	case "invest-contribution":
		return OpInvestContribution, nil
	case "invest-withdrawal":
		return OpInvestWithdrawal, nil
	case "loan-disbursement":
		return OpLoanDisbursement, nil
	case "loan-payment":
		return OpLoanPayment, nil
	case "vehicle":
		return OpVehicle, nil
	case "yield":
		return OpYield, nil
	case "initial-balance":
		return OpInitialBalance, nil
	default:
		return 0, fmt.Errorf("unknown operation type: %q", s)
	}
}

func (op OperationType) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", op.String())), nil
}

func (op *OperationType) UnmarshalJSON(data []byte) error {
	s, err := unquote(data)
	if err != nil {
		return err
	}
	v, err := ParseOperationType(s)
	if err != nil {
		return err
	}
	*op = v
	return nil
}

// Domain groups operations by the part of the household they touch.
type Domain int

const (
	DomainCash Domain = iota
	DomainInvestment
	DomainLoan
	DomainVehicle
)

func (d Domain) String() string {
	switch d {
	case DomainCash:
		return "cash"
	case DomainInvestment:
		return "investment"
	case DomainLoan:
		return "loan"
	case DomainVehicle:
		return "vehicle"
	default:
		return "unknown"
	}
}

// Domain derives the domain from the operation type.
func (op OperationType) Domain() Domain {
	switch op {
	case OpInvestContribution, OpInvestWithdrawal:
		return DomainInvestment
	case OpLoanDisbursement, OpLoanPayment:
		return DomainLoan
	case OpVehicle:
		return DomainVehicle
	default:
		return DomainCash
	}
}

// IsPaired reports whether the operation always exists as a matched
// two-leg group sharing a transfer group id.
func (op OperationType) IsPaired() bool {
	switch op {
	case OpTransfer, OpInvestContribution, OpInvestWithdrawal:
		return true
	default:
		return false
	}
}

// NeedsCategory reports whether a transaction of this operation must
// carry a category.
func (op OperationType) NeedsCategory() bool {
	switch op {
	case OpRevenue, OpExpense, OpVehicle, OpYield:
		return true
	default:
		return false
	}
}

// Links ties a transaction to the entity it settles or moves.
type Links struct {
	LoanID          string `json:"loanId,omitempty"`
	PolicyID        string `json:"policyId,omitempty"`
	TransferGroupID string `json:"transferGroupId,omitempty"`
	Installment     int    `json:"installment,omitempty"`
	VehicleID       string `json:"vehicleId,omitempty"`
}

// Meta carries provenance, never business meaning.
type Meta struct {
	CreatedBy string    `json:"createdBy,omitempty"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	Notes     string    `json:"notes,omitempty"`
}

// Transaction is a single ledger movement. It is immutable once
// recorded except for the narrow edit set applied by
// Ledger.UpdateTransaction (date, amount, description, category,
// conciliated).
type Transaction struct {
	ID          string        `json:"id"`
	Date        Date          `json:"date"`
	AccountID   string        `json:"accountId"`
	Flow        Flow          `json:"flow"`
	Operation   OperationType `json:"operation"`
	Amount      Money         `json:"-"`
	CategoryID  string        `json:"categoryId,omitempty"`
	Description string        `json:"description,omitempty"`
	Links       Links         `json:"links,omitzero"`
	Conciliated bool          `json:"conciliated,omitempty"`
	Attachments []string      `json:"attachments,omitempty"`
	Meta        Meta          `json:"meta,omitzero"`
}

// NewTransaction builds a transaction with a fresh id and creation
// timestamp. The amount is stored as an absolute magnitude; direction
// must be expressed through the flow.
func NewTransaction(day Date, accountID string, flow Flow, op OperationType, amount Money, categoryID, description string) Transaction {
	return Transaction{
		ID:          uuid.NewString(),
		Date:        day,
		AccountID:   accountID,
		Flow:        flow,
		Operation:   op,
		Amount:      amount.Abs(),
		CategoryID:  categoryID,
		Description: description,
		Meta:        Meta{CreatedAt: time.Now().UTC()},
	}
}

// NewTransferGroupID mints the pairing key shared by the two legs of a
// transfer or investment move.
func NewTransferGroupID() string { return uuid.NewString() }

// Equal compares business fields, ignoring Meta provenance.
func (t Transaction) Equal(o Transaction) bool {
	return t.ID == o.ID &&
		t.Date == o.Date &&
		t.AccountID == o.AccountID &&
		t.Flow == o.Flow &&
		t.Operation == o.Operation &&
		t.Amount.Equal(o.Amount) &&
		t.CategoryID == o.CategoryID &&
		t.Description == o.Description &&
		t.Links == o.Links &&
		t.Conciliated == o.Conciliated
}

// Validate checks the transaction's own fields; cross-entity checks
// (account exists, category compatible, loan link resolves) belong to
// the ledger mutation boundary.
func (t Transaction) Validate() error {
	if t.ID == "" {
		return validationf("transaction id is missing")
	}
	if t.Date.IsZero() {
		return validationf("transaction %s date is missing", t.ID)
	}
	if t.AccountID == "" {
		return validationf("transaction %s account is missing", t.ID)
	}
	if t.Amount.IsNegative() {
		return validationf("transaction %s amount must be non-negative, got %s", t.ID, t.Amount)
	}
	if t.Operation.IsPaired() && t.Links.TransferGroupID == "" {
		return validationf("%s transaction %s requires a transfer group", t.Operation, t.ID)
	}
	return nil
}

// MarshalJSON writes the transaction with stable key order, the amount
// embedded as unquoted decimal plus currency.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.ID)
	w.Append("date", t.Date)
	w.Append("accountId", t.AccountID)
	w.Append("flow", t.Flow)
	w.Append("operation", t.Operation)
	w.EmbedFrom(t.Amount)
	w.Optional("categoryId", t.CategoryID)
	w.Optional("description", t.Description)
	if t.Links != (Links{}) {
		w.Append("links", t.Links)
	}
	w.Optional("conciliated", t.Conciliated)
	w.Optional("attachments", t.Attachments)
	if t.Meta != (Meta{}) {
		w.Append("meta", t.Meta)
	}
	return w.MarshalJSON()
}

// UnmarshalJSON reads the shape written by MarshalJSON.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	type alias Transaction // shed the method set to avoid recursion
	var temp struct {
		alias
		Amount   decimal.Decimal `json:"amount"`
		Currency string          `json:"currency"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*t = Transaction(temp.alias)
	if temp.Currency == "" {
		temp.Currency = DefaultCurrency
	}
	t.Amount = MC(temp.Amount, temp.Currency)
	return nil
}

func unquote(data []byte) (string, error) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", err
	}
	return s, nil
}
