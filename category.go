package homefin

import "fmt"

// Nature classifies a category as revenue, fixed expense or variable
// expense. The income statement splits its expense blocks on it.
type Nature int

const (
	Revenue Nature = iota
	FixedExpense
	VariableExpense
)

func (n Nature) String() string {
	switch n {
	case Revenue:
		return "revenue"
	case FixedExpense:
		return "fixed-expense"
	case VariableExpense:
		return "variable-expense"
	default:
		return "unknown"
	}
}

func ParseNature(s string) (Nature, error) {
	switch s {
	case "revenue":
		return Revenue, nil
	case "fixed-expense":
		return FixedExpense, nil
	case "variable-expense":
		return VariableExpense, nil
	default:
		return 0, fmt.Errorf("unknown category nature: %q", s)
	}
}

// IsExpense reports whether the nature sits on the expense side.
func (n Nature) IsExpense() bool { return n == FixedExpense || n == VariableExpense }

func (n Nature) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", n.String())), nil
}

func (n *Nature) UnmarshalJSON(data []byte) error {
	s, err := unquote(data)
	if err != nil {
		return err
	}
	v, err := ParseNature(s)
	if err != nil {
		return err
	}
	*n = v
	return nil
}

// Category labels transactions. A category flagged Recurring acts as a
// bill template: the tracker projects it onto each month using
// ExpectedAmount and DueDay. Insurance marks premium-payment categories
// so the accrual reporter can exclude their cash payments from the
// operating expense blocks.
type Category struct {
	ID             string `json:"id"`
	Label          string `json:"label"`
	Nature         Nature `json:"nature"`
	Icon           string `json:"icon,omitempty"`
	Insurance      bool   `json:"insurance,omitempty"`
	Recurring      bool   `json:"recurring,omitempty"`
	ExpectedAmount Money  `json:"expectedAmount,omitzero"`
	DueDay         int    `json:"dueDay,omitempty"`
}

// Validate checks the category's own fields.
func (c Category) Validate() error {
	if c.ID == "" {
		return validationf("category id is missing")
	}
	if c.Label == "" {
		return validationf("category %s label is missing", c.ID)
	}
	if c.Recurring {
		if !c.Nature.IsExpense() {
			return validationf("recurring category %s must be an expense category", c.ID)
		}
		if c.DueDay < 1 || c.DueDay > 28 {
			return validationf("recurring category %s due day %d out of range 1..28", c.ID, c.DueDay)
		}
	}
	return nil
}

// Compatible reports whether a category of this nature may label a
// transaction of the given operation. The table is closed: revenue
// categories label money coming in, expense categories money going out.
func (n Nature) Compatible(op OperationType) bool {
	switch op {
	case OpRevenue, OpYield:
		return n == Revenue
	case OpExpense, OpVehicle:
		return n.IsExpense()
	default:
		// transfers, investment moves, loan legs and opening balances
		// carry no category.
		return false
	}
}
