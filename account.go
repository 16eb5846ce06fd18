package homefin

import "fmt"

// AccountType is the closed set of account kinds. The balance
// calculator and the balance sheet drive their polarity and
// asset/liability classification from it.
type AccountType int

const (
	Checking AccountType = iota
	Savings
	EmergencyReserve
	FixedIncome
	Crypto
	Goal
	CreditCard
)

func (t AccountType) String() string {
	switch t {
	case Checking:
		return "checking"
	case Savings:
		return "savings"
	case EmergencyReserve:
		return "emergency-reserve"
	case FixedIncome:
		return "fixed-income"
	case Crypto:
		return "crypto"
	case Goal:
		return "goal"
	case CreditCard:
		return "credit-card"
	default:
		return "unknown"
	}
}

// ParseAccountType parses a string into an AccountType.
func ParseAccountType(s string) (AccountType, error) {
	switch s {
	case "checking":
		return Checking, nil
	case "savings":
		return Savings, nil
	case "emergency-reserve":
		return EmergencyReserve, nil
	case "fixed-income":
		return FixedIncome, nil
	case "crypto":
		return Crypto, nil
	case "goal":
		return Goal, nil
	case "credit-card":
		return CreditCard, nil
	default:
		return 0, fmt.Errorf("unknown account type: %q", s)
	}
}

// IsLiquid reports whether balances of this account type count as
// cash-like liquid assets on the balance sheet. Investment buckets are
// assets too, but illiquid; credit cards are payables, not assets.
func (t AccountType) IsLiquid() bool {
	switch t {
	case Checking, Savings, EmergencyReserve:
		return true
	default:
		return false
	}
}

func (t AccountType) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", t.String())), nil
}

func (t *AccountType) UnmarshalJSON(data []byte) error {
	s, err := unquote(data)
	if err != nil {
		return err
	}
	v, err := ParseAccountType(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Account is a money container: a bank account, a card, an investment
// bucket or a goal.
type Account struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Type        AccountType `json:"type"`
	Institution string      `json:"institution,omitempty"`
	OpenedOn    Date        `json:"openedOn"`
	Hidden      bool        `json:"hidden,omitempty"`
}

// Validate checks the account's own fields.
func (a Account) Validate() error {
	if a.ID == "" {
		return validationf("account id is missing")
	}
	if a.Name == "" {
		return validationf("account %s name is missing", a.ID)
	}
	return nil
}
