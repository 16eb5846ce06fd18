package homefin

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

func init() {
	// Amounts are numbers in the data file, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// DefaultCurrency is the single reporting currency of the ledger.
// Multi-currency accounting is out of scope; the currency code is still
// carried so persisted files stay self-describing.
const DefaultCurrency = "BRL"

// Money represents a monetary value as an exact decimal in a currency.
type Money struct {
	value decimal.Decimal // major unit value
	cur   string
}

// M builds a Money in the default currency.
func M[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T) Money {
	return Money{value: newDecimal(value), cur: DefaultCurrency}
}

// MC builds a Money in an explicit currency.
func MC[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

func newDecimal(v any) decimal.Decimal {
	switch x := v.(type) {
	case decimal.Decimal:
		return x
	case float32:
		return decimal.NewFromFloat32(x)
	case float64:
		return decimal.NewFromFloat(x)
	case int:
		return decimal.NewFromInt(int64(x))
	case int32:
		return decimal.NewFromInt32(x)
	case int64:
		return decimal.NewFromInt(x)
	default:
		panic(fmt.Sprintf("unsupported decimal source %T", v))
	}
}

// ParseMoney parses a decimal string like "1134.72" into a Money in
// the default currency.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Money{value: d, cur: DefaultCurrency}, nil
}

// currency returns the full currency metadata, never nil.
func (m Money) currency() money.Currency {
	cur := m.cur
	if cur == "" {
		cur = DefaultCurrency
	}
	return *money.New(0, cur).Currency()
}

// String returns the formatted representation, e.g. "R$1.234,56".
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

// SignedString is like String but prefixes positive values with '+' and
// renders zero as "-". Used by period-over-period report columns.
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

func (m Money) Currency() string                { return m.currency().Code }
func (m Money) Decimal() decimal.Decimal        { return m.value }
func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) IsNegative() bool                { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool           { return m.value.LessThan(n.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.value.GreaterThanOrEqual(n.value) }
func (m Money) Neg() Money                      { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Abs() Money                      { return Money{value: m.value.Abs(), cur: m.cur} }

// Round returns the value rounded half away from zero to the currency's
// minor unit (cents).
func (m Money) Round() Money {
	return Money{value: m.value.Round(int32(m.currency().Fraction)), cur: m.cur}
}

// binary operators.
func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// MulDec scales the amount by a decimal factor (interest rates, prorations).
func (m Money) MulDec(f decimal.Decimal) Money {
	return Money{value: m.value.Mul(f), cur: m.cur}
}

// DivInt divides the amount evenly by n parts (premium proration).
func (m Money) DivInt(n int) Money {
	return Money{value: m.value.Div(decimal.NewFromInt(int64(n))), cur: m.cur}
}

// makes the "" currency totally weak.
func cur(a, b Money) string {
	if a.cur == "" {
		return b.cur
	}
	if b.cur == "" {
		return a.cur
	}
	if a.cur != b.cur {
		panic("currency mismatch " + a.cur + " != " + b.cur)
	}
	return a.cur
}

// MarshalJSON encodes money as {"currency":"BRL","amount":123.45}, the
// amount rounded to the currency's minor unit and unquoted.
func (m Money) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("currency", m.cur)
	w.Append("amount", m.value.Round(int32(m.currency().Fraction)))
	return w.MarshalJSON()
}

// UnmarshalJSON accepts either the object form written by MarshalJSON
// or a bare number (older data files).
func (m *Money) UnmarshalJSON(data []byte) error {
	var obj struct {
		Amount   decimal.Decimal `json:"amount"`
		Currency string          `json:"currency"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		if obj.Currency == "" {
			obj.Currency = DefaultCurrency
		}
		*m = Money{value: obj.Amount, cur: obj.Currency}
		return nil
	}
	var d decimal.Decimal
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("invalid money value %q: %w", string(data), err)
	}
	*m = Money{value: d, cur: DefaultCurrency}
	return nil
}

var _ json.Marshaler = Money{}
var _ json.Unmarshaler = (*Money)(nil)
