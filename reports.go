package homefin

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RatioBand classifies a health indicator against its thresholds.
type RatioBand int

const (
	RatioUnknown RatioBand = iota // denominator was zero
	RatioGood
	RatioWatch
	RatioBad
)

func (b RatioBand) String() string {
	switch b {
	case RatioGood:
		return "good"
	case RatioWatch:
		return "watch"
	case RatioBad:
		return "bad"
	default:
		return "n/a"
	}
}

// Ratio is one financial health indicator. A zero denominator produces
// an undefined ratio, never a division panic or a fake zero: an empty
// ledger has no savings rate.
type Ratio struct {
	Name    string
	Value   decimal.Decimal
	Defined bool
	Percent bool // render as percentage instead of plain multiple
	Inverse bool // lower is better
	Warn    decimal.Decimal
	Bad     decimal.Decimal
}

// newRatio divides num by den, undefined when den is zero.
func newRatio(name string, num, den Money) Ratio {
	r := Ratio{Name: name}
	if den.IsZero() {
		return r
	}
	r.Defined = true
	r.Value = num.Decimal().Div(den.Decimal())
	return r
}

// Band classifies the ratio against its thresholds.
func (r Ratio) Band() RatioBand {
	if !r.Defined {
		return RatioUnknown
	}
	if r.Inverse {
		switch {
		case r.Value.LessThanOrEqual(r.Warn):
			return RatioGood
		case r.Value.LessThanOrEqual(r.Bad):
			return RatioWatch
		default:
			return RatioBad
		}
	}
	switch {
	case r.Value.GreaterThanOrEqual(r.Warn):
		return RatioGood
	case r.Value.GreaterThanOrEqual(r.Bad):
		return RatioWatch
	default:
		return RatioBad
	}
}

// Trend says whether a ratio moved the right way between two periods.
type Trend int

const (
	TrendFlat Trend = iota
	TrendImproving
	TrendWorsening
)

func (t Trend) String() string {
	switch t {
	case TrendImproving:
		return "improving"
	case TrendWorsening:
		return "worsening"
	default:
		return "flat"
	}
}

// TrendAgainst compares the ratio with its previous-period value. A
// rising value improves a higher-is-better ratio and worsens a
// lower-is-better one; the Inverse flag flips the direction. Undefined
// on either side reads as flat.
func (r Ratio) TrendAgainst(prev Ratio) Trend {
	if !r.Defined || !prev.Defined {
		return TrendFlat
	}
	cmp := r.Value.Cmp(prev.Value)
	if cmp == 0 {
		return TrendFlat
	}
	up := cmp > 0
	if r.Inverse {
		up = !up
	}
	if up {
		return TrendImproving
	}
	return TrendWorsening
}

// String renders "23.4%" or "3.2x", or "n/a" when undefined.
func (r Ratio) String() string {
	if !r.Defined {
		return "n/a"
	}
	if r.Percent {
		return fmt.Sprintf("%s%%", r.Value.Mul(decimal.NewFromInt(100)).Round(1))
	}
	return fmt.Sprintf("%sx", r.Value.Round(1))
}

// PeriodReport bundles the accrual statement, the closing balance
// sheet and the health ratios of one period.
type PeriodReport struct {
	Range  Range
	Income IncomeStatement
	Sheet  BalanceSheet
	Ratios []Ratio
}

// ReportFor builds the full report of a period. The balance sheet is
// taken at the period's closing date.
func (l *Ledger) ReportFor(r Range) PeriodReport {
	income := l.IncomeStatementFor(r)
	sheet := l.BalanceSheetOn(r.To)

	savings := newRatio("savings rate", income.Result, income.TotalRevenue)
	savings.Percent = true
	savings.Warn = decimal.NewFromFloat(0.20)
	savings.Bad = decimal.NewFromFloat(0.05)

	debt := newRatio("debt to assets", sheet.TotalLiabilities, sheet.TotalAssets)
	debt.Percent = true
	debt.Inverse = true
	debt.Warn = decimal.NewFromFloat(0.30)
	debt.Bad = decimal.NewFromFloat(0.50)

	fixedLoad := newRatio("fixed expense load", income.TotalFixed, income.TotalRevenue)
	fixedLoad.Percent = true
	fixedLoad.Inverse = true
	fixedLoad.Warn = decimal.NewFromFloat(0.50)
	fixedLoad.Bad = decimal.NewFromFloat(0.70)

	// Debt to income: months of revenue it would take to clear every
	// liability.
	months := r.MonthCount()
	monthlyRevenue := income.TotalRevenue
	if months > 1 {
		monthlyRevenue = monthlyRevenue.DivInt(months)
	}
	debtToIncome := newRatio("debt to income", sheet.TotalLiabilities, monthlyRevenue)
	debtToIncome.Inverse = true
	debtToIncome.Warn = decimal.NewFromInt(6)
	debtToIncome.Bad = decimal.NewFromInt(12)

	// Emergency coverage: months of total expenses the reserve covers.
	reserve := M(0)
	for a := range l.Accounts() {
		if a.Type == EmergencyReserve {
			reserve = reserve.Add(l.Snapshot().BalanceOn(a.ID, r.To))
		}
	}
	monthly := income.TotalExpense
	if months > 1 {
		monthly = monthly.DivInt(months)
	}
	coverage := newRatio("emergency coverage", reserve, monthly)
	coverage.Warn = decimal.NewFromInt(6)
	coverage.Bad = decimal.NewFromInt(3)

	return PeriodReport{
		Range:  r,
		Income: income,
		Sheet:  sheet,
		Ratios: []Ratio{savings, debt, debtToIncome, fixedLoad, coverage},
	}
}

// Comparison puts two period reports side by side, usually a month and
// the one before it.
type Comparison struct {
	Current  PeriodReport
	Previous PeriodReport
}

// ResultDelta is how much the period result moved.
func (c Comparison) ResultDelta() Money {
	return c.Current.Income.Result.Sub(c.Previous.Income.Result)
}

// NetWorthDelta is how much net worth moved between the closing dates.
func (c Comparison) NetWorthDelta() Money {
	return c.Current.Sheet.NetWorth.Sub(c.Previous.Sheet.NetWorth)
}

// RatioTrend pairs a ratio with its previous-period value and the
// direction it moved.
type RatioTrend struct {
	Current  Ratio
	Previous Ratio
	Trend    Trend
}

// RatioTrends lines the two periods' ratios up by position and
// classifies each movement.
func (c Comparison) RatioTrends() []RatioTrend {
	out := make([]RatioTrend, 0, len(c.Current.Ratios))
	for i, r := range c.Current.Ratios {
		var prev Ratio
		if i < len(c.Previous.Ratios) {
			prev = c.Previous.Ratios[i]
		}
		out = append(out, RatioTrend{Current: r, Previous: prev, Trend: r.TrendAgainst(prev)})
	}
	return out
}

// Compare builds the two reports of a side-by-side view.
func (l *Ledger) Compare(current, previous Range) Comparison {
	return Comparison{
		Current:  l.ReportFor(current),
		Previous: l.ReportFor(previous),
	}
}
