package homefin

import (
	"fmt"
	"strings"
)

// Period is a standard reporting period length.
type Period int

const (
	Daily Period = iota
	Weekly
	Monthly
	Quarterly
	Yearly
)

func (p Period) String() string {
	switch p {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	case Quarterly:
		return "quarterly"
	case Yearly:
		return "yearly"
	default:
		return "periodic"
	}
}

// Name returns the singular noun for the period (e.g., "day", "month").
func (p Period) Name() string {
	switch p {
	case Daily:
		return "day"
	case Weekly:
		return "week"
	case Monthly:
		return "month"
	case Quarterly:
		return "quarter"
	case Yearly:
		return "year"
	default:
		return "period"
	}
}

// Range returns the Range for the given period containing the date d.
func (p Period) Range(d Date) Range {
	return Range{From: d.StartOf(p), To: d.EndOf(p)}
}

func ParsePeriod(p string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case "daily", "day":
		return Daily, nil
	case "weekly", "week":
		return Weekly, nil
	case "monthly", "month":
		return Monthly, nil
	case "quarterly", "quarter":
		return Quarterly, nil
	case "yearly", "year":
		return Yearly, nil
	default:
		return Daily, fmt.Errorf("unknown period %s", p)
	}
}
