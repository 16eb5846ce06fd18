package homefin

import (
	"fmt"
	"iter"
)

// Range represents an inclusive range of dates.
type Range struct{ From, To Date }

// NewRange creates a new date range. If 'from' is after 'to', they are swapped.
func NewRange(from, to Date) Range {
	if from.After(to) {
		from, to = to, from
	}
	return Range{From: from, To: to}
}

// MonthOf returns the range covering the whole calendar month containing d.
func MonthOf(d Date) Range { return Monthly.Range(d) }

// Contains returns true if date is included in the range (boundaries included).
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// Days returns an iterator that yields each date within the range, inclusive.
func (r Range) Days() iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for d := r.From; !d.After(r.To); d = d.Add(1) {
			if !yield(d) {
				return
			}
		}
	}
}

// Months returns an iterator that yields the first day of each calendar
// month that overlaps the range. Insurance proration and bill
// generation walk report ranges month by month with it.
func (r Range) Months() iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for m := r.From.StartOf(Monthly); !m.After(r.To); m = m.AddMonth(1) {
			if !yield(m) {
				return
			}
		}
	}
}

// MonthCount returns how many calendar months overlap the range.
func (r Range) MonthCount() int {
	n := 0
	for range r.Months() {
		n++
	}
	return n
}

// Periods returns an iterator that yields each sequential range of a
// given period 'p' that contains at least one day within r.
func (r Range) Periods(p Period) iter.Seq[Range] {
	return func(yield func(Range) bool) {
		for current := r.From; !current.After(r.To); {
			periodRange := p.Range(current)
			if !yield(periodRange) {
				return
			}
			current = periodRange.To.Add(1)
		}
	}
}

// Identifier computes a short unique identifier for the range, used in
// report titles (e.g. "2024-May" for a whole month).
func (r Range) Identifier() string {
	switch {
	case r.From == r.To:
		return r.From.String()
	case r.From.Day() == 1 && r.From.EndOf(Monthly) == r.To:
		return r.From.Format("2006-January")
	case r.From.StartOf(Yearly) == r.From && r.From.EndOf(Yearly) == r.To:
		return r.From.Format("2006")
	default:
		return fmt.Sprintf("%s_%s", r.From, r.To)
	}
}
