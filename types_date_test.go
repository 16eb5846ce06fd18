package homefin

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want Date
		ok   bool
	}{
		{"2025-07-01", NewDate(2025, time.July, 1), true},
		{"2025-7-1", NewDate(2025, time.July, 1), true},
		{" 2025-07-01 ", NewDate(2025, time.July, 1), true},
		{"2025-07-01T14:30:00Z", NewDate(2025, time.July, 1), true},
		{"01/07/2025", Date{}, false},
		{"", Date{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.ok && (err != nil || got != tt.want) {
				t.Errorf("ParseDate(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
			}
			if !tt.ok && err == nil {
				t.Errorf("ParseDate(%q) accepted", tt.in)
			}
		})
	}
}

func TestDateArithmetic(t *testing.T) {
	d := MustParse("2025-01-31")
	if got := d.Add(1); got != MustParse("2025-02-01") {
		t.Errorf("Add(1) = %s", got)
	}
	if got := MustParse("2025-03-15").AddMonth(2); got != MustParse("2025-05-15") {
		t.Errorf("AddMonth(2) = %s", got)
	}
	if got := MustParse("2025-03-15").MonthsSince(MustParse("2024-12-20")); got != 3 {
		t.Errorf("MonthsSince = %d, want 3", got)
	}
	if got := MustParse("2025-02-10").StartOf(Monthly); got != MustParse("2025-02-01") {
		t.Errorf("StartOf(Monthly) = %s", got)
	}
	if got := MustParse("2025-02-10").EndOf(Monthly); got != MustParse("2025-02-28") {
		t.Errorf("EndOf(Monthly) = %s", got)
	}
	if got := MustParse("2024-02-10").EndOf(Monthly); got != MustParse("2024-02-29") {
		t.Errorf("leap EndOf(Monthly) = %s", got)
	}
}

func TestRange(t *testing.T) {
	r := MonthOf(MustParse("2025-06-15"))
	if r.From != MustParse("2025-06-01") || r.To != MustParse("2025-06-30") {
		t.Fatalf("MonthOf = %s..%s", r.From, r.To)
	}
	if !r.Contains(r.From) || !r.Contains(r.To) {
		t.Error("range boundaries must be inclusive")
	}
	if r.Contains(MustParse("2025-07-01")) {
		t.Error("day after the range contained")
	}
	if got := r.Identifier(); got != "2025-June" {
		t.Errorf("Identifier = %q", got)
	}

	// Swapped bounds are normalized.
	swapped := NewRange(MustParse("2025-06-30"), MustParse("2025-06-01"))
	if swapped != r {
		t.Errorf("NewRange with swapped bounds = %s..%s", swapped.From, swapped.To)
	}

	half := NewRange(MustParse("2025-01-15"), MustParse("2025-04-02"))
	if got := half.MonthCount(); got != 4 {
		t.Errorf("MonthCount = %d, want 4", got)
	}
}

func TestDateJSON(t *testing.T) {
	d := MustParse("2025-06-09")
	data, err := d.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"2025-06-09"` {
		t.Errorf("MarshalJSON = %s", data)
	}
	var back Date
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatal(err)
	}
	if back != d {
		t.Errorf("roundtrip = %s, want %s", back, d)
	}

	// The zero date is an empty string both ways.
	zero, err := Date{}.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(zero) != `""` {
		t.Errorf("zero MarshalJSON = %s", zero)
	}
	var z Date
	if err := z.UnmarshalJSON([]byte(`""`)); err != nil || !z.IsZero() {
		t.Errorf("zero roundtrip = %v, %v", z, err)
	}
}
