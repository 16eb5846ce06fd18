package homefin

import (
	"encoding/json"
	"testing"
)

func TestMoneyFormatting(t *testing.T) {
	tests := []struct {
		name string
		m    Money
		want string
	}{
		{"brl with grouping", M(1234.56), "R$1.234,56"},
		{"negative", M(-10.5), "-R$10,50"},
		{"zero", M(0), "R$0,00"},
		{"explicit currency", MC(99.9, "EUR"), "€99.90"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMoneySignedString(t *testing.T) {
	if got := M(10).SignedString(); got != "+R$10,00" {
		t.Errorf("positive = %q", got)
	}
	if got := M(0).SignedString(); got != "-" {
		t.Errorf("zero = %q", got)
	}
	if got := M(-10).SignedString(); got != "-R$10,00" {
		t.Errorf("negative = %q", got)
	}
}

func TestMoneyRounding(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{2.674, 2.67},
		{2.675, 2.68}, // half rounds away from zero
		{-2.675, -2.68},
		{240.0, 240.0},
	}
	for _, tt := range tests {
		checkMoney(t, "Round", M(tt.in).Round(), tt.want)
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := M(100.10)
	b := M(0.20)
	checkMoney(t, "Add", a.Add(b), 100.30)
	checkMoney(t, "Sub", a.Sub(b), 99.90)
	checkMoney(t, "MulDec", M(12000).MulDec(rate(0.02)), 240)
	checkMoney(t, "DivInt", M(2400).DivInt(12), 200)
	checkMoney(t, "Neg", b.Neg(), -0.20)
	checkMoney(t, "Abs", b.Neg().Abs(), 0.20)

	// The zero value is currency-weak: it adopts the other operand.
	var zero Money
	if got := zero.Add(MC(5, "EUR")); got.Currency() != "EUR" {
		t.Errorf("weak add currency = %s", got.Currency())
	}
}

func TestMoneyJSON(t *testing.T) {
	data, err := json.Marshal(M(1134.715))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"currency":"BRL","amount":1134.72}` {
		t.Errorf("Marshal = %s", data)
	}

	var m Money
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	checkMoney(t, "object roundtrip", m, 1134.72)

	// Bare numbers from older files still decode.
	var bare Money
	if err := json.Unmarshal([]byte(`42.5`), &bare); err != nil {
		t.Fatal(err)
	}
	checkMoney(t, "bare number", bare, 42.5)
	if bare.Currency() != "BRL" {
		t.Errorf("bare number currency = %s, want BRL", bare.Currency())
	}
}
