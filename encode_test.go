package homefin

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	l := billsFixture(t)
	addTx(t, l, NewTransaction(MustParse("2025-06-01"), "checking", FlowIn, OpRevenue, M(8000), "salary", "salário"))
	if _, _, err := l.AddTransferPair(MustParse("2025-06-03"), "checking", "savings", OpTransfer, M(500), "ted"); err != nil {
		t.Fatal(err)
	}
	if err := l.AddVehicle(Vehicle{ID: "civic", Label: "Civic", PurchasedOn: MustParse("2024-03-01"), ReferenceValue: M(85000)}); err != nil {
		t.Fatal(err)
	}
	if err := l.AddRule(Rule{ID: "uber", Match: "uber", CategoryID: "transport"}); err != nil {
		t.Fatal(err)
	}
	if _, err := l.ImportStatement("checking", "extrato.json", []RawLine{
		{Date: MustParse("2025-06-04"), Amount: decimal.NewFromFloat(-42), Description: "PADARIA"},
	}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := EncodeLedger(&buf, l); err != nil {
		t.Fatal(err)
	}
	got, err := DecodeLedger(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("decode: %v\nfile was:\n%s", err, buf.String())
	}

	on := MustParse("2025-06-30")
	for a := range l.Accounts() {
		if want, have := l.BalanceOn(a.ID, on), got.BalanceOn(a.ID, on); !want.Equal(have) {
			t.Errorf("balance of %s after roundtrip = %s, want %s", a.ID, have, want)
		}
	}
	if len(got.transactions) != len(l.transactions) {
		t.Errorf("transactions = %d, want %d", len(got.transactions), len(l.transactions))
	}
	for i, tx := range l.transactions {
		if !tx.Equal(got.transactions[i]) {
			t.Errorf("transaction %d changed in roundtrip:\n got %+v\nwant %+v", i, got.transactions[i], tx)
		}
	}
	if len(got.bills) != 1 || got.bills[0].Label != "Dentista" {
		t.Errorf("bills after roundtrip: %+v", got.bills)
	}
	if len(got.rules) != 1 || len(got.statements) != 1 {
		t.Errorf("rules=%d statements=%d, want 1 and 1", len(got.rules), len(got.statements))
	}
	loan, ok := got.Loan("car")
	if !ok {
		t.Fatal("loan lost in roundtrip")
	}
	if !loan.MonthlyRate.Equal(rate(0.02)) {
		t.Errorf("loan rate after roundtrip = %s", loan.MonthlyRate)
	}

	// A second encode of the decoded state is byte-identical.
	var buf2 bytes.Buffer
	if err := EncodeLedger(&buf2, got); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf.Bytes(), buf2.Bytes()) {
		t.Error("encoding is not deterministic across a roundtrip")
	}
}

func TestSaveAndLoadLedger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ledger.json")

	// A missing file is a fresh start, not an error.
	l, err := LoadLedger(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.AddAccount(Account{ID: "checking", Name: "Conta", Type: Checking, OpenedOn: MustParse("2024-01-01")}); err != nil {
		t.Fatal(err)
	}
	if err := SaveLedger(path, l); err != nil {
		t.Fatal(err)
	}

	got, err := LoadLedger(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got.Account("checking"); !ok {
		t.Error("account lost across save/load")
	}
}

func TestDecodeRejectsBrokenState(t *testing.T) {
	tests := []struct {
		name string
		file string
	}{
		{"orphan transfer leg", `{
			"format": 1,
			"accounts": [{"id":"a","name":"A","type":"checking","openedOn":"2024-01-01"}],
			"transactions": [{"id":"t1","date":"2025-01-01","accountId":"a","flow":"transfer_out","operation":"transfer","amount":10,"links":{"transferGroupId":"g1"}}]
		}`},
		{"unknown account reference", `{
			"format": 1,
			"transactions": [{"id":"t1","date":"2025-01-01","accountId":"ghost","flow":"out","operation":"expense","amount":10}]
		}`},
		{"future format", `{"format": 99}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeLedger(bytes.NewReader([]byte(tt.file))); err == nil {
				t.Error("broken file accepted")
			}
		})
	}
}
