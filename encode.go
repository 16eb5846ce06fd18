package homefin

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// fileFormat is bumped when the on-disk shape changes incompatibly.
const fileFormat = 1

// ledgerFile is the on-disk shape: one JSON document holding the whole
// household. Field order here is the key order in the file, so diffs
// stay readable under version control.
type ledgerFile struct {
	Format       int                  `json:"format"`
	Accounts     []Account            `json:"accounts,omitempty"`
	Categories   []Category           `json:"categories,omitempty"`
	Loans        []Loan               `json:"loans,omitempty"`
	Policies     []InsurancePolicy    `json:"policies,omitempty"`
	Vehicles     []Vehicle            `json:"vehicles,omitempty"`
	Transactions []Transaction        `json:"transactions,omitempty"`
	Bills        []BillEntry          `json:"bills,omitempty"`
	Statements   []*ImportedStatement `json:"statements,omitempty"`
	Rules        []Rule               `json:"rules,omitempty"`
}

// EncodeLedger writes the ledger as indented JSON. Entity lists come
// out in stable id order and transactions in chronological order, so
// encoding the same state twice produces the same bytes.
func EncodeLedger(w io.Writer, l *Ledger) error {
	f := ledgerFile{
		Format:       fileFormat,
		Transactions: l.transactions,
		Bills:        l.bills,
		Rules:        l.rules,
	}
	for a := range l.Accounts() {
		f.Accounts = append(f.Accounts, a)
	}
	for c := range l.Categories() {
		f.Categories = append(f.Categories, c)
	}
	for loan := range l.Loans() {
		f.Loans = append(f.Loans, loan)
	}
	for p := range l.Policies() {
		f.Policies = append(f.Policies, p)
	}
	for v := range l.Vehicles() {
		f.Vehicles = append(f.Vehicles, v)
	}
	f.Statements = l.Statements()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(f)
}

// DecodeLedger reads the shape written by EncodeLedger and checks the
// store's invariants before handing it back, so a hand-edited file
// cannot smuggle in a broken state.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	var f ledgerFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("cannot decode ledger file: %w", err)
	}
	if f.Format > fileFormat {
		return nil, fmt.Errorf("ledger file format %d is newer than supported %d", f.Format, fileFormat)
	}
	l := NewLedger()
	for _, a := range f.Accounts {
		if err := a.Validate(); err != nil {
			return nil, err
		}
		l.accounts[a.ID] = a
	}
	for _, c := range f.Categories {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		l.categories[c.ID] = c
	}
	for _, loan := range f.Loans {
		if err := loan.Validate(); err != nil {
			return nil, err
		}
		l.loans[loan.ID] = loan
	}
	for _, p := range f.Policies {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		l.policies[p.ID] = p
	}
	for _, v := range f.Vehicles {
		if err := v.Validate(); err != nil {
			return nil, err
		}
		l.vehicles[v.ID] = v
	}
	for _, b := range f.Bills {
		if err := b.Validate(); err != nil {
			return nil, err
		}
	}
	l.bills = f.Bills
	for _, rule := range f.Rules {
		if err := rule.Validate(); err != nil {
			return nil, err
		}
	}
	l.rules = f.Rules
	for _, st := range f.Statements {
		l.statements[st.ID] = st
	}
	l.transactions = f.Transactions
	l.stableSort()
	if err := l.CheckInvariants(); err != nil {
		return nil, fmt.Errorf("ledger file is inconsistent: %w", err)
	}
	return l, nil
}

// LoadLedger reads the ledger at path. A missing file yields a fresh
// empty ledger: first run needs no init step.
func LoadLedger(path string) (*Ledger, error) {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return NewLedger(), nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()
	l, err := DecodeLedger(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// SaveLedger writes the ledger to path atomically: encode to a
// temporary file next to the target, then rename over it. A crash
// mid-write never corrupts the previous good file.
func SaveLedger(path string, l *Ledger) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := EncodeLedger(tmp, l); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
