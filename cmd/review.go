package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/homefin/homefin"
	"github.com/homefin/homefin/renderer"
)

type reviewCmd struct {
	statement string
	line      string
	operation string
	category  string
	counter   string
	loan      string
	vehicle   string
	ignore    bool
	keep      bool
	commit    bool
}

func (*reviewCmd) Name() string     { return "review" }
func (*reviewCmd) Synopsis() string { return "review imported statement lines and turn them into transactions" }
func (*reviewCmd) Usage() string {
	return `hf review [-st <statement>]
hf review -st <statement> -line <line> [-op <operation>] [-c <category>] [-to <account>] [-loan <id>] [-vehicle <id>] [-ignore] [-keep]
hf review -st <statement> -commit

  Without flags, lists statements in progress (or the pending lines of
  one). Line decisions set the operation and its linkage: a transfer
  needs the counterparty account (-to), a loan payment the loan id.
  -keep clears a duplicate flag so the line commits anyway. -commit
  expands every decided line into ledger transactions; lines already
  contabilized are skipped, so committing twice is harmless.

Usage Examples:
$ hf review -st 4f1c... -line 2 -op transfer -to savings
$ hf review -st 4f1c... -commit
`
}

func (p *reviewCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.statement, "st", "", "Statement to work on.")
	f.StringVar(&p.line, "line", "", "Line to decide, by number or id.")
	f.StringVar(&p.operation, "op", "", "Operation for the line: expense, revenue, transfer, loan-payment, loan-disbursement, vehicle, yield.")
	f.StringVar(&p.category, "c", "", "Category for the line.")
	f.StringVar(&p.counter, "to", "", "Counterparty account of a transfer line.")
	f.StringVar(&p.loan, "loan", "", "Loan behind a loan-payment line.")
	f.StringVar(&p.vehicle, "vehicle", "", "Vehicle behind a vehicle line.")
	f.BoolVar(&p.ignore, "ignore", false, "Exclude the line from commit.")
	f.BoolVar(&p.keep, "keep", false, "Clear the duplicate flag and keep the line.")
	f.BoolVar(&p.commit, "commit", false, "Expand every decided line into transactions.")
}

func (p *reviewCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, err := loadLedger()
	if err != nil {
		return fail(err)
	}

	if p.statement == "" {
		printMarkdown(renderer.Statements(l))
		return subcommands.ExitSuccess
	}

	switch {
	case p.commit:
		created, err := l.CommitReview(p.statement)
		if err != nil {
			return fail(err)
		}
		fmt.Printf("Created %d transactions\n", created)
		return saveLedger(l)

	case p.line != "":
		return p.executeLine(l)

	default:
		st, ok := l.Statement(p.statement)
		if !ok {
			return fail(fmt.Errorf("unknown statement %q", p.statement))
		}
		printMarkdown(renderer.Review(st))
		return subcommands.ExitSuccess
	}
}

func (p *reviewCmd) executeLine(l *homefin.Ledger) subcommands.ExitStatus {
	st, ok := l.Statement(p.statement)
	if !ok {
		return fail(fmt.Errorf("unknown statement %q", p.statement))
	}
	line, err := findLine(st, p.line)
	if err != nil {
		return fail(err)
	}

	if p.operation != "" {
		if line.Operation, err = homefin.ParseOperationType(p.operation); err != nil {
			return fail(err)
		}
	}
	if p.category != "" {
		line.CategoryID = p.category
	}
	if p.counter != "" {
		line.CounterAccountID = p.counter
	}
	if p.loan != "" {
		line.LoanID = p.loan
	}
	if p.vehicle != "" {
		line.VehicleID = p.vehicle
	}
	if p.ignore {
		line.Ignore = true
	}
	if p.keep {
		line.Duplicate = false
		line.Ignore = false
	}
	if err := l.UpdateLine(st.ID, line); err != nil {
		return fail(err)
	}
	fmt.Printf("Updated line %s\n", line.ID)
	return saveLedger(l)
}

// findLine resolves a line by 1-based position or by id.
func findLine(st *homefin.ImportedStatement, key string) (homefin.ImportedLine, error) {
	for i, ln := range st.Lines {
		if ln.ID == key || fmt.Sprint(i+1) == key {
			return ln, nil
		}
	}
	return homefin.ImportedLine{}, fmt.Errorf("no line %q in statement %s", key, st.ID)
}
