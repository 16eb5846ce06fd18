package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"
	"github.com/homefin/homefin"
)

type addCmd struct {
	kind     string
	account  string
	category string
	amount   string
	date     string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record a revenue, expense or yield transaction" }
func (*addCmd) Usage() string {
	return `hf add -k <expense|revenue|yield> -a <account> -v <amount> [-c <category>] [-d <date>] <description>

  Records a single cash movement in the ledger.

Usage Examples:
$ hf add -k expense -a checking -c groceries -v 245.80 "mercado da semana"
$ hf add -k revenue -a checking -c salary -v 8000 "salário de julho"
`
}

func (p *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.kind, "k", "expense", "Kind of movement: expense, revenue or yield.")
	f.StringVar(&p.account, "a", "", "Account the money moves through.")
	f.StringVar(&p.category, "c", "", "Category id.")
	f.StringVar(&p.amount, "v", "", "Amount, e.g. 245.80.")
	f.StringVar(&p.date, "d", "", "Date of the movement (defaults to today).")
}

func (p *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	op, flow, err := parseKind(p.kind)
	if err != nil {
		return fail(err)
	}
	day, err := parseDay(p.date)
	if err != nil {
		return fail(err)
	}
	amount, err := parseAmount(p.amount)
	if err != nil {
		return fail(err)
	}
	l, err := loadLedger()
	if err != nil {
		return fail(err)
	}

	tx := homefin.NewTransaction(day, p.account, flow, op, amount, p.category, strings.Join(f.Args(), " "))
	if err := l.AddTransaction(tx); err != nil {
		return fail(err)
	}
	fmt.Printf("Recorded %s of %s on %s\n", op, amount, day)
	return saveLedger(l)
}

func parseKind(kind string) (homefin.OperationType, homefin.Flow, error) {
	switch kind {
	case "expense":
		return homefin.OpExpense, homefin.FlowOut, nil
	case "revenue":
		return homefin.OpRevenue, homefin.FlowIn, nil
	case "yield":
		return homefin.OpYield, homefin.FlowIn, nil
	default:
		return 0, 0, fmt.Errorf("unknown kind %q, want expense, revenue or yield", kind)
	}
}
