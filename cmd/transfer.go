package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"
	"github.com/homefin/homefin"
)

type transferCmd struct {
	kind   string
	from   string
	to     string
	amount string
	date   string
}

func (*transferCmd) Name() string { return "transfer" }
func (*transferCmd) Synopsis() string {
	return "move money between accounts as a balanced pair of legs"
}
func (*transferCmd) Usage() string {
	return `hf transfer [-k <transfer|invest|withdraw>] -from <account> -to <account> -v <amount> [-d <date>] [description]

  Records the two legs of a transfer atomically. A transfer into a
  credit-card account is the monthly statement payment and reduces the
  card's payable.

Usage Examples:
$ hf transfer -from checking -to savings -v 1000 "guardado do mês"
$ hf transfer -k invest -from checking -to tesouro -v 500
$ hf transfer -from checking -to card -v 1830.44 "fatura de julho"
`
}

func (p *transferCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.kind, "k", "transfer", "Kind of move: transfer, invest or withdraw.")
	f.StringVar(&p.from, "from", "", "Source account.")
	f.StringVar(&p.to, "to", "", "Destination account.")
	f.StringVar(&p.amount, "v", "", "Amount, e.g. 1000.00.")
	f.StringVar(&p.date, "d", "", "Date of the move (defaults to today).")
}

func (p *transferCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var op homefin.OperationType
	switch p.kind {
	case "transfer":
		op = homefin.OpTransfer
	case "invest":
		op = homefin.OpInvestContribution
	case "withdraw":
		op = homefin.OpInvestWithdrawal
	default:
		return fail(fmt.Errorf("unknown kind %q, want transfer, invest or withdraw", p.kind))
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

	out, _, err := l.AddTransferPair(day, p.from, p.to, op, amount, strings.Join(f.Args(), " "))
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Moved %s from %s to %s on %s\n", amount, p.from, p.to, out.Date)
	return saveLedger(l)
}
