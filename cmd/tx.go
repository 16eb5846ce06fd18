package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/homefin/homefin"
	"github.com/homefin/homefin/renderer"
)

type txCmd struct {
	period  string
	start   string
	date    string
	account string
	del     string
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list transactions in the ledger" }
func (*txCmd) Usage() string {
	return `hf tx [-p <period> | -s <start_date>] [-d <end_date>] [-a <account>] [-delete <id>]

  Lists transactions from the ledger, with options for filtering.
  With -delete, removes a transaction instead (cascading to the paired
  transfer leg and to any paid-mark it backed).
`
}

func (p *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.period, "p", "", "Predefined period (day, week, month, quarter, year).")
	f.StringVar(&p.start, "s", "", "The start date for a custom range. Overrides -p.")
	f.StringVar(&p.date, "d", "", "The end date for the range.")
	f.StringVar(&p.account, "a", "", "Only transactions of this account.")
	f.StringVar(&p.del, "delete", "", "Delete the transaction with this id.")
}

func (p *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, err := loadLedger()
	if err != nil {
		return fail(err)
	}

	if p.del != "" {
		if err := l.DeleteTransaction(p.del); err != nil {
			return fail(err)
		}
		fmt.Printf("Deleted transaction %s\n", p.del)
		return saveLedger(l)
	}

	var filters []func(homefin.Transaction) bool
	useFullRange := p.start == "" && p.date == "" && p.period == ""
	if !useFullRange {
		end, err := parseDay(p.date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing end date: %v\n", err)
			return subcommands.ExitFailure
		}
		var r homefin.Range
		if p.start != "" {
			start, err := homefin.ParseDate(p.start)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
				return subcommands.ExitFailure
			}
			r = homefin.NewRange(start, end)
		} else {
			period, err := homefin.ParsePeriod(p.period)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
				return subcommands.ExitFailure
			}
			r = period.Range(end)
		}
		filters = append(filters, homefin.ByRange(r))
	}

	var transactions []homefin.Transaction
	for _, tx := range l.Transactions(filters...) {
		if p.account == "" || tx.AccountID == p.account {
			transactions = append(transactions, tx)
		}
	}
	printMarkdown(renderer.Transactions(transactions))
	return subcommands.ExitSuccess
}
