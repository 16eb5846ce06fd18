package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/homefin/homefin"
	"github.com/homefin/homefin/renderer"
)

type reportCmd struct {
	period  string
	date    string
	compare bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "accrual report: income statement, balance sheet and health ratios" }
func (*reportCmd) Usage() string {
	return `hf report [-p <period>] [-d <date>] [-compare]

  Builds the accrual view of the period containing the date: the income
  statement (loan interest and prorated insurance instead of cash
  events), the closing balance sheet and the health ratios. With
  -compare, the previous period is shown side by side.

Usage Examples:
$ hf report
$ hf report -p month -d 2025-07-15 -compare
$ hf report -p year -d 2025-12-31
`
}

func (p *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.period, "p", "month", "Period of the report (day, week, month, quarter, year).")
	f.StringVar(&p.date, "d", "", "A date inside the period (defaults to today).")
	f.BoolVar(&p.compare, "compare", false, "Also show the previous period.")
}

func (p *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, err := parseDay(p.date)
	if err != nil {
		return fail(err)
	}
	period, err := homefin.ParsePeriod(p.period)
	if err != nil {
		return fail(err)
	}
	l, err := loadLedger()
	if err != nil {
		return fail(err)
	}

	r := period.Range(day)
	if p.compare {
		previous := period.Range(r.From.Add(-1))
		printMarkdown(renderer.Comparison(l.Compare(r, previous)))
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.Report(l.ReportFor(r)))
	return subcommands.ExitSuccess
}
