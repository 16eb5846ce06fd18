package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/homefin/homefin"
	"github.com/homefin/homefin/renderer"
	"github.com/shopspring/decimal"
)

type loansCmd struct {
	add       string
	label     string
	principal string
	rate      string
	months    int
	starts    string
	account   string
	legacy    int

	schedule string
	pay      string
	amount   string
	date     string
	number   int
	unpay    string
}

func (*loansCmd) Name() string     { return "loans" }
func (*loansCmd) Synopsis() string { return "manage fixed-rate loans and their amortization" }
func (*loansCmd) Usage() string {
	return `hf loans
hf loans -add <id> -label <label> -principal <amount> -rate <monthly_rate> -months <n> -starts <date> -a <account>
hf loans -schedule <id>
hf loans -pay <id> [-v <amount>] [-d <date>] [-n <installment>]
hf loans -unpay <id>

  Loans amortize with the Price method: constant installment, shifting
  interest/principal split. The schedule is always derived from the
  contract; -pay records a payment transaction linked to the next
  unpaid installment (or the one given with -n).

Usage Examples:
$ hf loans -add car -label "Financiamento do carro" -principal 12000 -rate 0.02 -months 12 -starts 2025-06-10 -a checking
$ hf loans -schedule car
$ hf loans -pay car
`
}

func (p *loansCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.add, "add", "", "Register or reconfigure the loan with this id.")
	f.StringVar(&p.label, "label", "", "Display label of the loan.")
	f.StringVar(&p.principal, "principal", "", "Principal amount of the contract.")
	f.StringVar(&p.rate, "rate", "", "Monthly interest rate, e.g. 0.02 for 2%.")
	f.IntVar(&p.months, "months", 0, "Term in months.")
	f.StringVar(&p.starts, "starts", "", "Due date of the first installment.")
	f.StringVar(&p.account, "a", "", "Account the installments are paid from.")
	f.IntVar(&p.legacy, "paid", 0, "Installments already paid before tracking started.")

	f.StringVar(&p.schedule, "schedule", "", "Show the amortization schedule of a loan.")
	f.StringVar(&p.pay, "pay", "", "Record an installment payment for a loan.")
	f.StringVar(&p.amount, "v", "", "Amount actually paid (defaults to the scheduled installment).")
	f.StringVar(&p.date, "d", "", "Payment date (defaults to today).")
	f.IntVar(&p.number, "n", 0, "Installment number (defaults to the next unpaid one).")
	f.StringVar(&p.unpay, "unpay", "", "Remove the latest recorded payment of a loan.")
}

func (p *loansCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, err := loadLedger()
	if err != nil {
		return fail(err)
	}

	switch {
	case p.add != "":
		return p.executeAdd(l)
	case p.schedule != "":
		printMarkdown(renderer.Schedule(l, p.schedule))
		return subcommands.ExitSuccess
	case p.pay != "":
		return p.executePay(l)
	case p.unpay != "":
		if err := l.UnmarkInstallmentPaid(p.unpay); err != nil {
			return fail(err)
		}
		fmt.Printf("Removed the latest payment of loan %s\n", p.unpay)
		return saveLedger(l)
	default:
		printMarkdown(renderer.Loans(l))
		return subcommands.ExitSuccess
	}
}

func (p *loansCmd) executeAdd(l *homefin.Ledger) subcommands.ExitStatus {
	principal, err := parseAmount(p.principal)
	if err != nil {
		return fail(err)
	}
	rate, err := decimal.NewFromString(p.rate)
	if err != nil {
		return fail(fmt.Errorf("invalid rate %q: %w", p.rate, err))
	}
	starts, err := homefin.ParseDate(p.starts)
	if err != nil {
		return fail(err)
	}
	loan := homefin.Loan{
		ID:              p.add,
		Label:           p.label,
		Principal:       principal,
		MonthlyRate:     rate,
		Months:          p.months,
		StartsOn:        starts,
		Status:          homefin.LoanActive,
		AccountID:       p.account,
		LegacyPaidCount: p.legacy,
	}
	// A disbursement-created loan gets configured in place.
	if existing, ok := l.Loan(p.add); ok {
		loan.DisbursementTxID = existing.DisbursementTxID
		err = l.UpdateLoan(loan)
	} else {
		err = l.AddLoan(loan)
	}
	if err != nil {
		return fail(err)
	}
	installment := homefin.PriceInstallment(principal, rate, p.months)
	fmt.Printf("Loan %s: %d installments of %s\n", loan.ID, loan.Months, installment)
	return saveLedger(l)
}

func (p *loansCmd) executePay(l *homefin.Ledger) subcommands.ExitStatus {
	day, err := parseDay(p.date)
	if err != nil {
		return fail(err)
	}
	amount := homefin.Money{}
	if p.amount != "" {
		if amount, err = parseAmount(p.amount); err != nil {
			return fail(err)
		}
	} else {
		// Default to the scheduled value of the installment being paid.
		n := p.number
		if n == 0 {
			n = l.NextUnpaidInstallment(p.pay)
		}
		rows := l.Schedule(p.pay)
		if n < 1 || n > len(rows) {
			return fail(fmt.Errorf("loan %s has no installment %d to pay", p.pay, n))
		}
		amount = rows[n-1].Interest.Add(rows[n-1].Amortization)
	}
	tx, err := l.MarkInstallmentPaid(p.pay, amount, day, p.number)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Paid installment %d of loan %s: %s\n", tx.Links.Installment, p.pay, tx.Amount)
	return saveLedger(l)
}
