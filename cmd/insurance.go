package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/homefin/homefin"
	"github.com/homefin/homefin/renderer"
)

type insuranceCmd struct {
	add          string
	label        string
	premium      string
	starts       string
	months       int
	installments int
	category     string
	account      string

	pay    string
	date   string
	number int
}

func (*insuranceCmd) Name() string     { return "insurance" }
func (*insuranceCmd) Synopsis() string { return "manage insurance policies and their installments" }
func (*insuranceCmd) Usage() string {
	return `hf insurance
hf insurance -add <id> -label <label> -premium <amount> -starts <date> -months <n> -installments <n> [-c <category>] [-a <account>]
hf insurance -pay <id> [-d <date>] [-n <installment>]

  A policy is paid in installments but consumed evenly over its
  coverage months: reports accrue the prorated premium, not the cash
  payments. Paying an installment records the expense and marks the
  policy.

Usage Examples:
$ hf insurance -add auto -label "Seguro auto" -premium 2400 -starts 2025-01-15 -months 12 -installments 12 -c insurance -a checking
$ hf insurance -pay auto
`
}

func (p *insuranceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.add, "add", "", "Register a policy with this id.")
	f.StringVar(&p.label, "label", "", "Display label of the policy.")
	f.StringVar(&p.premium, "premium", "", "Total premium of the contract.")
	f.StringVar(&p.starts, "starts", "", "First day of coverage.")
	f.IntVar(&p.months, "months", 12, "Coverage length in months.")
	f.IntVar(&p.installments, "installments", 12, "Number of payment installments.")
	f.StringVar(&p.category, "c", "", "Premium expense category (should be flagged -insurance).")
	f.StringVar(&p.account, "a", "", "Account the installments are paid from.")

	f.StringVar(&p.pay, "pay", "", "Pay an installment of a policy.")
	f.StringVar(&p.date, "d", "", "Payment date (defaults to today).")
	f.IntVar(&p.number, "n", 0, "Installment number (defaults to the next unpaid one).")
}

func (p *insuranceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, err := loadLedger()
	if err != nil {
		return fail(err)
	}

	switch {
	case p.add != "":
		premium, err := parseAmount(p.premium)
		if err != nil {
			return fail(err)
		}
		starts, err := homefin.ParseDate(p.starts)
		if err != nil {
			return fail(err)
		}
		policy := homefin.InsurancePolicy{
			ID:             p.add,
			Label:          p.label,
			Premium:        premium,
			CoverageStart:  starts,
			CoverageMonths: p.months,
			Installments:   p.installments,
			CategoryID:     p.category,
			AccountID:      p.account,
		}
		if err := l.AddPolicy(policy); err != nil {
			return fail(err)
		}
		fmt.Printf("Registered policy %s\n", policy.ID)
		return saveLedger(l)

	case p.pay != "":
		policy, ok := l.Policy(p.pay)
		if !ok {
			return fail(fmt.Errorf("unknown policy %q", p.pay))
		}
		day, err := parseDay(p.date)
		if err != nil {
			return fail(err)
		}
		n := p.number
		if n == 0 {
			if n = policy.NextUnpaidInstallment(); n == 0 {
				return fail(fmt.Errorf("policy %s is fully paid", p.pay))
			}
		}
		entry := homefin.BillEntry{
			ID:          "cli:" + p.pay,
			Source:      homefin.BillInsurance,
			SourceRef:   p.pay,
			Installment: n,
			Label:       policy.Label,
			DueDate:     policy.InstallmentDue(n),
			Paid:        true,
			PaidOn:      day,
		}
		if err := l.CommitMonth([]homefin.BillEntry{entry}); err != nil {
			return fail(err)
		}
		fmt.Printf("Paid installment %d of policy %s\n", n, p.pay)
		return saveLedger(l)

	default:
		printMarkdown(renderer.Policies(l))
		return subcommands.ExitSuccess
	}
}
