package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/homefin/homefin"
	"github.com/homefin/homefin/renderer"
)

type accountsCmd struct {
	add         string
	name        string
	kind        string
	institution string
	opened      string
}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list accounts or register a new one" }
func (*accountsCmd) Usage() string {
	return `hf accounts [-add <id> -name <name> -k <type> [-i <institution>] [-opened <date>]]

  Without flags, lists the registered accounts. With -add, registers a
  new account of one of the types: checking, savings, emergency-reserve,
  fixed-income, crypto, goal, credit-card.

Usage Examples:
$ hf accounts
$ hf accounts -add nubank -name "Nubank" -k checking -i Nubank
$ hf accounts -add visa -name "Visa Gold" -k credit-card
`
}

func (p *accountsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.add, "add", "", "Register an account with this id.")
	f.StringVar(&p.name, "name", "", "Display name of the new account.")
	f.StringVar(&p.kind, "k", "checking", "Type of the new account.")
	f.StringVar(&p.institution, "i", "", "Institution holding the new account.")
	f.StringVar(&p.opened, "opened", "", "Opening date (defaults to today).")
}

func (p *accountsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, err := loadLedger()
	if err != nil {
		return fail(err)
	}

	if p.add != "" {
		kind, err := homefin.ParseAccountType(p.kind)
		if err != nil {
			return fail(err)
		}
		opened, err := parseDay(p.opened)
		if err != nil {
			return fail(err)
		}
		account := homefin.Account{
			ID:          p.add,
			Name:        p.name,
			Type:        kind,
			Institution: p.institution,
			OpenedOn:    opened,
		}
		if err := l.AddAccount(account); err != nil {
			return fail(err)
		}
		fmt.Printf("Registered account %s (%s)\n", account.ID, account.Type)
		return saveLedger(l)
	}

	printMarkdown(renderer.Accounts(l))
	return subcommands.ExitSuccess
}

type balancesCmd struct {
	date string
}

func (*balancesCmd) Name() string     { return "balances" }
func (*balancesCmd) Synopsis() string { return "show every account balance at a date" }
func (*balancesCmd) Usage() string {
	return `hf balances [-d <date>]

  Shows the balance of every account at the given date (today by
  default), computed from the full transaction history.
`
}

func (p *balancesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.date, "d", "", "Date of the balances (defaults to today).")
}

func (p *balancesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := parseDay(p.date)
	if err != nil {
		return fail(err)
	}
	l, err := loadLedger()
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.Balances(l, on))
	return subcommands.ExitSuccess
}
