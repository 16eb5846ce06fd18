package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"
	"github.com/homefin/homefin"
	"github.com/homefin/homefin/renderer"
)

type billsCmd struct {
	month   string
	pay     string
	unpay   string
	exclude string
	account string
	amount  string
	date    string

	add         string
	value       string
	due         string
	cat         string
	remove      string
	noTemplates bool
}

func (*billsCmd) Name() string     { return "bills" }
func (*billsCmd) Synopsis() string { return "show and settle the bills of the month" }
func (*billsCmd) Usage() string {
	return `hf bills [-m <month>] [-no-templates]
hf bills -pay <entry> [-a <account>] [-v <amount>] [-d <date>]
hf bills -unpay <entry>
hf bills -exclude <entry>
hf bills -add <label> -v <amount> -due <date> [-c <category>] [-a <account>]
hf bills -remove <entry>

  The worksheet merges the month's sources: recurring expense
  templates, loan installments, insurance installments, ad-hoc entries
  (overdue ones included) and read-only lines for expenses already
  recorded. Paying an entry records the right transaction for its
  source; un-paying deletes it with full cascade; excluding takes it
  off the worksheet for good.

Usage Examples:
$ hf bills -m 2025-07
$ hf bills -pay loan:car:2 -d 2025-07-10
$ hf bills -exclude template:rent:2025-July
$ hf bills -add "Dentista" -v 300 -due 2025-07-20 -a checking
`
}

func (p *billsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.month, "m", "", "Month to list, e.g. 2025-07 (defaults to the current one).")
	f.StringVar(&p.pay, "pay", "", "Mark the entry with this id paid.")
	f.StringVar(&p.unpay, "unpay", "", "Mark the entry with this id unpaid again.")
	f.StringVar(&p.exclude, "exclude", "", "Exclude the entry with this id from the worksheet.")
	f.StringVar(&p.account, "a", "", "Account paying the entry (required for templates).")
	f.StringVar(&p.amount, "v", "", "Amount actually paid, or the amount of a new ad-hoc entry.")
	f.StringVar(&p.date, "d", "", "Payment date (defaults to the entry's due date).")

	f.StringVar(&p.add, "add", "", "Add an ad-hoc entry with this label.")
	f.StringVar(&p.due, "due", "", "Due date of the new ad-hoc entry.")
	f.StringVar(&p.cat, "c", "", "Category of the new ad-hoc entry.")
	f.StringVar(&p.remove, "remove", "", "Remove the (unpaid) ad-hoc entry with this id.")
	f.BoolVar(&p.noTemplates, "no-templates", false, "Leave recurring expense templates out of the listing.")
}

func (p *billsCmd) monthDay() (homefin.Date, error) {
	if p.month == "" {
		return homefin.Today(), nil
	}
	if strings.Count(p.month, "-") == 1 {
		return homefin.ParseDate(p.month + "-01")
	}
	return homefin.ParseDate(p.month)
}

func (p *billsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, err := p.monthDay()
	if err != nil {
		return fail(err)
	}
	l, err := loadLedger()
	if err != nil {
		return fail(err)
	}

	switch {
	case p.add != "":
		amount, err := parseAmount(p.amount)
		if err != nil {
			return fail(err)
		}
		due, err := homefin.ParseDate(p.due)
		if err != nil {
			return fail(err)
		}
		entry := homefin.NewBillEntry(p.add, due, amount, p.cat, p.account)
		if err := l.AddBill(entry); err != nil {
			return fail(err)
		}
		fmt.Printf("Added bill %q due %s (%s)\n", p.add, due, entry.ID)
		return saveLedger(l)

	case p.remove != "":
		if err := l.DeleteBill(p.remove); err != nil {
			return fail(err)
		}
		fmt.Printf("Removed bill %s\n", p.remove)
		return saveLedger(l)

	case p.pay != "" || p.unpay != "" || p.exclude != "":
		return p.executeToggle(l, day)

	default:
		printMarkdown(renderer.Bills(l.GenerateMonthList(day, !p.noTemplates), day))
		return subcommands.ExitSuccess
	}
}

func (p *billsCmd) executeToggle(l *homefin.Ledger, day homefin.Date) subcommands.ExitStatus {
	id, action := p.pay, "paid"
	switch {
	case p.unpay != "":
		id, action = p.unpay, "unpaid"
	case p.exclude != "":
		id, action = p.exclude, "excluded"
	}
	entries := l.GenerateMonthList(day, true)
	for i := range entries {
		if entries[i].ID != id {
			continue
		}
		if entries[i].ReadOnly {
			return fail(fmt.Errorf("entry %s mirrors a recorded transaction; edit the transaction instead", id))
		}
		switch action {
		case "excluded":
			entries[i].Excluded = true
		case "unpaid":
			entries[i].Paid = false
		default:
			entries[i].Paid = true
			if p.account != "" {
				entries[i].AccountID = p.account
			}
			if p.amount != "" {
				amount, err := parseAmount(p.amount)
				if err != nil {
					return fail(err)
				}
				entries[i].PaidAmount = amount
			}
			if p.date != "" {
				on, err := homefin.ParseDate(p.date)
				if err != nil {
					return fail(err)
				}
				entries[i].PaidOn = on
			}
		}
		if err := l.CommitMonth(entries[i : i+1]); err != nil {
			return fail(err)
		}
		fmt.Printf("Entry %s is now %s\n", id, action)
		return saveLedger(l)
	}
	return fail(fmt.Errorf("no entry %q in %s, run 'hf bills' to list ids", id, homefin.MonthOf(day).Identifier()))
}
