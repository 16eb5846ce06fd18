package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/homefin/homefin"
	"github.com/homefin/homefin/renderer"
)

type categoriesCmd struct {
	add       string
	label     string
	nature    string
	insurance bool
	recurring bool
	expected  string
	dueDay    int
}

func (*categoriesCmd) Name() string     { return "categories" }
func (*categoriesCmd) Synopsis() string { return "list categories or register a new one" }
func (*categoriesCmd) Usage() string {
	return `hf categories [-add <id> -label <label> -n <nature> [-recurring -v <amount> -due <day>] [-insurance]]

  Without flags, lists the categories. With -add, registers one with a
  nature of revenue, fixed-expense or variable-expense. A recurring
  category becomes a bill template projected onto every month.

Usage Examples:
$ hf categories -add rent -label "Aluguel" -n fixed-expense -recurring -v 1200 -due 5
$ hf categories -add groceries -label "Mercado" -n variable-expense
`
}

func (p *categoriesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.add, "add", "", "Register a category with this id.")
	f.StringVar(&p.label, "label", "", "Display label of the new category.")
	f.StringVar(&p.nature, "n", "variable-expense", "Nature: revenue, fixed-expense or variable-expense.")
	f.BoolVar(&p.insurance, "insurance", false, "Mark as an insurance premium category (accrued, not expensed, in reports).")
	f.BoolVar(&p.recurring, "recurring", false, "Project this category as a monthly bill template.")
	f.StringVar(&p.expected, "v", "", "Expected monthly amount of a recurring category.")
	f.IntVar(&p.dueDay, "due", 0, "Due day of month (1..28) of a recurring category.")
}

func (p *categoriesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, err := loadLedger()
	if err != nil {
		return fail(err)
	}

	if p.add != "" {
		nature, err := homefin.ParseNature(p.nature)
		if err != nil {
			return fail(err)
		}
		cat := homefin.Category{
			ID:        p.add,
			Label:     p.label,
			Nature:    nature,
			Insurance: p.insurance,
			Recurring: p.recurring,
			DueDay:    p.dueDay,
		}
		if p.expected != "" {
			if cat.ExpectedAmount, err = parseAmount(p.expected); err != nil {
				return fail(err)
			}
		}
		if err := l.AddCategory(cat); err != nil {
			return fail(err)
		}
		fmt.Printf("Registered category %s (%s)\n", cat.ID, cat.Nature)
		return saveLedger(l)
	}

	printMarkdown(renderer.Categories(l))
	return subcommands.ExitSuccess
}

type vehiclesCmd struct {
	add   string
	label string
	value string
	date  string
	sold  string
}

func (*vehiclesCmd) Name() string     { return "vehicles" }
func (*vehiclesCmd) Synopsis() string { return "list fleet vehicles or register/update one" }
func (*vehiclesCmd) Usage() string {
	return `hf vehicles [-add <id> -label <label> [-v <reference_value>] [-d <purchase_date>]]
hf vehicles -add <id> -v <reference_value>     # refresh the market value
hf vehicles -add <id> -sold <date>             # mark it sold

  Vehicles enter the balance sheet at their market reference value.
`
}

func (p *vehiclesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.add, "add", "", "Register or update the vehicle with this id.")
	f.StringVar(&p.label, "label", "", "Display label of the vehicle.")
	f.StringVar(&p.value, "v", "", "Market reference value.")
	f.StringVar(&p.date, "d", "", "Purchase date.")
	f.StringVar(&p.sold, "sold", "", "Date the vehicle was sold.")
}

func (p *vehiclesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, err := loadLedger()
	if err != nil {
		return fail(err)
	}

	if p.add != "" {
		v, exists := l.Vehicle(p.add)
		if !exists {
			v = homefin.Vehicle{ID: p.add}
		}
		if p.label != "" {
			v.Label = p.label
		}
		if p.value != "" {
			if v.ReferenceValue, err = parseAmount(p.value); err != nil {
				return fail(err)
			}
		}
		if p.date != "" {
			if v.PurchasedOn, err = homefin.ParseDate(p.date); err != nil {
				return fail(err)
			}
		}
		if p.sold != "" {
			if v.SoldOn, err = homefin.ParseDate(p.sold); err != nil {
				return fail(err)
			}
		}
		if exists {
			err = l.UpdateVehicle(v)
		} else {
			err = l.AddVehicle(v)
		}
		if err != nil {
			return fail(err)
		}
		fmt.Printf("Saved vehicle %s\n", v.ID)
		return saveLedger(l)
	}

	printMarkdown(renderer.Vehicles(l))
	return subcommands.ExitSuccess
}
