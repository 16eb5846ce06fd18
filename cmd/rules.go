package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/homefin/homefin"
	"github.com/homefin/homefin/renderer"
)

type rulesCmd struct {
	add       string
	match     string
	desc      string
	category  string
	operation string
	remove    string
}

func (*rulesCmd) Name() string     { return "rules" }
func (*rulesCmd) Synopsis() string { return "manage standardization rules for imported statements" }
func (*rulesCmd) Usage() string {
	return `hf rules [-add <id> -match <substring> [-desc <description>] [-c <category>] [-op <operation>]]
hf rules -remove <id>

  A rule fires when the bank's raw description contains the match
  (case-insensitive) and fills in the clean description, the category
  and optionally the operation. Rules apply in order; first match wins.

Usage Examples:
$ hf rules -add uber -match uber -desc "Uber" -c transport -op expense
$ hf rules -add salary -match "credito salario" -c salary -op revenue
`
}

func (p *rulesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.add, "add", "", "Register a rule with this id.")
	f.StringVar(&p.match, "match", "", "Substring of the raw description that triggers the rule.")
	f.StringVar(&p.desc, "desc", "", "Standardized description the rule writes.")
	f.StringVar(&p.category, "c", "", "Category the rule assigns.")
	f.StringVar(&p.operation, "op", "", "Operation the rule assigns.")
	f.StringVar(&p.remove, "remove", "", "Remove the rule with this id.")
}

func (p *rulesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, err := loadLedger()
	if err != nil {
		return fail(err)
	}

	switch {
	case p.add != "":
		rule := homefin.Rule{
			ID:          p.add,
			Match:       p.match,
			Description: p.desc,
			CategoryID:  p.category,
		}
		if p.operation != "" {
			if rule.Operation, err = homefin.ParseOperationType(p.operation); err != nil {
				return fail(err)
			}
			rule.Classify = true
		}
		if err := l.AddRule(rule); err != nil {
			return fail(err)
		}
		fmt.Printf("Registered rule %s\n", rule.ID)
		return saveLedger(l)

	case p.remove != "":
		if err := l.DeleteRule(p.remove); err != nil {
			return fail(err)
		}
		fmt.Printf("Removed rule %s\n", p.remove)
		return saveLedger(l)

	default:
		printMarkdown(renderer.Rules(l))
		return subcommands.ExitSuccess
	}
}
