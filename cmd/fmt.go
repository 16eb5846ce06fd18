package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and rewrites the ledger file in canonical form"
}
func (*fmtCmd) Usage() string {
	return `hf fmt

  Reads the whole ledger file, checks every invariant (references,
  transfer pairs) and writes it back sorted and canonically formatted.
  A broken file is reported and left untouched.
`
}

func (*fmtCmd) SetFlags(*flag.FlagSet) {}

func (p *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, err := loadLedger()
	if err != nil {
		return fail(err)
	}
	if err := l.CheckInvariants(); err != nil {
		return fail(err)
	}
	if status := saveLedger(l); status != subcommands.ExitSuccess {
		return status
	}
	fmt.Fprintf(os.Stderr, "Formatted %s: %s\n", *ledgerFile, l)
	return subcommands.ExitSuccess
}
