// Package cmd implements the CLI application to manage a household ledger.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/homefin/homefin"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package calls Register() and then Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&accountsCmd{}, "setup")
	c.Register(&categoriesCmd{}, "setup")
	c.Register(&vehiclesCmd{}, "setup")
	c.Register(&rulesCmd{}, "setup")

	c.Register(&addCmd{}, "transactions")
	c.Register(&transferCmd{}, "transactions")
	c.Register(&txCmd{}, "transactions")

	c.Register(&loansCmd{}, "contracts")
	c.Register(&insuranceCmd{}, "contracts")

	c.Register(&billsCmd{}, "month")
	c.Register(&importCmd{}, "month")
	c.Register(&reviewCmd{}, "month")

	c.Register(&reportCmd{}, "reports")
	c.Register(&balancesCmd{}, "reports")

	c.Register(&fmtCmd{}, "maintenance")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var ledgerFile = flag.String("file", defaultLedgerFile(), "Path to the ledger file (env HOMEFIN_FILE)")
var verbose = flag.Bool("v", false, "Enable debug logging")

func defaultLedgerFile() string {
	if p := os.Getenv("HOMEFIN_FILE"); p != "" {
		return p
	}
	return "homefin.json"
}

// logger returns the CLI diagnostic logger. Reports go to stdout;
// diagnostics go to stderr so piping output stays clean.
func logger() zerolog.Logger {
	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// loadLedger opens the app ledger file. A missing file yields an empty
// ledger, so first run needs no init command.
func loadLedger() (*homefin.Ledger, error) {
	log := logger()
	log.Debug().Str("file", *ledgerFile).Msg("loading ledger")
	l, err := homefin.LoadLedger(*ledgerFile)
	if err != nil {
		return nil, fmt.Errorf("could not load ledger: %w", err)
	}
	log.Debug().Str("state", l.String()).Msg("loaded")
	return l, nil
}

// saveLedger writes the app ledger file back atomically.
func saveLedger(l *homefin.Ledger) subcommands.ExitStatus {
	if err := homefin.SaveLedger(*ledgerFile, l); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving ledger %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}
	log := logger()
	log.Debug().Str("file", *ledgerFile).Msg("saved ledger")
	return subcommands.ExitSuccess
}

// printMarkdown renders markdown to the terminal, falling back to the
// raw text when the renderer cannot be built (e.g. a dumb terminal).
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// fail prints an error and returns the failure status, the uniform
// ending of every command that hit one.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}

// parseDay parses a -d style flag, defaulting to today when empty.
func parseDay(s string) (homefin.Date, error) {
	if s == "" {
		return homefin.Today(), nil
	}
	return homefin.ParseDate(s)
}

// parseAmount parses a positive decimal amount flag.
func parseAmount(s string) (homefin.Money, error) {
	if s == "" {
		return homefin.Money{}, fmt.Errorf("missing amount")
	}
	m, err := homefin.ParseMoney(s)
	if err != nil {
		return homefin.Money{}, err
	}
	if !m.IsPositive() {
		return homefin.Money{}, fmt.Errorf("amount must be positive, got %s", s)
	}
	return m, nil
}
