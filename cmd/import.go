package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/PaesslerAG/jsonpath"
	"github.com/google/subcommands"
	"github.com/homefin/homefin"
	"github.com/shopspring/decimal"
)

type importCmd struct {
	account   string
	file      string
	datePath  string
	valuePath string
	descPath  string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "load a bank JSON export for review" }
func (*importCmd) Usage() string {
	return `hf import -a <account> -file <export.json> [-dates <jsonpath>] [-values <jsonpath>] [-descriptions <jsonpath>]

  Loads a bank export against an account. The default JSONPath mapping
  fits a plain array of {date, amount, description} objects; the flags
  adapt it to whatever shape the bank produces. Negative amounts mean
  money out. Lines matching already-recorded transactions are flagged
  as duplicates; review and commit with 'hf review'.

Usage Examples:
$ hf import -a checking -file extrato-julho.json
$ hf import -a card -file fatura.json -dates '$.items[*].dt' -values '$.items[*].val' -descriptions '$.items[*].memo'
`
}

func (p *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.account, "a", "", "Account the export belongs to.")
	f.StringVar(&p.file, "file", "", "Path to the JSON export.")
	f.StringVar(&p.datePath, "dates", "$[*].date", "JSONPath to the line dates.")
	f.StringVar(&p.valuePath, "values", "$[*].amount", "JSONPath to the signed line amounts.")
	f.StringVar(&p.descPath, "descriptions", "$[*].description", "JSONPath to the line descriptions.")
}

func (p *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	data, err := os.ReadFile(p.file)
	if err != nil {
		return fail(err)
	}
	var jobj any
	if err := json.Unmarshal(data, &jobj); err != nil {
		return fail(fmt.Errorf("cannot parse %q: %w", p.file, err))
	}

	dates, err := pathList(jobj, p.datePath)
	if err != nil {
		return fail(err)
	}
	values, err := pathList(jobj, p.valuePath)
	if err != nil {
		return fail(err)
	}
	descriptions, err := pathList(jobj, p.descPath)
	if err != nil {
		return fail(err)
	}
	if len(dates) != len(values) || len(dates) != len(descriptions) {
		return fail(fmt.Errorf("mapping mismatch: %d dates, %d values, %d descriptions", len(dates), len(values), len(descriptions)))
	}

	raws := make([]homefin.RawLine, 0, len(dates))
	for i := range dates {
		day, err := homefin.ParseDate(fmt.Sprint(dates[i]))
		if err != nil {
			return fail(fmt.Errorf("line %d: %w", i+1, err))
		}
		amount, err := toDecimal(values[i])
		if err != nil {
			return fail(fmt.Errorf("line %d: %w", i+1, err))
		}
		raws = append(raws, homefin.RawLine{
			Date:        day,
			Amount:      amount,
			Description: fmt.Sprint(descriptions[i]),
		})
	}

	l, err := loadLedger()
	if err != nil {
		return fail(err)
	}
	st, err := l.ImportStatement(p.account, p.file, raws)
	if err != nil {
		return fail(err)
	}
	settled, total := st.Progress()
	fmt.Printf("Imported %d lines into statement %s (%d already settled)\n", total, st.ID, settled)
	return saveLedger(l)
}

// pathList evaluates a JSONPath expression that should address a list.
// A single answer comes wrapped in a one-element list, because jsonpath
// is never clear about which of the two it returns.
func pathList(jobj any, path string) ([]any, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error evaluating %q: %w", path, err)
	}
	if jlist, ok := jval.([]any); ok {
		return jlist, nil
	}
	return []any{jval}, nil
}

// toDecimal converts a JSON scalar into an exact decimal amount.
func toDecimal(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case float64:
		return decimal.NewFromFloat(x), nil
	case string:
		return decimal.NewFromString(x)
	case json.Number:
		return decimal.NewFromString(x.String())
	default:
		return decimal.Decimal{}, fmt.Errorf("amount %v (%T) is not a number", v, v)
	}
}
