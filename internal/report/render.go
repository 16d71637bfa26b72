package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"fjacquet/finledger/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// Format selects the output encoding of a report.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported report format: %s (must be 'json' or 'csv')", s)
	}
}

// Renderer writes report rows using the stable report field names.
type Renderer struct {
	delimiter rune
}

// NewRenderer creates a renderer; delimiter applies to CSV output.
func NewRenderer(delimiter rune) *Renderer {
	if delimiter == 0 {
		delimiter = ','
	}
	return &Renderer{delimiter: delimiter}
}

// UncategorizedCount is the row rendered for the uncategorized report.
type UncategorizedCount struct {
	Uncategorized int `json:"uncategorized" csv:"uncategorized"`
}

type cashflowRow struct {
	Month    string      `json:"month" csv:"month"`
	Income   json.Number `json:"income" csv:"income"`
	Expenses json.Number `json:"expenses" csv:"expenses"`
	Net      json.Number `json:"net" csv:"net"`
}

type categoryRow struct {
	Category string      `json:"category" csv:"category"`
	Amount   json.Number `json:"amount" csv:"amount"`
}

type balanceRow struct {
	Account string      `json:"account" csv:"account"`
	Balance json.Number `json:"balance" csv:"balance"`
}

type reconciliationRow struct {
	PeriodStart      string      `json:"period_start" csv:"period_start"`
	PeriodEnd        string      `json:"period_end" csv:"period_end"`
	OpeningBalance   json.Number `json:"opening_balance" csv:"opening_balance"`
	Inflows          json.Number `json:"inflows" csv:"inflows"`
	Outflows         json.Number `json:"outflows" csv:"outflows"`
	ClosingBalance   json.Number `json:"closing_balance" csv:"closing_balance"`
	TransactionCount int         `json:"transaction_count" csv:"transaction_count"`
}

func amount(d decimal.Decimal) json.Number {
	return json.Number(models.FormatAmount(d))
}

// Render writes data to w. data is one of the report results of Service,
// a []models.RuleMatch, or an UncategorizedCount. Money is written with two
// decimal places. Single-record reports render as a JSON object and as a
// one-row CSV.
func (r *Renderer) Render(w io.Writer, format Format, data interface{}) error {
	rows, single, err := presentation(data)
	if err != nil {
		return err
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if single != nil {
			return enc.Encode(single)
		}
		return enc.Encode(rows)
	case FormatCSV:
		if single != nil {
			rows = wrap(single)
		}
		csvWriter := csv.NewWriter(w)
		csvWriter.Comma = r.delimiter
		if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
			return fmt.Errorf("error writing CSV report: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
}

// presentation converts report data to rows with formatted money. Exactly
// one of rows and single is set.
func presentation(data interface{}) (rows interface{}, single interface{}, err error) {
	switch v := data.(type) {
	case []models.CashflowMonth:
		out := make([]cashflowRow, len(v))
		for i, m := range v {
			out[i] = cashflowRow{Month: m.Month, Income: amount(m.Income), Expenses: amount(m.Expenses), Net: amount(m.Net)}
		}
		return out, nil, nil
	case []models.CategoryTotal:
		out := make([]categoryRow, len(v))
		for i, c := range v {
			out[i] = categoryRow{Category: c.Category, Amount: amount(c.Amount)}
		}
		return out, nil, nil
	case []models.AccountBalance:
		out := make([]balanceRow, len(v))
		for i, b := range v {
			out[i] = balanceRow{Account: b.Account, Balance: amount(b.Balance)}
		}
		return out, nil, nil
	case models.ReconciliationReport:
		return nil, reconciliationRow{
			PeriodStart:      v.PeriodStart,
			PeriodEnd:        v.PeriodEnd,
			OpeningBalance:   amount(v.OpeningBalance),
			Inflows:          amount(v.Inflows),
			Outflows:         amount(v.Outflows),
			ClosingBalance:   amount(v.ClosingBalance),
			TransactionCount: v.TransactionCount,
		}, nil
	case []models.RuleMatch:
		if v == nil {
			v = []models.RuleMatch{}
		}
		return v, nil, nil
	case UncategorizedCount:
		return nil, v, nil
	default:
		return nil, nil, fmt.Errorf("cannot render report data of type %T", data)
	}
}

func wrap(single interface{}) interface{} {
	switch v := single.(type) {
	case reconciliationRow:
		return []reconciliationRow{v}
	case UncategorizedCount:
		return []UncategorizedCount{v}
	default:
		return []interface{}{v}
	}
}
