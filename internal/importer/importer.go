// Package importer turns delimited bank statements into ledger transactions.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"fjacquet/finledger/internal/currencyutils"
	"fjacquet/finledger/internal/dateutils"
	"fjacquet/finledger/internal/ledgererror"
	"fjacquet/finledger/internal/logging"
	"fjacquet/finledger/internal/models"
	"fjacquet/finledger/internal/store"
	"fjacquet/finledger/internal/textutils"

	"github.com/google/uuid"
)

// Options tune one import run.
type Options struct {
	// Strict aborts the whole import on the first unparseable date or amount.
	Strict bool
	// Delimiter separates fields; zero means a comma.
	Delimiter rune
}

// SkippedRow reports a row left out of a lenient import.
type SkippedRow struct {
	Row    int    `json:"row"`
	Column string `json:"column"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

// Result summarizes an import run.
type Result struct {
	BatchID  string       `json:"batch_id"`
	Imported int          `json:"imported"`
	Skipped  []SkippedRow `json:"skipped,omitempty"`
}

// Importer creates transactions from statement files.
type Importer struct {
	store  *store.Store
	logger logging.Logger
	now    func() time.Time
	newID  func() string
}

// NewImporter creates an importer writing to s.
func NewImporter(s *store.Store, logger logging.Logger) *Importer {
	return &Importer{
		store:  s,
		logger: logging.OrDiscard(logger),
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
}

type columns struct {
	date, description, amount int
}

// Import reads a header row and data rows from r and inserts one transaction
// per valid row, all in one unit of work. source names the input for the
// batch record. No postings or categories are created, and rows are not
// deduplicated against earlier imports.
func (i *Importer) Import(ctx context.Context, source string, r io.Reader, mapping models.ImportMapping, opts Options) (Result, error) {
	if err := validateMapping(mapping); err != nil {
		return Result{}, err
	}

	reader := newReader(r, opts.Delimiter)
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Result{}, ledgererror.Invalid("statement %s has no header row", source)
		}
		return Result{}, fmt.Errorf("failed to read header of %s: %w", source, err)
	}
	cols, err := resolveColumns(header, mapping)
	if err != nil {
		return Result{}, err
	}

	log := i.logger.WithFields(
		logging.F(logging.FieldFile, source),
		logging.F(logging.FieldAccount, mapping.SourceAccountName))

	result := Result{BatchID: i.newID()}
	err = i.store.WithTx(ctx, func(q *store.Queries) error {
		account, created, err := q.EnsureAccount(ctx, mapping.SourceAccountName, models.AccountAsset)
		if err != nil {
			return err
		}
		if created {
			log.Info("Created source account")
		}

		if err := q.InsertImportBatch(ctx, models.ImportBatch{
			ID:              result.BatchID,
			Source:          source,
			SourceAccountID: account.ID,
			ImportedAt:      i.now(),
		}); err != nil {
			return err
		}

		row := 0
		for {
			record, err := reader.Read()
			if errors.Is(err, io.EOF) {
				break
			}
			row++
			if err != nil {
				return fmt.Errorf("failed to read row %d of %s: %w", row, source, err)
			}

			txn, perr := parseRow(record, row, cols, mapping)
			if perr != nil {
				if opts.Strict {
					return perr
				}
				skip := SkippedRow{Row: perr.Row, Column: perr.Column, Value: perr.Value, Reason: perr.Err.Error()}
				result.Skipped = append(result.Skipped, skip)
				log.Warn("Skipping statement row",
					logging.F(logging.FieldRow, skip.Row),
					logging.F(logging.FieldColumn, skip.Column),
					logging.F(logging.FieldReason, skip.Reason))
				continue
			}

			txn.SourceAccountID = account.ID
			txn.ImportID = result.BatchID
			if _, err := q.InsertTransaction(ctx, txn); err != nil {
				return err
			}
			result.Imported++
		}

		return q.FinishImportBatch(ctx, result.BatchID, result.Imported, len(result.Skipped))
	})
	if err != nil {
		return Result{}, err
	}

	log.Info("Imported statement",
		logging.F(logging.FieldBatchID, result.BatchID),
		logging.F(logging.FieldCount, result.Imported),
		logging.F(logging.FieldSkipped, len(result.Skipped)))
	return result, nil
}

func validateMapping(m models.ImportMapping) error {
	var missing []string
	if strings.TrimSpace(m.DateColumn) == "" {
		missing = append(missing, "date column")
	}
	if strings.TrimSpace(m.DescriptionColumn) == "" {
		missing = append(missing, "description column")
	}
	if strings.TrimSpace(m.AmountColumn) == "" {
		missing = append(missing, "amount column")
	}
	if strings.TrimSpace(m.SourceAccountName) == "" {
		missing = append(missing, "source account")
	}
	if len(missing) > 0 {
		return ledgererror.Invalid("import mapping is missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// resolveColumns locates the mapped columns by header name, ignoring case
// and surrounding space. The first of several equal names wins.
func resolveColumns(header []string, m models.ImportMapping) (columns, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = headerKey(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var (
		cols    columns
		missing []string
	)
	lookup := func(name string, dst *int) {
		i, ok := index[headerKey(name)]
		if !ok {
			missing = append(missing, name)
			return
		}
		*dst = i
	}
	lookup(m.DateColumn, &cols.date)
	lookup(m.DescriptionColumn, &cols.description)
	lookup(m.AmountColumn, &cols.amount)

	if len(missing) > 0 {
		return columns{}, &ledgererror.MappingError{Missing: missing}
	}
	return cols, nil
}

func headerKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func parseRow(record []string, row int, cols columns, m models.ImportMapping) (models.Transaction, *ledgererror.ParseError) {
	rawDate := cell(record, cols.date)
	date, _, err := dateutils.ParseStatementDate(rawDate)
	if err != nil {
		return models.Transaction{}, &ledgererror.ParseError{Row: row, Column: m.DateColumn, Value: rawDate, Err: err}
	}

	rawAmount := cell(record, cols.amount)
	amount, err := currencyutils.ParseAmount(rawAmount)
	if err != nil {
		return models.Transaction{}, &ledgererror.ParseError{Row: row, Column: m.AmountColumn, Value: rawAmount, Err: err}
	}

	description := strings.TrimSpace(cell(record, cols.description))
	txn := models.Transaction{
		Date:        date,
		Description: description,
		Amount:      amount,
	}
	if memo := textutils.NormalizeMemo(description); memo != "" {
		txn.NormalizedMemo = &memo
	}
	return txn, nil
}

func cell(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}

func newReader(r io.Reader, delimiter rune) *csv.Reader {
	reader := csv.NewReader(r)
	if delimiter != 0 {
		reader.Comma = delimiter
	}
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader
}
