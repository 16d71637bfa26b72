// Package ingest handles statement import commands
package ingest

import (
	"fmt"

	"fjacquet/finledger/cmd/root"
	"fjacquet/finledger/internal/fileutils"
	"fjacquet/finledger/internal/importer"
	"fjacquet/finledger/internal/logging"
	"fjacquet/finledger/internal/models"
	"fjacquet/finledger/internal/validation"

	"github.com/spf13/cobra"
)

var (
	dateColumn        string
	descriptionColumn string
	amountColumn      string
	sourceAccount     string
	delimiter         string
	strict            bool
	preview           int
)

// Cmd represents the import command
var Cmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a delimited bank statement into the ledger",
	Long: `Import a delimited bank statement with a header row into the ledger.

Columns are matched by header name, case-insensitively. Dates may be written
YYYY-MM-DD or MM/DD/YYYY and amounts are signed decimals (negative for money
leaving the account). Rows with an unreadable date or amount are skipped and
reported, unless --strict is given, in which case the whole import is
rejected. Use --preview to inspect the first rows without importing.

Example:
  finledger import statement.csv --account Checking --date-col "Booking Date"
  finledger import statement.csv --preview 5`,
	Args: cobra.ExactArgs(1),
	RunE: importFunc,
}

func init() {
	Cmd.Flags().StringVar(&dateColumn, "date-col", "", "Header of the date column (default from import.date_column)")
	Cmd.Flags().StringVar(&descriptionColumn, "desc-col", "", "Header of the description column (default from import.description_column)")
	Cmd.Flags().StringVar(&amountColumn, "amount-col", "", "Header of the amount column (default from import.amount_column)")
	Cmd.Flags().StringVarP(&sourceAccount, "account", "a", "", "Asset account the statement belongs to (default from import.source_account)")
	Cmd.Flags().StringVarP(&delimiter, "delimiter", "d", "", "Field delimiter (default from csv.delimiter)")
	Cmd.Flags().BoolVar(&strict, "strict", false, "Reject the whole file on the first unreadable row")
	Cmd.Flags().IntVar(&preview, "preview", 0, "Show the header and the first N rows without importing")
}

func importFunc(cmd *cobra.Command, args []string) error {
	cfg := root.GetConfig()
	path := args[0]
	if path != fileutils.Stdio {
		if err := validation.IsValidInputFile(path); err != nil {
			return err
		}
	}

	delim := cfg.Delimiter()
	if delimiter != "" {
		var err error
		if delim, err = validation.ParseDelimiter(delimiter); err != nil {
			return err
		}
	}

	in, err := fileutils.OpenInput(path)
	if err != nil {
		return err
	}
	defer in.Close()

	if preview > 0 {
		result, err := importer.Preview(in, preview, delim)
		if err != nil {
			return err
		}
		return root.PrintJSON(cmd, result)
	}

	mapping := models.ImportMapping{
		DateColumn:        orDefault(dateColumn, cfg.Import.DateColumn),
		DescriptionColumn: orDefault(descriptionColumn, cfg.Import.DescriptionColumn),
		AmountColumn:      orDefault(amountColumn, cfg.Import.AmountColumn),
		SourceAccountName: orDefault(sourceAccount, cfg.Import.SourceAccount),
	}
	opts := importer.Options{
		Strict:    strict || cfg.Import.Strict,
		Delimiter: delim,
	}

	c, err := root.GetContainer(cmd.Context())
	if err != nil {
		return err
	}

	result, err := c.GetImporter().Import(cmd.Context(), path, in, mapping, opts)
	if err != nil {
		return fmt.Errorf("import of %s failed: %w", path, err)
	}

	root.GetLogger().Info("Import completed",
		logging.F(logging.FieldBatchID, result.BatchID),
		logging.F(logging.FieldCount, result.Imported),
		logging.F(logging.FieldSkipped, len(result.Skipped)))
	return root.PrintJSON(cmd, result)
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
