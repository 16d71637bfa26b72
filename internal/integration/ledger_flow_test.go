package integration

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fjacquet/finledger/internal/config"
	"fjacquet/finledger/internal/container"
	"fjacquet/finledger/internal/importer"
	"fjacquet/finledger/internal/logging"
	"fjacquet/finledger/internal/models"
	"fjacquet/finledger/internal/seed"
	"fjacquet/finledger/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statement = "Date,Description,Amount\n" +
	"2024-01-05,WALMART #1234,-42.50\n" +
	"01/10/2024,PAYROLL ACME,1000.00\n" +
	"2024-01-12,CORNER CAFE,-7.50\n"

const rulebook = `
rules:
  - pattern: walmart
    category: Groceries
  - pattern: payroll
    category: Salary
    amount_min: "0"
`

func newLedger(t *testing.T) (*container.Container, *logging.MockLogger) {
	t.Helper()
	t.Setenv("LEDGER_DATABASE_PATH", filepath.Join(t.TempDir(), "ledger.db"))
	cfg, err := config.InitializeConfig("")
	require.NoError(t, err)

	log := logging.NewMockLogger()
	c, err := container.NewContainerWithLogger(context.Background(), cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, log
}

// TestImportCategorizePost runs a statement through every engine component.
// Each step reads only what the previous one left in the database.
func TestImportCategorizePost(t *testing.T) {
	ctx := context.Background()
	c, log := newLedger(t)

	_, err := seed.Minimal(ctx, c.GetStore(), log)
	require.NoError(t, err)
	book, err := seed.ParseRulebook([]byte(rulebook))
	require.NoError(t, err)
	_, err = seed.ApplyRulebook(ctx, c.GetStore(), book, log)
	require.NoError(t, err)

	mapping := models.ImportMapping{
		DateColumn:        "date",
		DescriptionColumn: "description",
		AmountColumn:      "amount",
		SourceAccountName: "Checking",
	}
	res, err := c.GetImporter().Import(ctx, "jan.csv", strings.NewReader(statement), mapping, importer.Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Imported)
	assert.Empty(t, res.Skipped)

	matches, err := c.GetRules().DryRun(ctx, 1000)
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	categorized, err := c.GetRules().Apply(ctx, 1000)
	require.NoError(t, err)
	assert.Equal(t, 2, categorized)

	uncategorized, err := c.GetReports().UncategorizedCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, uncategorized)

	posted, err := c.GetPostings().GenerateAll(ctx, 10000)
	require.NoError(t, err)
	assert.Equal(t, 3, posted)

	again, err := c.GetPostings().GenerateAll(ctx, 10000)
	require.NoError(t, err)
	assert.Zero(t, again)

	unbalanced, err := c.GetPostings().VerifyBalanced(ctx)
	require.NoError(t, err)
	assert.Empty(t, unbalanced)

	txns, err := c.GetTransactions().List(ctx, store.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, txns, 3)
	assert.Equal(t, "Groceries", txns[0].CategoryName)
	assert.Equal(t, "Salary", txns[1].CategoryName)
	assert.Empty(t, txns[2].CategoryName)

	type line struct{ account, debit, credit string }
	expected := map[string][]line{
		"WALMART #1234": {{"Checking", "0.00", "42.50"}, {"Expense:Groceries", "42.50", "0.00"}},
		"PAYROLL ACME":  {{"Checking", "1000.00", "0.00"}, {"Income:Salary", "0.00", "1000.00"}},
		"CORNER CAFE":   {{"Checking", "0.00", "7.50"}, {"Expenses", "7.50", "0.00"}},
	}
	for _, txn := range txns {
		postings, err := c.GetStore().ListPostings(ctx, txn.ID)
		require.NoError(t, err)

		var got []line
		for _, p := range postings {
			got = append(got, line{p.AccountName, models.FormatAmount(p.Debit), models.FormatAmount(p.Credit)})
		}
		assert.Equal(t, expected[txn.Description], got, txn.Description)
	}

	balances, err := c.GetReports().AccountBalances(ctx)
	require.NoError(t, err)
	byAccount := make(map[string]string, len(balances))
	for _, b := range balances {
		byAccount[b.Account] = models.FormatAmount(b.Balance)
	}
	assert.Equal(t, map[string]string{
		"Checking":          "950.00",
		"Expense:Groceries": "42.50",
		"Expenses":          "7.50",
		"Income:Salary":     "-1000.00",
	}, byAccount)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	rec, err := c.GetReports().Reconciliation(ctx, start, end)
	require.NoError(t, err)
	assert.Equal(t, "0.00", models.FormatAmount(rec.OpeningBalance))
	assert.Equal(t, "1000.00", models.FormatAmount(rec.Inflows))
	assert.Equal(t, "50.00", models.FormatAmount(rec.Outflows))
	assert.Equal(t, "950.00", models.FormatAmount(rec.ClosingBalance))
	assert.Equal(t, 3, rec.TransactionCount)
}
