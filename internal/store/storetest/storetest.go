// Package storetest opens throwaway ledger databases for tests.
package storetest

import (
	"context"
	"path/filepath"
	"testing"

	"fjacquet/finledger/internal/dateutils"
	"fjacquet/finledger/internal/models"
	"fjacquet/finledger/internal/store"

	"github.com/stretchr/testify/require"
)

// Open returns a migrated store in a temporary directory, closed when the
// test ends.
func Open(t testing.TB) *store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "ledger.db"), 1000, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// Account creates (or fetches) an account.
func Account(t testing.TB, s *store.Store, name string, accountType models.AccountType) models.Account {
	t.Helper()
	a, _, err := s.EnsureAccount(context.Background(), name, accountType)
	require.NoError(t, err)
	return a
}

// Category creates a root category.
func Category(t testing.TB, s *store.Store, name string) models.Category {
	t.Helper()
	c, err := s.CreateCategory(context.Background(), name, nil)
	require.NoError(t, err)
	return c
}

// Transaction inserts an uncategorized transaction on the named asset
// account. date is YYYY-MM-DD and amount a decimal string.
func Transaction(t testing.TB, s *store.Store, date, description, amount, account string) models.Transaction {
	t.Helper()
	ctx := context.Background()

	d, err := dateutils.ParseISO(date)
	require.NoError(t, err)
	amt, err := models.ParseAmount(amount)
	require.NoError(t, err)
	a := Account(t, s, account, models.AccountAsset)

	id, err := s.InsertTransaction(ctx, models.Transaction{
		Date:            d,
		Description:     description,
		Amount:          amt,
		SourceAccountID: a.ID,
	})
	require.NoError(t, err)

	txn, err := s.GetTransaction(ctx, id)
	require.NoError(t, err)
	return txn
}

// SeedCounterparts creates the fallback Expenses and Income accounts.
func SeedCounterparts(t testing.TB, s *store.Store) {
	t.Helper()
	Account(t, s, "Expenses", models.AccountExpense)
	Account(t, s, "Income", models.AccountIncome)
}
