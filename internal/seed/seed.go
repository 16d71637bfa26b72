// Package seed creates the starter chart of accounts and loads user
// rulebooks.
package seed

import (
	"context"
	"errors"
	"fmt"

	"fjacquet/finledger/internal/category"
	"fjacquet/finledger/internal/ledgererror"
	"fjacquet/finledger/internal/logging"
	"fjacquet/finledger/internal/models"
	"fjacquet/finledger/internal/store"
)

// StarterAccounts are created by Minimal. Expenses and Income are the
// fallback counterparts of uncategorized transactions.
var StarterAccounts = []struct {
	Name string
	Type models.AccountType
}{
	{"Checking", models.AccountAsset},
	{"Savings", models.AccountAsset},
	{"Income", models.AccountIncome},
	{"Expenses", models.AccountExpense},
	{"Transfers", models.AccountEquity},
}

// StarterCategories are created by Minimal as root categories.
var StarterCategories = []string{"Groceries", "Rent", "Utilities", "Dining", "Salary", "Misc"}

// Summary counts what a seeding run created.
type Summary struct {
	Accounts   int
	Categories int
	Rules      int
}

// Minimal creates the starter accounts and categories that do not exist yet.
// Running it again creates nothing.
func Minimal(ctx context.Context, s *store.Store, logger logging.Logger) (Summary, error) {
	logger = logging.OrDiscard(logger)

	var sum Summary
	err := s.WithTx(ctx, func(q *store.Queries) error {
		for _, a := range StarterAccounts {
			_, created, err := q.EnsureAccount(ctx, a.Name, a.Type)
			if err != nil {
				return err
			}
			if created {
				sum.Accounts++
			}
		}
		for _, name := range StarterCategories {
			created, err := ensureCategory(ctx, q, name, "")
			if err != nil {
				return err
			}
			if created {
				sum.Categories++
			}
		}
		return nil
	})
	if err != nil {
		return Summary{}, fmt.Errorf("failed to seed ledger: %w", err)
	}

	logger.Info("Seeded ledger",
		logging.F("accounts_created", sum.Accounts),
		logging.F("categories_created", sum.Categories))
	return sum, nil
}

func ensureCategory(ctx context.Context, q *store.Queries, name, parent string) (bool, error) {
	_, err := q.GetCategoryByName(ctx, name)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ledgererror.ErrNotFound) {
		return false, err
	}
	if _, err := category.Create(ctx, q, name, parent); err != nil {
		return false, err
	}
	return true, nil
}
