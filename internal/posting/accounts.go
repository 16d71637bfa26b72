package posting

import (
	"context"
	"fmt"

	"fjacquet/finledger/internal/ledgererror"
	"fjacquet/finledger/internal/models"
	"fjacquet/finledger/internal/store"
)

// Fallback counterparts for uncategorized transactions. Both are seeded and
// never created on demand.
const (
	FallbackExpenseAccount = "Expenses"
	FallbackIncomeAccount  = "Income"
)

// ExpenseAccountName returns the counterpart used for outflows in category.
func ExpenseAccountName(category string) string {
	return "Expense:" + category
}

// IncomeAccountName returns the counterpart used for inflows in category.
func IncomeAccountName(category string) string {
	return "Income:" + category
}

// AccountFactory resolves counterpart accounts within one unit of work,
// creating per-category accounts on first use. Its cache must not outlive the
// unit of work it was created for.
type AccountFactory struct {
	q     *store.Queries
	cache map[string]int64
}

// NewAccountFactory creates a factory bound to q.
func NewAccountFactory(q *store.Queries) *AccountFactory {
	return &AccountFactory{q: q, cache: make(map[string]int64)}
}

// Counterpart returns the account that balances txn against its source
// account.
func (f *AccountFactory) Counterpart(ctx context.Context, txn models.Transaction) (int64, error) {
	outflow := txn.IsOutflow()

	if !txn.IsCategorized() {
		name := FallbackIncomeAccount
		if outflow {
			name = FallbackExpenseAccount
		}
		return f.existing(ctx, name)
	}

	categoryName := txn.CategoryName
	if categoryName == "" {
		c, err := f.q.GetCategory(ctx, *txn.CategoryID)
		if err != nil {
			return 0, err
		}
		categoryName = c.Name
	}

	if outflow {
		return f.ensure(ctx, ExpenseAccountName(categoryName), models.AccountExpense)
	}
	return f.ensure(ctx, IncomeAccountName(categoryName), models.AccountIncome)
}

func (f *AccountFactory) existing(ctx context.Context, name string) (int64, error) {
	if id, ok := f.cache[name]; ok {
		return id, nil
	}
	a, err := f.q.GetAccountByName(ctx, name)
	if err != nil {
		if isNotFound(err) {
			return 0, fmt.Errorf("%w: %q (run init to seed it)", ledgererror.ErrMissingAccount, name)
		}
		return 0, err
	}
	f.cache[name] = a.ID
	return a.ID, nil
}

func (f *AccountFactory) ensure(ctx context.Context, name string, accountType models.AccountType) (int64, error) {
	if id, ok := f.cache[name]; ok {
		return id, nil
	}
	a, _, err := f.q.EnsureAccount(ctx, name, accountType)
	if err != nil {
		return 0, err
	}
	f.cache[name] = a.ID
	return a.ID, nil
}
