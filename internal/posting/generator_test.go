package posting

import (
	"context"
	"testing"
	"time"

	"fjacquet/finledger/internal/closure"
	"fjacquet/finledger/internal/ledgererror"
	"fjacquet/finledger/internal/logging"
	"fjacquet/finledger/internal/models"
	"fjacquet/finledger/internal/store"
	"fjacquet/finledger/internal/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGenerator(t *testing.T) (*Generator, *store.Store) {
	t.Helper()
	s := storetest.Open(t)
	storetest.SeedCounterparts(t, s)
	return NewGenerator(s, closure.NewGuard(true), logging.NewMockLogger()), s
}

func categorize(t *testing.T, s *store.Store, txn models.Transaction, category string) {
	t.Helper()
	ctx := context.Background()
	c, err := s.GetCategoryByName(ctx, category)
	if err != nil {
		c = storetest.Category(t, s, category)
	}
	require.NoError(t, s.UpdateTransactionCategory(ctx, txn.ID, &c.ID))
}

func TestGenerateForTransaction_WalmartScenario(t *testing.T) {
	ctx := context.Background()
	g, s := newGenerator(t)

	txn := storetest.Transaction(t, s, "2024-01-05", "WALMART", "-42.50", "Checking")
	categorize(t, s, txn, "Groceries")

	n, err := g.GenerateForTransaction(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	postings, err := s.ListPostings(ctx, txn.ID)
	require.NoError(t, err)
	require.Len(t, postings, 2)

	assert.Equal(t, "Checking", postings[0].AccountName)
	assert.Equal(t, "42.50", postings[0].Credit.StringFixed(2))
	assert.True(t, postings[0].Debit.IsZero())

	assert.Equal(t, "Expense:Groceries", postings[1].AccountName)
	assert.Equal(t, "42.50", postings[1].Debit.StringFixed(2))
	assert.True(t, postings[1].Credit.IsZero())

	account, err := s.GetAccountByName(ctx, "Expense:Groceries")
	require.NoError(t, err)
	assert.Equal(t, models.AccountExpense, account.Type)
}

func TestGenerateForTransaction_Inflows(t *testing.T) {
	ctx := context.Background()
	g, s := newGenerator(t)

	salary := storetest.Transaction(t, s, "2024-01-31", "PAYROLL", "2500.00", "Checking")
	categorize(t, s, salary, "Salary")
	gift := storetest.Transaction(t, s, "2024-01-31", "GIFT", "50.00", "Checking")

	_, err := g.GenerateForTransaction(ctx, salary.ID)
	require.NoError(t, err)
	_, err = g.GenerateForTransaction(ctx, gift.ID)
	require.NoError(t, err)

	postings, err := s.ListPostings(ctx, salary.ID)
	require.NoError(t, err)
	assert.Equal(t, "Checking", postings[0].AccountName)
	assert.Equal(t, "2500.00", postings[0].Debit.StringFixed(2))
	assert.Equal(t, "Income:Salary", postings[1].AccountName)
	assert.Equal(t, "2500.00", postings[1].Credit.StringFixed(2))

	postings, err = s.ListPostings(ctx, gift.ID)
	require.NoError(t, err)
	assert.Equal(t, FallbackIncomeAccount, postings[1].AccountName)
}

func TestGenerateForTransaction_Idempotent(t *testing.T) {
	ctx := context.Background()
	g, s := newGenerator(t)
	txn := storetest.Transaction(t, s, "2024-01-05", "WALMART", "-42.50", "Checking")

	_, err := g.GenerateForTransaction(ctx, txn.ID)
	require.NoError(t, err)
	first, err := s.ListPostings(ctx, txn.ID)
	require.NoError(t, err)

	_, err = g.GenerateForTransaction(ctx, txn.ID)
	require.NoError(t, err)
	second, err := s.ListPostings(ctx, txn.ID)
	require.NoError(t, err)

	require.Len(t, second, 2)
	for i := range first {
		assert.Equal(t, first[i].AccountID, second[i].AccountID)
		assert.True(t, first[i].Debit.Equal(second[i].Debit))
		assert.True(t, first[i].Credit.Equal(second[i].Credit))
	}
}

func TestGenerateForTransaction_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("zero amount", func(t *testing.T) {
		g, s := newGenerator(t)
		txn := storetest.Transaction(t, s, "2024-01-05", "Fee waived", "0.00", "Checking")
		_, err := g.GenerateForTransaction(ctx, txn.ID)
		assert.ErrorIs(t, err, ledgererror.ErrZeroAmount)
	})

	t.Run("missing fallback account", func(t *testing.T) {
		s := storetest.Open(t)
		g := NewGenerator(s, nil, nil)
		txn := storetest.Transaction(t, s, "2024-01-05", "Mystery", "-1.00", "Checking")

		_, err := g.GenerateForTransaction(ctx, txn.ID)
		assert.ErrorIs(t, err, ledgererror.ErrMissingAccount)

		postings, err := s.ListPostings(ctx, txn.ID)
		require.NoError(t, err)
		assert.Empty(t, postings)
	})

	t.Run("unknown transaction", func(t *testing.T) {
		g, _ := newGenerator(t)
		_, err := g.GenerateForTransaction(ctx, 404)
		assert.ErrorIs(t, err, ledgererror.ErrNotFound)
	})

	t.Run("closed period", func(t *testing.T) {
		g, s := newGenerator(t)
		txn := storetest.Transaction(t, s, "2024-01-05", "Old", "-1.00", "Checking")
		_, err := closure.NewService(s, nil).Close(ctx, mustDay(t, "2024-01-01"), mustDay(t, "2024-01-31"))
		require.NoError(t, err)

		_, err = g.GenerateForTransaction(ctx, txn.ID)
		assert.ErrorIs(t, err, ledgererror.ErrPeriodClosed)
	})
}

func TestGenerateAll(t *testing.T) {
	ctx := context.Background()
	g, s := newGenerator(t)

	a := storetest.Transaction(t, s, "2024-01-01", "A", "-10.00", "Checking")
	b := storetest.Transaction(t, s, "2024-01-02", "B", "20.00", "Checking")
	zero := storetest.Transaction(t, s, "2024-01-03", "Z", "0", "Checking")
	c := storetest.Transaction(t, s, "2024-01-04", "C", "-30.00", "Checking")
	categorize(t, s, c, "Rent")

	n, err := g.GenerateAll(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, id := range []int64{a.ID, b.ID} {
		postings, err := s.ListPostings(ctx, id)
		require.NoError(t, err)
		assert.Len(t, postings, 2)
	}
	postings, err := s.ListPostings(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, postings)

	// already-posted transactions keep their postings even after recategorization
	categorize(t, s, a, "Dining")
	n, err = g.GenerateAll(ctx, 10000)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	postings, err = s.ListPostings(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, FallbackExpenseAccount, postings[1].AccountName)

	postings, err = s.ListPostings(ctx, zero.ID)
	require.NoError(t, err)
	assert.Empty(t, postings)

	n, err = g.GenerateAll(ctx, 10000)
	require.NoError(t, err)
	assert.Zero(t, n)

	unbalanced, err := g.VerifyBalanced(ctx)
	require.NoError(t, err)
	assert.Empty(t, unbalanced)
}

func TestGenerateAll_SkipsClosedPeriodsBeyondLimitWindow(t *testing.T) {
	ctx := context.Background()
	g, s := newGenerator(t)

	storetest.Transaction(t, s, "2024-01-10", "closed", "-1.00", "Checking")
	open := storetest.Transaction(t, s, "2024-02-10", "open", "-1.00", "Checking")
	_, err := closure.NewService(s, nil).Close(ctx, mustDay(t, "2024-01-01"), mustDay(t, "2024-01-31"))
	require.NoError(t, err)

	n, err := g.GenerateAll(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	postings, err := s.ListPostings(ctx, open.ID)
	require.NoError(t, err)
	assert.Len(t, postings, 2)
}

func TestBalanceInvariant(t *testing.T) {
	ctx := context.Background()
	g, s := newGenerator(t)

	amounts := []string{"-0.01", "0.01", "-42.50", "1000.00", "-999999.99", "12.34"}
	for i, amt := range amounts {
		txn := storetest.Transaction(t, s, "2024-03-01", "row", amt, "Checking")
		if i%2 == 0 {
			categorize(t, s, txn, "Misc")
		}
	}

	_, err := g.GenerateAll(ctx, 10000)
	require.NoError(t, err)

	txns, err := s.ListTransactions(ctx, store.TransactionFilter{})
	require.NoError(t, err)
	for _, txn := range txns {
		postings, err := s.ListPostings(ctx, txn.ID)
		require.NoError(t, err)
		require.Len(t, postings, 2)

		debits, credits := postings[0].Debit.Add(postings[1].Debit), postings[0].Credit.Add(postings[1].Credit)
		assert.True(t, debits.Equal(credits), "transaction %d", txn.ID)
		assert.True(t, debits.Equal(txn.Amount.Abs()), "transaction %d", txn.ID)
		for _, p := range postings {
			assert.False(t, p.Debit.IsNegative())
			assert.False(t, p.Credit.IsNegative())
			assert.NotEqual(t, p.Debit.IsZero(), p.Credit.IsZero())
		}
	}

	unbalanced, err := g.VerifyBalanced(ctx)
	require.NoError(t, err)
	assert.Empty(t, unbalanced)
}

func TestAccountFactory_CachesPerUnitOfWork(t *testing.T) {
	ctx := context.Background()
	s := storetest.Open(t)
	groceries := storetest.Category(t, s, "Groceries")
	checking := storetest.Account(t, s, "Checking", models.AccountAsset)

	txn := models.Transaction{Amount: models.FromCents(-100), SourceAccountID: checking.ID, CategoryID: &groceries.ID}

	require.NoError(t, s.WithTx(ctx, func(q *store.Queries) error {
		f := NewAccountFactory(q)
		first, err := f.Counterpart(ctx, txn)
		require.NoError(t, err)
		second, err := f.Counterpart(ctx, txn)
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Len(t, f.cache, 1)
		return nil
	}))

	a, err := s.GetAccountByName(ctx, ExpenseAccountName("Groceries"))
	require.NoError(t, err)
	assert.Equal(t, models.AccountExpense, a.Type)
}

func mustDay(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}
