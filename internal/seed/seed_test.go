package seed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/finledger/internal/ledgererror"
	"fjacquet/finledger/internal/logging"
	"fjacquet/finledger/internal/models"
	"fjacquet/finledger/internal/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinimal_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := storetest.Open(t)

	sum, err := Minimal(ctx, s, logging.NewMockLogger())
	require.NoError(t, err)
	assert.Equal(t, len(StarterAccounts), sum.Accounts)
	assert.Equal(t, len(StarterCategories), sum.Categories)

	again, err := Minimal(ctx, s, nil)
	require.NoError(t, err)
	assert.Equal(t, Summary{}, again)

	expenses, err := s.GetAccountByName(ctx, "Expenses")
	require.NoError(t, err)
	assert.Equal(t, models.AccountExpense, expenses.Type)

	transfers, err := s.GetAccountByName(ctx, "Transfers")
	require.NoError(t, err)
	assert.Equal(t, models.AccountEquity, transfers.Type)

	categories, err := s.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, len(StarterCategories))
}

func TestMinimal_KeepsExistingCategory(t *testing.T) {
	ctx := context.Background()
	s := storetest.Open(t)
	storetest.Category(t, s, "Groceries")

	sum, err := Minimal(ctx, s, nil)
	require.NoError(t, err)
	assert.Equal(t, len(StarterCategories)-1, sum.Categories)
}

const rulebookYAML = `
categories:
  - name: Food
  - name: Groceries
    parent: Food
  - name: Coffee
    parent: Food
rules:
  - pattern: "walmart|aldi"
    category: Groceries
    amount_max: "0"
  - pattern: "STARBUCKS"
    category: Coffee
    amount_min: "-20.00"
    amount_max: "-0.01"
    priority: 10
  - pattern: "OLD SHOP"
    category: Food
    active: false
`

func TestParseRulebook(t *testing.T) {
	book, err := ParseRulebook([]byte(rulebookYAML))
	require.NoError(t, err)

	require.Len(t, book.Categories, 3)
	assert.Equal(t, CategoryEntry{Name: "Groceries", Parent: "Food"}, book.Categories[1])

	require.Len(t, book.Rules, 3)
	assert.Equal(t, "-20.00", book.Rules[1].AmountMin)
	require.NotNil(t, book.Rules[1].Priority)
	assert.Equal(t, 10, *book.Rules[1].Priority)
	require.NotNil(t, book.Rules[2].Active)
	assert.False(t, *book.Rules[2].Active)
}

func TestParseRulebook_Errors(t *testing.T) {
	_, err := ParseRulebook([]byte("categories: [oops"))
	assert.Error(t, err)

	_, err = ParseRulebook([]byte("categories:\n  - parent: Food\n"))
	assert.True(t, errors.Is(err, ledgererror.ErrValidation))
}

func TestApplyRulebook(t *testing.T) {
	ctx := context.Background()
	s := storetest.Open(t)

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(rulebookYAML), 0600))

	book, err := LoadRulebook(path)
	require.NoError(t, err)

	log := logging.NewMockLogger()
	sum, err := ApplyRulebook(ctx, s, book, log)
	require.NoError(t, err)
	assert.Equal(t, Summary{Categories: 3, Rules: 3}, sum)
	assert.True(t, log.HasEntry("INFO", "Applied rulebook"))

	groceries, err := s.GetCategoryByName(ctx, "Groceries")
	require.NoError(t, err)
	food, err := s.GetCategoryByName(ctx, "Food")
	require.NoError(t, err)
	require.NotNil(t, groceries.ParentID)
	assert.Equal(t, food.ID, *groceries.ParentID)

	all, err := s.ListRules(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "STARBUCKS", all[0].Pattern)
	assert.Equal(t, "-20.00", all[0].AmountMin.StringFixed(2))

	active, err := s.ListRules(ctx, true)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestApplyRulebook_RollsBackOnUnknownCategory(t *testing.T) {
	ctx := context.Background()
	s := storetest.Open(t)

	book := &Rulebook{
		Categories: []CategoryEntry{{Name: "Travel"}},
		Rules: []RuleEntry{
			{Pattern: "AIRLINE", Category: "Travel"},
			{Pattern: "HOTEL", Category: "Lodging"},
		},
	}

	_, err := ApplyRulebook(ctx, s, book, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ledgererror.ErrNotFound))

	_, err = s.GetCategoryByName(ctx, "Travel")
	assert.True(t, errors.Is(err, ledgererror.ErrNotFound))
	rules, err := s.ListRules(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestApplyRulebook_InvalidAmount(t *testing.T) {
	s := storetest.Open(t)
	book := &Rulebook{Rules: []RuleEntry{{Pattern: "X", Category: "Misc", AmountMin: "ten"}}}

	_, err := ApplyRulebook(context.Background(), s, book, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rulebook rule 1")
}

func TestLoadRulebook_MissingFile(t *testing.T) {
	_, err := LoadRulebook(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
