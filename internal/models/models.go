// Package models provides the data structures used throughout the ledger engine.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies an account for double-entry bookkeeping.
type AccountType string

const (
	AccountAsset     AccountType = "asset"
	AccountLiability AccountType = "liability"
	AccountIncome    AccountType = "income"
	AccountExpense   AccountType = "expense"
	AccountEquity    AccountType = "equity"
)

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountAsset, AccountLiability, AccountIncome, AccountExpense, AccountEquity:
		return true
	}
	return false
}

// Account is a ledger account. Names are unique.
type Account struct {
	ID   int64       `json:"id"`
	Name string      `json:"name"`
	Type AccountType `json:"type"`
}

// Category classifies transactions. ParentID is nil for a root category.
type Category struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

// Transaction is one statement row. Amount is signed: positive is an inflow,
// negative an outflow.
type Transaction struct {
	ID                int64           `json:"id"`
	Date              time.Time       `json:"date"`
	Description       string          `json:"description"`
	Amount            decimal.Decimal `json:"amount"`
	SourceAccountID   int64           `json:"source_account_id"`
	SourceAccountName string          `json:"source_account"`
	NormalizedMemo    *string         `json:"normalized_memo,omitempty"`
	CategoryID        *int64          `json:"category_id,omitempty"`
	CategoryName      string          `json:"category,omitempty"`
	ImportID          string          `json:"import_id,omitempty"`
}

// IsCategorized reports whether a category has been assigned.
func (t Transaction) IsCategorized() bool {
	return t.CategoryID != nil
}

// IsOutflow reports whether money leaves the source account.
func (t Transaction) IsOutflow() bool {
	return t.Amount.IsNegative()
}

// Posting is one side of a double-entry record. Exactly one of Debit and
// Credit is non-zero and neither is negative.
type Posting struct {
	ID            int64           `json:"id"`
	TransactionID int64           `json:"transaction_id"`
	AccountID     int64           `json:"account_id"`
	AccountName   string          `json:"account"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
}

// Rule assigns CategoryID to transactions whose description matches Pattern
// and whose amount lies within the optional inclusive bounds.
type Rule struct {
	ID           int64            `json:"id"`
	Pattern      string           `json:"pattern"`
	CategoryID   int64            `json:"category_id"`
	CategoryName string           `json:"category"`
	AmountMin    *decimal.Decimal `json:"amount_min,omitempty"`
	AmountMax    *decimal.Decimal `json:"amount_max,omitempty"`
	Priority     int              `json:"priority"`
	Active       bool             `json:"active"`
}

// DefaultRulePriority is used when a rule is authored without a priority.
const DefaultRulePriority = 100

// PeriodClosure records a closed, inclusive date range.
type PeriodClosure struct {
	ID          int64     `json:"id"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
	ClosedAt    time.Time `json:"closed_at"`
}

// Covers reports whether date falls inside the closure, bounds included.
func (c PeriodClosure) Covers(date time.Time) bool {
	return !date.Before(c.PeriodStart) && !date.After(c.PeriodEnd)
}

// ImportMapping names the source columns used by an import.
type ImportMapping struct {
	DateColumn        string `json:"date_column" yaml:"date_column" mapstructure:"date_column"`
	DescriptionColumn string `json:"description_column" yaml:"description_column" mapstructure:"description_column"`
	AmountColumn      string `json:"amount_column" yaml:"amount_column" mapstructure:"amount_column"`
	SourceAccountName string `json:"source_account_name" yaml:"source_account_name" mapstructure:"source_account"`
}

// ImportBatch records the provenance of one import run.
type ImportBatch struct {
	ID              string    `json:"id"`
	Source          string    `json:"source"`
	SourceAccountID int64     `json:"source_account_id"`
	RowCount        int       `json:"row_count"`
	SkippedCount    int       `json:"skipped_count"`
	ImportedAt      time.Time `json:"imported_at"`
}
