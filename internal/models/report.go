package models

import "github.com/shopspring/decimal"

// The report rows below are the output contract for presentation layers.
// Field names must not change.

// CashflowMonth is one calendar month of cashflow.
type CashflowMonth struct {
	Month    string          `json:"month" csv:"month"`
	Income   decimal.Decimal `json:"income" csv:"income"`
	Expenses decimal.Decimal `json:"expenses" csv:"expenses"`
	Net      decimal.Decimal `json:"net" csv:"net"`
}

// CategoryTotal is the total outflow attributed to one category.
type CategoryTotal struct {
	Category string          `json:"category" csv:"category"`
	Amount   decimal.Decimal `json:"amount" csv:"amount"`
}

// AccountBalance is debits minus credits over an account's full history.
type AccountBalance struct {
	Account string          `json:"account" csv:"account"`
	Balance decimal.Decimal `json:"balance" csv:"balance"`
}

// ReconciliationReport summarises one period. OpeningBalance is always zero.
type ReconciliationReport struct {
	PeriodStart      string          `json:"period_start" csv:"period_start"`
	PeriodEnd        string          `json:"period_end" csv:"period_end"`
	OpeningBalance   decimal.Decimal `json:"opening_balance" csv:"opening_balance"`
	Inflows          decimal.Decimal `json:"inflows" csv:"inflows"`
	Outflows         decimal.Decimal `json:"outflows" csv:"outflows"`
	ClosingBalance   decimal.Decimal `json:"closing_balance" csv:"closing_balance"`
	TransactionCount int             `json:"transaction_count" csv:"transaction_count"`
}

// RuleMatch is a predicted or applied category assignment.
type RuleMatch struct {
	TransactionID int64  `json:"transaction_id" csv:"transaction_id"`
	RuleID        int64  `json:"rule_id" csv:"rule_id"`
	CategoryID    int64  `json:"category_id" csv:"category_id"`
	CategoryName  string `json:"category" csv:"category"`
}
