package store

import (
	"context"
	"fmt"
	"time"

	"fjacquet/finledger/internal/models"
)

// PeriodTotals aggregates the transactions dated inside a period.
type PeriodTotals struct {
	Inflows  int64
	Outflows int64
	Count    int
}

// CashflowByMonth sums inflows and outflows per calendar month, inclusive of
// both bounds, month ascending.
func (q *Queries) CashflowByMonth(ctx context.Context, from, to time.Time) ([]models.CashflowMonth, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT substr(date, 1, 7) AS month,
			SUM(CASE WHEN amount_cents > 0 THEN amount_cents ELSE 0 END),
			SUM(CASE WHEN amount_cents < 0 THEN -amount_cents ELSE 0 END)
		FROM transactions
		WHERE date BETWEEN ? AND ?
		GROUP BY month
		ORDER BY month`, isoDate(from), isoDate(to))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate cashflow: %w", err)
	}
	defer rows.Close()

	var months []models.CashflowMonth
	for rows.Next() {
		var (
			m                models.CashflowMonth
			income, expenses int64
		)
		if err := rows.Scan(&m.Month, &income, &expenses); err != nil {
			return nil, err
		}
		m.Income = models.FromCents(income)
		m.Expenses = models.FromCents(expenses)
		m.Net = models.FromCents(income - expenses)
		months = append(months, m)
	}
	return months, rows.Err()
}

// CategoryBreakdown totals the absolute outflows of categorized transactions
// per category, largest first, ties by name.
func (q *Queries) CategoryBreakdown(ctx context.Context, from, to time.Time) ([]models.CategoryTotal, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT c.name, SUM(-t.amount_cents) AS total
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.date BETWEEN ? AND ? AND t.amount_cents < 0
		GROUP BY c.name
		ORDER BY total DESC, c.name ASC`, isoDate(from), isoDate(to))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate categories: %w", err)
	}
	defer rows.Close()

	var totals []models.CategoryTotal
	for rows.Next() {
		var (
			ct    models.CategoryTotal
			cents int64
		)
		if err := rows.Scan(&ct.Category, &cents); err != nil {
			return nil, err
		}
		ct.Amount = models.FromCents(cents)
		totals = append(totals, ct)
	}
	return totals, rows.Err()
}

// AccountBalances returns debits minus credits over all history for every
// account that has postings, ordered by account name.
func (q *Queries) AccountBalances(ctx context.Context) ([]models.AccountBalance, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT a.name, SUM(p.debit_cents) - SUM(p.credit_cents)
		FROM accounts a
		JOIN postings p ON p.account_id = a.id
		GROUP BY a.id, a.name
		ORDER BY a.name`)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate balances: %w", err)
	}
	defer rows.Close()

	var balances []models.AccountBalance
	for rows.Next() {
		var (
			b     models.AccountBalance
			cents int64
		)
		if err := rows.Scan(&b.Account, &cents); err != nil {
			return nil, err
		}
		b.Balance = models.FromCents(cents)
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

// TotalsForPeriod returns inflows, absolute outflows and the transaction
// count for the inclusive period.
func (q *Queries) TotalsForPeriod(ctx context.Context, from, to time.Time) (PeriodTotals, error) {
	var t PeriodTotals
	err := q.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN amount_cents > 0 THEN amount_cents ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN amount_cents < 0 THEN -amount_cents ELSE 0 END), 0),
			COUNT(*)
		FROM transactions
		WHERE date BETWEEN ? AND ?`, isoDate(from), isoDate(to)).Scan(&t.Inflows, &t.Outflows, &t.Count)
	if err != nil {
		return PeriodTotals{}, fmt.Errorf("failed to total period: %w", err)
	}
	return t, nil
}
