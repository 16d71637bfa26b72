package store

import (
	"context"
	"fmt"

	"fjacquet/finledger/internal/models"

	"github.com/shopspring/decimal"
)

// UnbalancedTransaction describes a posted transaction whose debits and
// credits do not both equal the absolute transaction amount.
type UnbalancedTransaction struct {
	TransactionID int64
	Amount        decimal.Decimal
	Debits        decimal.Decimal
	Credits       decimal.Decimal
}

// InsertPosting stores p and returns its id.
func (q *Queries) InsertPosting(ctx context.Context, p models.Posting) (int64, error) {
	for _, side := range []decimal.Decimal{p.Debit, p.Credit} {
		if err := models.CheckRange(side); err != nil {
			return 0, err
		}
	}
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO postings (transaction_id, account_id, debit_cents, credit_cents)
		VALUES (?, ?, ?, ?)`,
		p.TransactionID, p.AccountID, models.ToCents(p.Debit), models.ToCents(p.Credit))
	if err != nil {
		return 0, fmt.Errorf("failed to insert posting for transaction %d: %w", p.TransactionID, translate("postings", err))
	}
	return res.LastInsertId()
}

// DeletePostings removes every posting of a transaction and returns how many
// were removed.
func (q *Queries) DeletePostings(ctx context.Context, transactionID int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM postings WHERE transaction_id = ?`, transactionID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete postings for transaction %d: %w", transactionID, err)
	}
	return res.RowsAffected()
}

// ListPostings returns the postings of a transaction in insertion order.
func (q *Queries) ListPostings(ctx context.Context, transactionID int64) ([]models.Posting, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT p.id, p.transaction_id, p.account_id, a.name, p.debit_cents, p.credit_cents
		FROM postings p
		JOIN accounts a ON a.id = p.account_id
		WHERE p.transaction_id = ?
		ORDER BY p.id`, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list postings: %w", err)
	}
	defer rows.Close()

	var postings []models.Posting
	for rows.Next() {
		var (
			p             models.Posting
			debit, credit int64
		)
		if err := rows.Scan(&p.ID, &p.TransactionID, &p.AccountID, &p.AccountName, &debit, &credit); err != nil {
			return nil, err
		}
		p.Debit = models.FromCents(debit)
		p.Credit = models.FromCents(credit)
		postings = append(postings, p)
	}
	return postings, rows.Err()
}

// UnbalancedTransactions returns every posted transaction violating
// Σdebit = Σcredit = |amount|, ordered by id.
func (q *Queries) UnbalancedTransactions(ctx context.Context) ([]UnbalancedTransaction, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT t.id, t.amount_cents, SUM(p.debit_cents), SUM(p.credit_cents)
		FROM transactions t
		JOIN postings p ON p.transaction_id = t.id
		GROUP BY t.id, t.amount_cents
		HAVING SUM(p.debit_cents) <> SUM(p.credit_cents)
			OR SUM(p.debit_cents) <> ABS(t.amount_cents)
		ORDER BY t.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to check posting balance: %w", err)
	}
	defer rows.Close()

	var out []UnbalancedTransaction
	for rows.Next() {
		var (
			u                      UnbalancedTransaction
			amount, debit, credits int64
		)
		if err := rows.Scan(&u.TransactionID, &amount, &debit, &credits); err != nil {
			return nil, err
		}
		u.Amount = models.FromCents(amount)
		u.Debits = models.FromCents(debit)
		u.Credits = models.FromCents(credits)
		out = append(out, u)
	}
	return out, rows.Err()
}
