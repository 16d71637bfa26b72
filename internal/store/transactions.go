package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"fjacquet/finledger/internal/ledgererror"
	"fjacquet/finledger/internal/models"
)

const transactionColumns = `
	t.id, t.date, t.description, t.amount_cents, t.source_account_id, a.name,
	t.normalized_memo, t.category_id, c.name, t.import_id`

const transactionFrom = `
	FROM transactions t
	JOIN accounts a ON a.id = t.source_account_id
	LEFT JOIN categories c ON c.id = t.category_id`

// Cursor is a keyset position in (date, id) order.
type Cursor struct {
	Date time.Time
	ID   int64
}

// TransactionFilter narrows ListTransactions. Zero values disable a filter.
type TransactionFilter struct {
	From              time.Time
	To                time.Time
	UncategorizedOnly bool
	UnpostedOnly      bool
	ExcludeZero       bool
	Descending        bool
	// After continues a scan past the given position, in the filter's order.
	After *Cursor
	Limit int
}

// InsertTransaction stores t and returns its id.
func (q *Queries) InsertTransaction(ctx context.Context, t models.Transaction) (int64, error) {
	if err := models.CheckRange(t.Amount); err != nil {
		return 0, err
	}
	var importID sql.NullString
	if t.ImportID != "" {
		importID = sql.NullString{String: t.ImportID, Valid: true}
	}

	res, err := q.db.ExecContext(ctx, `
		INSERT INTO transactions
			(date, description, amount_cents, source_account_id, normalized_memo, category_id, import_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		isoDate(t.Date), t.Description, models.ToCents(t.Amount), t.SourceAccountID,
		nullString(t.NormalizedMemo), nullInt64(t.CategoryID), importID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert transaction: %w", translate("transactions", err))
	}
	return res.LastInsertId()
}

// GetTransaction returns the transaction with the given id.
func (q *Queries) GetTransaction(ctx context.Context, id int64) (models.Transaction, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+transactionColumns+transactionFrom+` WHERE t.id = ?`, id)
	t, err := scanTransaction(row)
	if err != nil {
		return models.Transaction{}, notFound(err, "transaction", id)
	}
	return t, nil
}

// ListTransactions returns transactions ordered by (date, id), ascending
// unless the filter asks for descending order.
func (q *Queries) ListTransactions(ctx context.Context, f TransactionFilter) ([]models.Transaction, error) {
	var (
		where []string
		args  []interface{}
	)
	if !f.From.IsZero() {
		where = append(where, "t.date >= ?")
		args = append(args, isoDate(f.From))
	}
	if !f.To.IsZero() {
		where = append(where, "t.date <= ?")
		args = append(args, isoDate(f.To))
	}
	if f.UncategorizedOnly {
		where = append(where, "t.category_id IS NULL")
	}
	if f.UnpostedOnly {
		where = append(where, "NOT EXISTS (SELECT 1 FROM postings p WHERE p.transaction_id = t.id)")
	}
	if f.ExcludeZero {
		where = append(where, "t.amount_cents <> 0")
	}

	order := "ASC"
	cmp := ">"
	if f.Descending {
		order = "DESC"
		cmp = "<"
	}
	if f.After != nil {
		where = append(where, fmt.Sprintf("(t.date %s ? OR (t.date = ? AND t.id %s ?))", cmp, cmp))
		d := isoDate(f.After.Date)
		args = append(args, d, d, f.After.ID)
	}

	var sb strings.Builder
	sb.WriteString("SELECT " + transactionColumns + transactionFrom)
	if len(where) > 0 {
		sb.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	fmt.Fprintf(&sb, " ORDER BY t.date %s, t.id %s", order, order)
	if f.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, f.Limit)
	}

	rows, err := q.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

// UpdateTransactionCategory assigns categoryID (nil clears it).
func (q *Queries) UpdateTransactionCategory(ctx context.Context, id int64, categoryID *int64) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE transactions SET category_id = ? WHERE id = ?`, nullInt64(categoryID), id)
	if err != nil {
		return fmt.Errorf("failed to categorize transaction %d: %w", id, translate("transactions", err))
	}
	return requireAffected(res, "transaction", id)
}

// DeleteTransaction removes a transaction; its postings go with it.
func (q *Queries) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %d: %w", id, translate("transactions", err))
	}
	return requireAffected(res, "transaction", id)
}

// CountUncategorized returns the number of transactions without a category.
func (q *Queries) CountUncategorized(ctx context.Context) (int, error) {
	var n int
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE category_id IS NULL`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count uncategorized transactions: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (models.Transaction, error) {
	var (
		t            models.Transaction
		date         string
		cents        int64
		memo         sql.NullString
		categoryID   sql.NullInt64
		categoryName sql.NullString
		importID     sql.NullString
	)
	err := row.Scan(&t.ID, &date, &t.Description, &cents, &t.SourceAccountID, &t.SourceAccountName,
		&memo, &categoryID, &categoryName, &importID)
	if err != nil {
		return models.Transaction{}, err
	}

	t.Date, err = parseDate(date)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("%w: transaction %d has stored date %q", ledgererror.ErrInvariant, t.ID, date)
	}
	t.Amount = models.FromCents(cents)
	t.NormalizedMemo = stringPtr(memo)
	t.CategoryID = int64Ptr(categoryID)
	t.CategoryName = categoryName.String
	t.ImportID = importID.String
	return t, nil
}
