package store

import (
	"context"
	"fmt"
	"time"

	"fjacquet/finledger/internal/models"
)

// InsertImportBatch records the start of an import run.
func (q *Queries) InsertImportBatch(ctx context.Context, b models.ImportBatch) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO import_batches (id, source, source_account_id, row_count, skipped_count, imported_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		b.ID, b.Source, b.SourceAccountID, b.RowCount, b.SkippedCount, b.ImportedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to record import batch: %w", translate("import_batches", err))
	}
	return nil
}

// FinishImportBatch stores the final row counts of an import run.
func (q *Queries) FinishImportBatch(ctx context.Context, id string, rowCount, skipped int) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE import_batches SET row_count = ?, skipped_count = ? WHERE id = ?`, rowCount, skipped, id)
	if err != nil {
		return fmt.Errorf("failed to update import batch %s: %w", id, err)
	}
	return requireAffected(res, "import batch", id)
}

// ListImportBatches returns import runs, most recent first.
func (q *Queries) ListImportBatches(ctx context.Context) ([]models.ImportBatch, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, source, source_account_id, row_count, skipped_count, imported_at
		FROM import_batches
		ORDER BY imported_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list import batches: %w", err)
	}
	defer rows.Close()

	var batches []models.ImportBatch
	for rows.Next() {
		var (
			b     models.ImportBatch
			stamp string
		)
		if err := rows.Scan(&b.ID, &b.Source, &b.SourceAccountID, &b.RowCount, &b.SkippedCount, &stamp); err != nil {
			return nil, err
		}
		if b.ImportedAt, err = time.Parse(time.RFC3339, stamp); err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}
