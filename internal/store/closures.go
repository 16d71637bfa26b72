package store

import (
	"context"
	"fmt"
	"time"

	"fjacquet/finledger/internal/models"
)

const closureSelect = `SELECT id, period_start, period_end, closed_at FROM period_closures`

// InsertClosure records a closed period.
func (q *Queries) InsertClosure(ctx context.Context, c models.PeriodClosure) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO period_closures (period_start, period_end, closed_at) VALUES (?, ?, ?)`,
		isoDate(c.PeriodStart), isoDate(c.PeriodEnd), c.ClosedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("failed to close period %s..%s: %w",
			isoDate(c.PeriodStart), isoDate(c.PeriodEnd), translate("period_closures", err))
	}
	return res.LastInsertId()
}

// ListClosures returns every closure ordered by period start.
func (q *Queries) ListClosures(ctx context.Context) ([]models.PeriodClosure, error) {
	rows, err := q.db.QueryContext(ctx, closureSelect+` ORDER BY period_start, period_end, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list closures: %w", err)
	}
	defer rows.Close()

	var closures []models.PeriodClosure
	for rows.Next() {
		c, err := scanClosure(rows)
		if err != nil {
			return nil, err
		}
		closures = append(closures, c)
	}
	return closures, rows.Err()
}

// ClosureCovering returns the earliest closure containing date, or nil when
// the date is open.
func (q *Queries) ClosureCovering(ctx context.Context, date time.Time) (*models.PeriodClosure, error) {
	d := isoDate(date)
	rows, err := q.db.QueryContext(ctx,
		closureSelect+` WHERE period_start <= ? AND period_end >= ? ORDER BY period_start, id LIMIT 1`, d, d)
	if err != nil {
		return nil, fmt.Errorf("failed to look up closure for %s: %w", d, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	c, err := scanClosure(rows)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func scanClosure(row rowScanner) (models.PeriodClosure, error) {
	var (
		c                 models.PeriodClosure
		start, end, stamp string
		err               error
	)
	if err := row.Scan(&c.ID, &start, &end, &stamp); err != nil {
		return models.PeriodClosure{}, err
	}
	if c.PeriodStart, err = parseDate(start); err != nil {
		return models.PeriodClosure{}, err
	}
	if c.PeriodEnd, err = parseDate(end); err != nil {
		return models.PeriodClosure{}, err
	}
	if c.ClosedAt, err = time.Parse(time.RFC3339, stamp); err != nil {
		return models.PeriodClosure{}, err
	}
	return c, nil
}
