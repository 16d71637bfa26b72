package store

import (
	"context"
	"database/sql"
	"fmt"

	"fjacquet/finledger/internal/models"
)

const ruleSelect = `
	SELECT r.id, r.pattern, r.category_id, c.name, r.amount_min_cents, r.amount_max_cents,
		r.priority, r.active
	FROM rules r
	JOIN categories c ON c.id = r.category_id`

// InsertRule stores r and returns its id.
func (q *Queries) InsertRule(ctx context.Context, r models.Rule) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO rules (pattern, category_id, amount_min_cents, amount_max_cents, priority, active)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.Pattern, r.CategoryID, nullCents(r.AmountMin), nullCents(r.AmountMax), r.Priority, boolInt(r.Active))
	if err != nil {
		return 0, fmt.Errorf("failed to insert rule %q: %w", r.Pattern, translate("rules", err))
	}
	return res.LastInsertId()
}

// GetRule returns the rule with the given id.
func (q *Queries) GetRule(ctx context.Context, id int64) (models.Rule, error) {
	r, err := scanRule(q.db.QueryRowContext(ctx, ruleSelect+` WHERE r.id = ?`, id))
	if err != nil {
		return models.Rule{}, notFound(err, "rule", id)
	}
	return r, nil
}

// ListRules returns rules in evaluation order: priority ascending, then id.
func (q *Queries) ListRules(ctx context.Context, activeOnly bool) ([]models.Rule, error) {
	query := ruleSelect
	if activeOnly {
		query += ` WHERE r.active = 1`
	}
	query += ` ORDER BY r.priority ASC, r.id ASC`

	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	defer rows.Close()

	var rules []models.Rule
	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

// SetRuleActive enables or disables a rule.
func (q *Queries) SetRuleActive(ctx context.Context, id int64, active bool) error {
	res, err := q.db.ExecContext(ctx, `UPDATE rules SET active = ? WHERE id = ?`, boolInt(active), id)
	if err != nil {
		return fmt.Errorf("failed to update rule %d: %w", id, err)
	}
	return requireAffected(res, "rule", id)
}

func scanRule(row rowScanner) (models.Rule, error) {
	var (
		r          models.Rule
		minCents   sql.NullInt64
		maxCents   sql.NullInt64
		activeFlag int
	)
	if err := row.Scan(&r.ID, &r.Pattern, &r.CategoryID, &r.CategoryName, &minCents, &maxCents, &r.Priority, &activeFlag); err != nil {
		return models.Rule{}, err
	}
	r.AmountMin = decimalPtr(minCents)
	r.AmountMax = decimalPtr(maxCents)
	r.Active = activeFlag != 0
	return r, nil
}
