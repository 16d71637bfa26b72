package store

import (
	"context"
	"database/sql"
	"fmt"

	"fjacquet/finledger/internal/ledgererror"
	"fjacquet/finledger/internal/models"
)

// CreateCategory inserts a category under parentID (nil for a root).
func (q *Queries) CreateCategory(ctx context.Context, name string, parentID *int64) (models.Category, error) {
	if name == "" {
		return models.Category{}, ledgererror.Invalid("category name must not be empty")
	}
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO categories (name, parent_id) VALUES (?, ?)`, name, nullInt64(parentID))
	if err != nil {
		return models.Category{}, fmt.Errorf("failed to create category %q: %w", name, translate("categories", err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Category{}, err
	}
	return models.Category{ID: id, Name: name, ParentID: parentID}, nil
}

// GetCategory returns the category with the given id.
func (q *Queries) GetCategory(ctx context.Context, id int64) (models.Category, error) {
	return q.getCategory(ctx, `SELECT id, name, parent_id FROM categories WHERE id = ?`, id)
}

// GetCategoryByName returns the category with the given name.
func (q *Queries) GetCategoryByName(ctx context.Context, name string) (models.Category, error) {
	return q.getCategory(ctx, `SELECT id, name, parent_id FROM categories WHERE name = ?`, name)
}

func (q *Queries) getCategory(ctx context.Context, query string, key interface{}) (models.Category, error) {
	var (
		c      models.Category
		parent sql.NullInt64
	)
	if err := q.db.QueryRowContext(ctx, query, key).Scan(&c.ID, &c.Name, &parent); err != nil {
		return models.Category{}, notFound(err, "category", key)
	}
	c.ParentID = int64Ptr(parent)
	return c, nil
}

// ListCategories returns every category ordered by name.
func (q *Queries) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT id, name, parent_id FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var (
			c      models.Category
			parent sql.NullInt64
		)
		if err := rows.Scan(&c.ID, &c.Name, &parent); err != nil {
			return nil, err
		}
		c.ParentID = int64Ptr(parent)
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// SetCategoryParent changes the parent of a category. Cycle checks are the
// caller's responsibility.
func (q *Queries) SetCategoryParent(ctx context.Context, id int64, parentID *int64) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE categories SET parent_id = ? WHERE id = ?`, nullInt64(parentID), id)
	if err != nil {
		return fmt.Errorf("failed to update category %d: %w", id, translate("categories", err))
	}
	return requireAffected(res, "category", id)
}

func requireAffected(res sql.Result, entity string, key interface{}) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ledgererror.NotFound(entity, key)
	}
	return nil
}
