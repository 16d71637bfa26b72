// Package category maintains the category tree.
package category

import (
	"context"
	"fmt"

	"fjacquet/finledger/internal/ledgererror"
	"fjacquet/finledger/internal/logging"
	"fjacquet/finledger/internal/models"
	"fjacquet/finledger/internal/store"
)

// Service creates and rearranges categories.
type Service struct {
	store  *store.Store
	logger logging.Logger
}

// NewService creates a category service.
func NewService(s *store.Store, logger logging.Logger) *Service {
	return &Service{store: s, logger: logging.OrDiscard(logger)}
}

// Create adds a category under parentName, or as a root when parentName is
// empty.
func (s *Service) Create(ctx context.Context, name, parentName string) (models.Category, error) {
	var created models.Category
	err := s.store.WithTx(ctx, func(q *store.Queries) error {
		var err error
		created, err = Create(ctx, q, name, parentName)
		return err
	})
	if err != nil {
		return models.Category{}, err
	}
	s.logger.Info("Created category", logging.F(logging.FieldCategory, name))
	return created, nil
}

// Create adds a category inside an existing unit of work.
func Create(ctx context.Context, q *store.Queries, name, parentName string) (models.Category, error) {
	var parentID *int64
	if parentName != "" {
		parent, err := q.GetCategoryByName(ctx, parentName)
		if err != nil {
			return models.Category{}, fmt.Errorf("parent of %q: %w", name, err)
		}
		parentID = &parent.ID
	}
	return q.CreateCategory(ctx, name, parentID)
}

// SetParent moves a category under parentName, or to the root when
// parentName is empty. Moves that would create a cycle fail with
// ErrCategoryCycle.
func (s *Service) SetParent(ctx context.Context, name, parentName string) error {
	err := s.store.WithTx(ctx, func(q *store.Queries) error {
		return SetParent(ctx, q, name, parentName)
	})
	if err != nil {
		return err
	}
	s.logger.Info("Moved category",
		logging.F(logging.FieldCategory, name),
		logging.F("parent", parentName))
	return nil
}

// SetParent moves a category inside an existing unit of work.
func SetParent(ctx context.Context, q *store.Queries, name, parentName string) error {
	child, err := q.GetCategoryByName(ctx, name)
	if err != nil {
		return err
	}
	if parentName == "" {
		return q.SetCategoryParent(ctx, child.ID, nil)
	}

	parent, err := q.GetCategoryByName(ctx, parentName)
	if err != nil {
		return fmt.Errorf("parent of %q: %w", name, err)
	}
	if err := checkAcyclic(ctx, q, child.ID, parent); err != nil {
		return err
	}
	return q.SetCategoryParent(ctx, child.ID, &parent.ID)
}

// checkAcyclic walks from the proposed parent to the root and fails if it
// meets childID.
func checkAcyclic(ctx context.Context, q *store.Queries, childID int64, parent models.Category) error {
	seen := map[int64]bool{}
	current := parent
	for {
		if current.ID == childID {
			return fmt.Errorf("%w: %q cannot be placed under %q", ledgererror.ErrCategoryCycle,
				childName(ctx, q, childID), parent.Name)
		}
		if seen[current.ID] {
			return fmt.Errorf("%w: existing loop through %q", ledgererror.ErrCategoryCycle, current.Name)
		}
		seen[current.ID] = true

		if current.ParentID == nil {
			return nil
		}
		next, err := q.GetCategory(ctx, *current.ParentID)
		if err != nil {
			return err
		}
		current = next
	}
}

func childName(ctx context.Context, q *store.Queries, id int64) string {
	c, err := q.GetCategory(ctx, id)
	if err != nil {
		return fmt.Sprint(id)
	}
	return c.Name
}

// List returns every category ordered by name.
func (s *Service) List(ctx context.Context) ([]models.Category, error) {
	return s.store.ListCategories(ctx)
}

// Path returns the names from the root down to the named category.
func (s *Service) Path(ctx context.Context, name string) ([]string, error) {
	current, err := s.store.GetCategoryByName(ctx, name)
	if err != nil {
		return nil, err
	}

	path := []string{current.Name}
	seen := map[int64]bool{current.ID: true}
	for current.ParentID != nil {
		if seen[*current.ParentID] {
			return nil, fmt.Errorf("%w: loop above %q", ledgererror.ErrCategoryCycle, name)
		}
		current, err = s.store.GetCategory(ctx, *current.ParentID)
		if err != nil {
			return nil, err
		}
		seen[current.ID] = true
		path = append([]string{current.Name}, path...)
	}
	return path, nil
}
