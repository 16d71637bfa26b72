package rules

import (
	"context"
	"fmt"

	"fjacquet/finledger/internal/closure"
	"fjacquet/finledger/internal/logging"
	"fjacquet/finledger/internal/models"
	"fjacquet/finledger/internal/store"
)

// Engine runs the active rules over uncategorized transactions.
type Engine struct {
	store  *store.Store
	guard  *closure.Guard
	logger logging.Logger
}

// NewEngine creates a rules engine. A nil guard disables closure checks.
func NewEngine(s *store.Store, guard *closure.Guard, logger logging.Logger) *Engine {
	return &Engine{store: s, guard: guard, logger: logging.OrDiscard(logger)}
}

func loadMatcher(ctx context.Context, q *store.Queries) (*Matcher, error) {
	active, err := q.ListRules(ctx, true)
	if err != nil {
		return nil, err
	}
	return NewMatcher(active)
}

// DryRun reports the assignment the rules would make for up to limit
// uncategorized transactions, most recent first. Nothing is written.
func (e *Engine) DryRun(ctx context.Context, limit int) ([]models.RuleMatch, error) {
	if limit <= 0 {
		return nil, nil
	}
	q := e.store.Queries

	matcher, err := loadMatcher(ctx, q)
	if err != nil {
		return nil, err
	}
	closed, err := e.guard.Load(ctx, q)
	if err != nil {
		return nil, err
	}

	txns, err := q.ListTransactions(ctx, store.TransactionFilter{
		UncategorizedOnly: true,
		Descending:        true,
		Limit:             limit,
	})
	if err != nil {
		return nil, err
	}

	var matches []models.RuleMatch
	for _, t := range txns {
		if closed.Closed(t.Date) {
			continue
		}
		if r, ok := matcher.Match(t.Description, t.Amount); ok {
			matches = append(matches, models.RuleMatch{
				TransactionID: t.ID,
				RuleID:        r.ID,
				CategoryID:    r.CategoryID,
				CategoryName:  r.CategoryName,
			})
		}
	}

	e.logger.Debug("Rules dry run finished",
		logging.F(logging.FieldCount, len(matches)),
		logging.F(logging.FieldLimit, limit))
	return matches, nil
}

// Apply categorizes every uncategorized transaction a rule matches, oldest
// first, reading batchSize transactions at a time. All assignments commit
// together. It returns the number of transactions updated.
func (e *Engine) Apply(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}

	updated := 0
	err := e.store.WithTx(ctx, func(q *store.Queries) error {
		matcher, err := loadMatcher(ctx, q)
		if err != nil {
			return err
		}
		if matcher.Len() == 0 {
			return nil
		}
		closed, err := e.guard.Load(ctx, q)
		if err != nil {
			return err
		}

		var after *store.Cursor
		for {
			page, err := q.ListTransactions(ctx, store.TransactionFilter{
				UncategorizedOnly: true,
				After:             after,
				Limit:             batchSize,
			})
			if err != nil {
				return err
			}
			if len(page) == 0 {
				return nil
			}

			for _, t := range page {
				if closed.Closed(t.Date) {
					continue
				}
				r, ok := matcher.Match(t.Description, t.Amount)
				if !ok {
					continue
				}
				categoryID := r.CategoryID
				if err := q.UpdateTransactionCategory(ctx, t.ID, &categoryID); err != nil {
					return err
				}
				updated++
				e.logger.Debug("Categorized transaction",
					logging.F(logging.FieldTransactionID, t.ID),
					logging.F(logging.FieldRuleID, r.ID),
					logging.F(logging.FieldCategory, r.CategoryName))
			}

			last := page[len(page)-1]
			after = &store.Cursor{Date: last.Date, ID: last.ID}
		}
	})
	if err != nil {
		return 0, err
	}

	e.logger.Info("Applied rules", logging.F(logging.FieldCount, updated))
	return updated, nil
}
