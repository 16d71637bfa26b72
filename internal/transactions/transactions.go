// Package transactions provides manual edits of stored transactions.
package transactions

import (
	"context"

	"fjacquet/finledger/internal/closure"
	"fjacquet/finledger/internal/logging"
	"fjacquet/finledger/internal/models"
	"fjacquet/finledger/internal/store"
)

// Service lists and edits transactions, honouring period closures.
type Service struct {
	store  *store.Store
	guard  *closure.Guard
	logger logging.Logger
}

// NewService creates a transaction service. A nil guard disables closure
// checks.
func NewService(s *store.Store, guard *closure.Guard, logger logging.Logger) *Service {
	return &Service{store: s, guard: guard, logger: logging.OrDiscard(logger)}
}

// List returns transactions matching filter.
func (s *Service) List(ctx context.Context, filter store.TransactionFilter) ([]models.Transaction, error) {
	return s.store.ListTransactions(ctx, filter)
}

// SetCategory overrides the category of a transaction. An empty name clears
// it. Existing postings are not regenerated.
func (s *Service) SetCategory(ctx context.Context, txID int64, categoryName string) error {
	err := s.store.WithTx(ctx, func(q *store.Queries) error {
		txn, err := q.GetTransaction(ctx, txID)
		if err != nil {
			return err
		}
		if err := s.guard.Check(ctx, q, txn.Date); err != nil {
			return err
		}

		var categoryID *int64
		if categoryName != "" {
			c, err := q.GetCategoryByName(ctx, categoryName)
			if err != nil {
				return err
			}
			categoryID = &c.ID
		}
		return q.UpdateTransactionCategory(ctx, txID, categoryID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Set transaction category",
		logging.F(logging.FieldTransactionID, txID),
		logging.F(logging.FieldCategory, categoryName))
	return nil
}

// Delete removes a transaction together with its postings.
func (s *Service) Delete(ctx context.Context, txID int64) error {
	err := s.store.WithTx(ctx, func(q *store.Queries) error {
		txn, err := q.GetTransaction(ctx, txID)
		if err != nil {
			return err
		}
		if err := s.guard.Check(ctx, q, txn.Date); err != nil {
			return err
		}
		return q.DeleteTransaction(ctx, txID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Deleted transaction", logging.F(logging.FieldTransactionID, txID))
	return nil
}
