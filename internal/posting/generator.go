// Package posting expands transactions into balanced double-entry postings.
package posting

import (
	"context"
	"errors"
	"fmt"

	"fjacquet/finledger/internal/closure"
	"fjacquet/finledger/internal/ledgererror"
	"fjacquet/finledger/internal/logging"
	"fjacquet/finledger/internal/models"
	"fjacquet/finledger/internal/store"
)

// Generator writes postings.
type Generator struct {
	store  *store.Store
	guard  *closure.Guard
	logger logging.Logger
}

// NewGenerator creates a posting generator. A nil guard disables closure
// checks.
func NewGenerator(s *store.Store, guard *closure.Guard, logger logging.Logger) *Generator {
	return &Generator{store: s, guard: guard, logger: logging.OrDiscard(logger)}
}

// GenerateForTransaction replaces the postings of one transaction with a
// fresh balanced pair. Running it again yields the same postings. It fails
// with ErrPeriodClosed when the transaction lies in a closed period.
func (g *Generator) GenerateForTransaction(ctx context.Context, txID int64) (int, error) {
	written := 0
	err := g.store.WithTx(ctx, func(q *store.Queries) error {
		txn, err := q.GetTransaction(ctx, txID)
		if err != nil {
			return err
		}
		if err := g.guard.Check(ctx, q, txn.Date); err != nil {
			return err
		}
		written, err = generate(ctx, q, NewAccountFactory(q), txn)
		return err
	})
	if err != nil {
		return 0, err
	}

	g.logger.Info("Posted transaction",
		logging.F(logging.FieldTransactionID, txID),
		logging.F(logging.FieldCount, written))
	return written, nil
}

// GenerateAll posts up to limit transactions that have no postings yet,
// oldest first, in one unit of work. Zero-amount transactions and, when
// closures are enforced, transactions in closed periods are left alone.
// It returns the number of transactions posted.
func (g *Generator) GenerateAll(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		return 0, nil
	}

	posted := 0
	err := g.store.WithTx(ctx, func(q *store.Queries) error {
		closed, err := g.guard.Load(ctx, q)
		if err != nil {
			return err
		}
		factory := NewAccountFactory(q)

		var after *store.Cursor
		for posted < limit {
			page, err := q.ListTransactions(ctx, store.TransactionFilter{
				UnpostedOnly: true,
				ExcludeZero:  true,
				After:        after,
				Limit:        limit - posted,
			})
			if err != nil {
				return err
			}
			if len(page) == 0 {
				return nil
			}

			for _, txn := range page {
				if closed.Closed(txn.Date) {
					continue
				}
				if _, err := generate(ctx, q, factory, txn); err != nil {
					return err
				}
				posted++
			}

			last := page[len(page)-1]
			after = &store.Cursor{Date: last.Date, ID: last.ID}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	g.logger.Info("Generated postings",
		logging.F(logging.FieldCount, posted),
		logging.F(logging.FieldLimit, limit))
	return posted, nil
}

// generate deletes existing postings of txn and writes the balanced pair.
func generate(ctx context.Context, q *store.Queries, factory *AccountFactory, txn models.Transaction) (int, error) {
	if txn.Amount.IsZero() {
		return 0, fmt.Errorf("transaction %d: %w", txn.ID, ledgererror.ErrZeroAmount)
	}

	counterpart, err := factory.Counterpart(ctx, txn)
	if err != nil {
		return 0, fmt.Errorf("transaction %d: %w", txn.ID, err)
	}

	if _, err := q.DeletePostings(ctx, txn.ID); err != nil {
		return 0, err
	}

	amount := txn.Amount.Abs()
	source := models.Posting{TransactionID: txn.ID, AccountID: txn.SourceAccountID}
	other := models.Posting{TransactionID: txn.ID, AccountID: counterpart}
	if txn.IsOutflow() {
		source.Credit = amount
		other.Debit = amount
	} else {
		source.Debit = amount
		other.Credit = amount
	}

	for _, p := range []models.Posting{source, other} {
		if _, err := q.InsertPosting(ctx, p); err != nil {
			return 0, err
		}
	}
	return 2, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, ledgererror.ErrNotFound)
}
