// Package report aggregates the ledger into read-only financial reports.
package report

import (
	"context"
	"time"

	"fjacquet/finledger/internal/dateutils"
	"fjacquet/finledger/internal/ledgererror"
	"fjacquet/finledger/internal/logging"
	"fjacquet/finledger/internal/models"
	"fjacquet/finledger/internal/store"

	"github.com/shopspring/decimal"
)

// Service answers report queries. It never writes.
type Service struct {
	store  *store.Store
	logger logging.Logger
}

// NewService creates a report service.
func NewService(s *store.Store, logger logging.Logger) *Service {
	return &Service{store: s, logger: logging.OrDiscard(logger)}
}

func checkRange(start, end time.Time) error {
	if end.Before(start) {
		return ledgererror.Invalid("report start %s is after end %s",
			dateutils.ToISODate(start), dateutils.ToISODate(end))
	}
	return nil
}

// CashflowByMonth returns income, expenses and net per month between start
// and end inclusive, oldest month first.
func (s *Service) CashflowByMonth(ctx context.Context, start, end time.Time) ([]models.CashflowMonth, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	return s.store.CashflowByMonth(ctx, start, end)
}

// CategoryBreakdown returns the outflow total of each category between start
// and end inclusive, largest first.
func (s *Service) CategoryBreakdown(ctx context.Context, start, end time.Time) ([]models.CategoryTotal, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	return s.store.CategoryBreakdown(ctx, start, end)
}

// AccountBalances returns debits minus credits for every posted account.
func (s *Service) AccountBalances(ctx context.Context) ([]models.AccountBalance, error) {
	return s.store.AccountBalances(ctx)
}

// Reconciliation summarizes the period's transactions. The opening balance
// is always zero.
func (s *Service) Reconciliation(ctx context.Context, start, end time.Time) (models.ReconciliationReport, error) {
	if err := checkRange(start, end); err != nil {
		return models.ReconciliationReport{}, err
	}
	totals, err := s.store.TotalsForPeriod(ctx, start, end)
	if err != nil {
		return models.ReconciliationReport{}, err
	}

	opening := decimal.Zero
	inflows := models.FromCents(totals.Inflows)
	outflows := models.FromCents(totals.Outflows)

	s.logger.Debug("Reconciled period",
		logging.F(logging.FieldPeriodStart, dateutils.ToISODate(start)),
		logging.F(logging.FieldPeriodEnd, dateutils.ToISODate(end)),
		logging.F(logging.FieldCount, totals.Count))

	return models.ReconciliationReport{
		PeriodStart:      dateutils.ToISODate(start),
		PeriodEnd:        dateutils.ToISODate(end),
		OpeningBalance:   opening,
		Inflows:          inflows,
		Outflows:         outflows,
		ClosingBalance:   opening.Add(inflows).Sub(outflows),
		TransactionCount: totals.Count,
	}, nil
}

// UncategorizedCount returns the number of transactions without a category.
func (s *Service) UncategorizedCount(ctx context.Context) (int, error) {
	return s.store.CountUncategorized(ctx)
}
