// Package closure records closed accounting periods and guards mutations
// that fall inside them.
package closure

import (
	"context"
	"fmt"
	"time"

	"fjacquet/finledger/internal/dateutils"
	"fjacquet/finledger/internal/ledgererror"
	"fjacquet/finledger/internal/logging"
	"fjacquet/finledger/internal/models"
	"fjacquet/finledger/internal/store"
)

// Service manages period closures.
type Service struct {
	store  *store.Store
	logger logging.Logger
	now    func() time.Time
}

// NewService creates a closure service.
func NewService(s *store.Store, logger logging.Logger) *Service {
	return &Service{store: s, logger: logging.OrDiscard(logger), now: time.Now}
}

// Close records the inclusive period [start, end] as closed. Overlapping
// periods are allowed; the exact same pair twice is a duplicate.
func (s *Service) Close(ctx context.Context, start, end time.Time) (models.PeriodClosure, error) {
	if end.Before(start) {
		return models.PeriodClosure{}, ledgererror.Invalid("period start %s is after end %s",
			dateutils.ToISODate(start), dateutils.ToISODate(end))
	}

	c := models.PeriodClosure{
		PeriodStart: start,
		PeriodEnd:   end,
		ClosedAt:    s.now().UTC().Truncate(time.Second),
	}
	id, err := s.store.InsertClosure(ctx, c)
	if err != nil {
		return models.PeriodClosure{}, err
	}
	c.ID = id

	s.logger.Info("Closed period",
		logging.F(logging.FieldPeriodStart, dateutils.ToISODate(start)),
		logging.F(logging.FieldPeriodEnd, dateutils.ToISODate(end)))
	return c, nil
}

// List returns every closure ordered by period start.
func (s *Service) List(ctx context.Context) ([]models.PeriodClosure, error) {
	return s.store.ListClosures(ctx)
}

// Covering returns the closure containing date, or nil.
func (s *Service) Covering(ctx context.Context, date time.Time) (*models.PeriodClosure, error) {
	return s.store.ClosureCovering(ctx, date)
}

// Guard decides whether a dated mutation is allowed. With Enforce off every
// date is open and closures are informational only.
type Guard struct {
	Enforce bool
}

// NewGuard creates a guard.
func NewGuard(enforce bool) *Guard {
	return &Guard{Enforce: enforce}
}

// Check returns an error wrapping ErrPeriodClosed when date lies in a closed
// period.
func (g *Guard) Check(ctx context.Context, q *store.Queries, date time.Time) error {
	if g == nil || !g.Enforce {
		return nil
	}
	c, err := q.ClosureCovering(ctx, date)
	if err != nil {
		return err
	}
	if c != nil {
		return fmt.Errorf("%w: %s falls in %s..%s", ledgererror.ErrPeriodClosed,
			dateutils.ToISODate(date), dateutils.ToISODate(c.PeriodStart), dateutils.ToISODate(c.PeriodEnd))
	}
	return nil
}

// Periods is a loaded snapshot of closures for batch scans.
type Periods []models.PeriodClosure

// Closed reports whether any period covers date.
func (p Periods) Closed(date time.Time) bool {
	for _, c := range p {
		if c.Covers(date) {
			return true
		}
	}
	return false
}

// Load returns the closures a batch operation must skip. It is empty when
// enforcement is off.
func (g *Guard) Load(ctx context.Context, q *store.Queries) (Periods, error) {
	if g == nil || !g.Enforce {
		return nil, nil
	}
	closures, err := q.ListClosures(ctx)
	if err != nil {
		return nil, err
	}
	return Periods(closures), nil
}
