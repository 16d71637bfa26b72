package store

import (
	"database/sql"
	"errors"
	"time"

	"fjacquet/finledger/internal/dateutils"
	"fjacquet/finledger/internal/ledgererror"
	"fjacquet/finledger/internal/models"

	"github.com/shopspring/decimal"
)

func isNotFound(err error) bool {
	return errors.Is(err, ledgererror.ErrNotFound)
}

func nullInt64(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func nullCents(d *decimal.Decimal) sql.NullInt64 {
	if d == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: models.ToCents(*d), Valid: true}
}

func decimalPtr(n sql.NullInt64) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	d := models.FromCents(n.Int64)
	return &d
}

func isoDate(t time.Time) string {
	return dateutils.ToISODate(t)
}

func parseDate(s string) (time.Time, error) {
	return dateutils.ParseISO(s)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
