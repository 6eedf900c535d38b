package postgres

import (
	"errors"

	"github.com/lib/pq"

	"teamhub/internal/domain"
)

// mapError classifies constraint and input failures reported by Postgres into
// *domain.StoreError, keeping the *pq.Error as the wrapped cause. Other errors pass through.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	kind := domain.KindForSQLState(string(pqErr.Code))
	if kind == domain.KindUnknown {
		return err
	}
	return &domain.StoreError{
		Kind:       kind,
		Code:       string(pqErr.Code),
		Table:      pqErr.Table,
		Constraint: pqErr.Constraint,
		Detail:     pqErr.Detail,
		Err:        err,
	}
}
