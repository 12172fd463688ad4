package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"carrent-backend/internal/domain"

	"github.com/lib/pq"
)

const (
	pqUniqueViolation      = "23505"
	pqForeignKeyViolation  = "23503"
	pqExclusionViolation   = "23P01"
	pqSerializationFailure = "40001"
	pqLockNotAvailable     = "55P03"
)

// mapError translates driver errors into domain errors, keeping the original
// error in the chain.
func mapError(err error, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFoundf("%s", resource)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqExclusionViolation:
			return fmt.Errorf("%w: %v", domain.ErrCarUnavailable, pqErr.Message)
		case pqUniqueViolation:
			return domain.Conflictf("%s already exists", resource)
		case pqForeignKeyViolation:
			return domain.Conflictf("%s is still referenced", resource)
		case pqSerializationFailure, pqLockNotAvailable:
			return domain.Conflictf("concurrent update of %s", resource)
		}
	}
	return fmt.Errorf("%s: %w", resource, err)
}
