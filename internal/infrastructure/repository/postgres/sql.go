package postgres

import (
	"context"
	"database/sql/driver"
	"net"

	"github.com/cockroachdb/errors"
	"github.com/lib/pq"
	"github.com/riskibarqy/fixture-sync/internal/usecase"
)

// storeError marks every database failure as ErrStoreUnavailable and keeps the
// SQLSTATE in the message when the driver reports one.
func storeError(err error, op string) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		err = errors.Wrapf(err, "sqlstate=%s class=%s", pqErr.Code, pqErr.Code.Class().Name())
	}
	if isConnectionFailure(err) {
		err = errors.WithHint(err, "database connection lost; the next scheduled run retries")
	}
	return errors.Mark(errors.Wrap(err, op), usecase.ErrStoreUnavailable)
}

// isConnectionFailure reports errors after which the pool connection is
// unusable: driver resets, network errors and Postgres class 08 and 57P.
func isConnectionFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		code := string(pqErr.Code)
		return pqErr.Code.Class() == "08" || (len(code) >= 3 && code[:3] == "57P")
	}
	return false
}
