package errors

import (
	"context"
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes listing reads can hit
const (
	pgUndefinedTable  = "42P01"
	pgUndefinedColumn = "42703"
	pgQueryCanceled   = "57014"
	pgCannotConnect   = "57P03"
	pgAdminShutdown   = "57P01"
)

// PgCode returns the SQLSTATE of the postgres error in the chain, empty when none
func PgCode(err error) string {
	var pe *pgconn.PgError
	if stderrs.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// IsUndefinedTable reports a query against a relation that does not exist
func IsUndefinedTable(err error) bool { return PgCode(err) == pgUndefinedTable }

// IsUndefinedColumn reports a query naming a column that does not exist
func IsUndefinedColumn(err error) bool { return PgCode(err) == pgUndefinedColumn }

// FromPostgres classifies a postgres failure, keeping the cause wrapped
// nil and already coded errors pass through unchanged
func FromPostgres(err error, op string) error {
	if err == nil {
		return nil
	}
	if _, ok := As(err); ok {
		return err
	}
	switch code := PgCode(err); {
	case code == pgQueryCanceled, stderrs.Is(err, context.DeadlineExceeded):
		return Wrapf(err, ErrorCodeTimeout, "%s timed out", op)
	case code == pgCannotConnect, code == pgAdminShutdown, strings.HasPrefix(code, "08"):
		return Wrapf(err, ErrorCodeUnavailable, "%s: postgres unavailable", op)
	case code == "" && isConnErr(err):
		return Wrapf(err, ErrorCodeUnavailable, "%s: postgres unavailable", op)
	}
	return Wrapf(err, ErrorCodeDB, "%s failed", op)
}

func isConnErr(err error) bool {
	var ce *pgconn.ConnectError
	return stderrs.As(err, &ce) || pgconn.SafeToRetry(err)
}
