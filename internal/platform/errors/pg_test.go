package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func pgErr(code string) error {
	return fmt.Errorf("select grants: %w", &pgconn.PgError{Code: code, Message: "boom"})
}

func TestPgPredicates(t *testing.T) {
	assert.True(t, IsUndefinedTable(pgErr("42P01")))
	assert.False(t, IsUndefinedTable(pgErr("42703")))
	assert.True(t, IsUndefinedColumn(pgErr("42703")))
	assert.Equal(t, "", PgCode(stderrs.New("plain")))

	wrapped := FromPostgres(pgErr("42P01"), "grants.search")
	assert.True(t, IsUndefinedTable(wrapped), "classification keeps the pg error reachable")
}

func TestFromPostgres(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code ErrorCode
	}{
		{"statement timeout", pgErr("57014"), ErrorCodeTimeout},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), ErrorCodeTimeout},
		{"starting up", pgErr("57P03"), ErrorCodeUnavailable},
		{"admin shutdown", pgErr("57P01"), ErrorCodeUnavailable},
		{"connection class", pgErr("08006"), ErrorCodeUnavailable},
		{"missing table", pgErr("42P01"), ErrorCodeDB},
		{"syntax", pgErr("42601"), ErrorCodeDB},
		{"foreign", stderrs.New("weird"), ErrorCodeDB},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := FromPostgres(c.err, "grants.search")
			assert.Equal(t, c.code, CodeOf(got))
			assert.ErrorIs(t, got, c.err)
		})
	}

	assert.NoError(t, FromPostgres(nil, "x"))
	coded := NotFoundf("listing")
	assert.Same(t, coded, FromPostgres(coded, "x"))
}
