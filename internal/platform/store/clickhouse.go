package store

import (
	"context"
	"errors"
	"fmt"

	"grantdir/internal/platform/store/ch"
)

// chClient is the part of *ch.CH the seam needs
type chClient interface {
	Insert(ctx context.Context, table string, rows [][]any) error
	Query(ctx context.Context, sql string, args ...any) (ch.Rows, error)
	Ping(ctx context.Context) error
	Close() error
}

// chSeam adapts a clickhouse client to Clickhouse and Pinger
type chSeam struct{ c chClient }

func newClickhouse(c chClient) Clickhouse { return chSeam{c: c} }

// Insert takes rows in column order, anything else is rejected before a batch is prepared
func (a chSeam) Insert(ctx context.Context, table string, data any) error {
	rows, ok := data.([][]any)
	if !ok {
		return fmt.Errorf("store: clickhouse insert wants [][]any, got %T", data)
	}
	return a.c.Insert(ctx, table, rows)
}

func (a chSeam) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	r, err := a.c.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return chRows{r}, nil
}

func (a chSeam) Ping(ctx context.Context) error {
	if a.c == nil {
		return errors.New("store: nil clickhouse client")
	}
	return a.c.Ping(ctx)
}

func (a chSeam) Close() error { return a.c.Close() }

// chRows drops the Close error ch.Rows returns
type chRows struct{ ch.Rows }

func (r chRows) Close() { _ = r.Rows.Close() }
