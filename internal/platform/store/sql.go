package store

import (
	"context"
	"errors"
	"time"

	"grantdir/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pool is the part of *pgxpool.Pool the adapter drives
type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// sqlAdapter turns a pgx pool into the SQL seam and traces each round trip
type sqlAdapter struct {
	pool pool
	p    *pg.PG
	now  func() time.Time
}

func newSQL(pl pool, p *pg.PG) *sqlAdapter {
	return &sqlAdapter{pool: pl, p: p, now: time.Now}
}

func (a *sqlAdapter) Ping(ctx context.Context) error {
	if a == nil || a.pool == nil {
		return errors.New("store: nil postgres adapter")
	}
	return a.pool.Ping(ctx)
}

func (a *sqlAdapter) Close() error {
	a.pool.Close()
	return nil
}

func (a *sqlAdapter) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	start := a.now()
	ct, err := a.pool.Exec(ctx, sql, args...)
	a.emit(ctx, sql, args, start, err)
	return ct, err
}

// Query traces on open, scan time is not included
func (a *sqlAdapter) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := a.now()
	rs, err := a.pool.Query(ctx, sql, args...)
	a.emit(ctx, sql, args, start, err)
	if err != nil {
		return nil, err
	}
	return pgxRows{rs}, nil
}

// QueryRow traces once Scan returns so the scan error is reported
func (a *sqlAdapter) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := a.now()
	return tracedRow{
		r: a.pool.QueryRow(ctx, sql, args...),
		after: func(err error) {
			if errors.Is(err, pgx.ErrNoRows) {
				err = nil
			}
			a.emit(ctx, sql, args, start, err)
		},
	}
}

func (a *sqlAdapter) emit(ctx context.Context, sql string, args []any, start time.Time, err error) {
	if a.p == nil || a.p.Tracer == nil {
		return
	}
	elapsed := a.now().Sub(start)
	a.p.Tracer.OnQuery(ctx, pg.QueryEvent{
		SQL:     sql,
		Args:    args,
		Elapsed: elapsed,
		Err:     err,
		Slow:    a.p.IsSlow(elapsed),
	})
}

type tracedRow struct {
	r     pgx.Row
	after func(error)
}

func (x tracedRow) Scan(dst ...any) error {
	err := x.r.Scan(dst...)
	x.after(err)
	return err
}

type pgxRows struct{ pgx.Rows }

func (x pgxRows) Columns() []string {
	f := x.FieldDescriptions()
	out := make([]string, len(f))
	for i := range f {
		out[i] = f[i].Name
	}
	return out
}
