package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"grantdir/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePgxRow struct {
	val int
	err error
}

func (r fakePgxRow) Scan(dst ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dst[0].(*int)) = r.val
	return nil
}

type fakePgxRows struct {
	pgx.Rows
	cols []string
}

func (r fakePgxRows) FieldDescriptions() []pgconn.FieldDescription {
	out := make([]pgconn.FieldDescription, len(r.cols))
	for i, c := range r.cols {
		out[i].Name = c
	}
	return out
}

type fakePool struct {
	row      pgx.Row
	rows     pgx.Rows
	queryErr error
	pingErr  error
	closed   bool
	sqls     []string
}

func (f *fakePool) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	f.sqls = append(f.sqls, sql)
	return pgconn.NewCommandTag("INSERT 0 2"), nil
}

func (f *fakePool) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	f.sqls = append(f.sqls, sql)
	return f.rows, f.queryErr
}

func (f *fakePool) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	f.sqls = append(f.sqls, sql)
	return f.row
}

func (f *fakePool) Ping(context.Context) error { return f.pingErr }
func (f *fakePool) Close()                     { f.closed = true }

// recorder collects trace events with a clock that advances 10ms per call
func recorder(a *sqlAdapter) *[]pg.QueryEvent {
	var evs []pg.QueryEvent
	a.p.Tracer = pg.TracerFunc(func(_ context.Context, ev pg.QueryEvent) { evs = append(evs, ev) })
	t0 := time.Unix(0, 0)
	a.now = func() time.Time {
		t0 = t0.Add(10 * time.Millisecond)
		return t0
	}
	return &evs
}

func TestSQLTracesEachRoundTrip(t *testing.T) {
	fp := &fakePool{
		row:  fakePgxRow{val: 42},
		rows: fakePgxRows{cols: []string{"id", "title"}},
	}
	a := newSQL(fp, &pg.PG{Slow: 10 * time.Millisecond})
	evs := recorder(a)
	ctx := context.Background()

	tag, err := a.Exec(ctx, "INSERT INTO grants VALUES ($1)", 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, tag.RowsAffected())

	rows, err := a.Query(ctx, "SELECT id, title FROM grants")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "title"}, rows.Columns())

	var n int
	require.NoError(t, a.QueryRow(ctx, "SELECT count(*) FROM grants").Scan(&n))
	assert.Equal(t, 42, n)

	require.Len(t, *evs, 3)
	for _, ev := range *evs {
		assert.Equal(t, 10*time.Millisecond, ev.Elapsed)
		assert.True(t, ev.Slow)
		assert.NoError(t, ev.Err)
	}
	assert.Equal(t, "SELECT count(*) FROM grants", (*evs)[2].SQL)
}

func TestSQLTracesErrors(t *testing.T) {
	fp := &fakePool{queryErr: errors.New("relation missing"), row: fakePgxRow{err: pgx.ErrNoRows}}
	a := newSQL(fp, &pg.PG{})
	evs := recorder(a)

	_, err := a.Query(context.Background(), "SELECT 1 FROM nowhere")
	require.Error(t, err)

	var n int
	err = a.QueryRow(context.Background(), "SELECT 1 WHERE false").Scan(&n)
	require.ErrorIs(t, err, pgx.ErrNoRows)

	require.Len(t, *evs, 2)
	assert.EqualError(t, (*evs)[0].Err, "relation missing")
	assert.NoError(t, (*evs)[1].Err, "no rows is not a backend failure")
	assert.False(t, (*evs)[0].Slow)
}

func TestSQLWithoutTracer(t *testing.T) {
	fp := &fakePool{row: fakePgxRow{val: 1}, pingErr: errors.New("down")}
	a := newSQL(fp, nil)

	var n int
	require.NoError(t, a.QueryRow(context.Background(), "SELECT 1").Scan(&n))
	assert.EqualError(t, a.Ping(context.Background()), "down")
	require.NoError(t, a.Close())
	assert.True(t, fp.closed)

	var nilAdapter *sqlAdapter
	assert.Error(t, nilAdapter.Ping(context.Background()))
}
