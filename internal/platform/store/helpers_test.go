package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRows struct {
	cols    []string
	data    [][]any
	i       int
	scanErr error
	closed  bool
}

func (r *memRows) Next() bool {
	if r.i >= len(r.data) {
		return false
	}
	r.i++
	return true
}

func (r *memRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	for i, v := range r.data[r.i-1] {
		*(dest[i].(*any)) = v
	}
	return nil
}

func (r *memRows) Err() error        { return nil }
func (r *memRows) Close()            { r.closed = true }
func (r *memRows) Columns() []string { return r.cols }

type rowFunc func(dst ...any) error

func (f rowFunc) Scan(dst ...any) error { return f(dst...) }

type memQuerier struct {
	rows *memRows
	row  Row
	err  error
}

func (q memQuerier) Exec(context.Context, string, ...any) (CommandTag, error) { return nil, q.err }
func (q memQuerier) Query(context.Context, string, ...any) (Rows, error) {
	if q.err != nil {
		return nil, q.err
	}
	return q.rows, nil
}
func (q memQuerier) QueryRow(context.Context, string, ...any) Row { return q.row }

func TestScalar(t *testing.T) {
	q := memQuerier{row: rowFunc(func(dst ...any) error {
		*(dst[0].(*int64)) = 17
		return nil
	})}
	n, err := Scalar[int64](context.Background(), q, "SELECT count(*) FROM grants")
	require.NoError(t, err)
	assert.EqualValues(t, 17, n)

	q.row = rowFunc(func(...any) error { return errors.New("boom") })
	n, err = Scalar[int64](context.Background(), q, "SELECT 1")
	require.Error(t, err)
	assert.Zero(t, n)
}

func TestMaps(t *testing.T) {
	closes := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := &memRows{
		cols: []string{"id", "title", "close_date"},
		data: [][]any{
			{1, "Rural Broadband", &closes},
			{2, "Tribal Housing", (*time.Time)(nil)},
		},
	}
	got, err := Maps(context.Background(), memQuerier{rows: rows}, "SELECT id, title, close_date FROM grants")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Rural Broadband", got[0]["title"])
	assert.Equal(t, closes, got[0]["close_date"])
	assert.Nil(t, got[1]["close_date"])
	assert.True(t, rows.closed)
}

func TestMapsEmptyAndErrors(t *testing.T) {
	got, err := Maps(context.Background(), memQuerier{rows: &memRows{cols: []string{"id"}}}, "SELECT id FROM grants")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	_, err = Maps(context.Background(), memQuerier{err: errors.New("down")}, "SELECT 1")
	assert.EqualError(t, err, "down")

	bad := &memRows{cols: []string{"id"}, data: [][]any{{1}}, scanErr: errors.New("scan")}
	_, err = Maps(context.Background(), memQuerier{rows: bad}, "SELECT id FROM grants")
	assert.EqualError(t, err, "scan")
	assert.True(t, bad.closed)
}
