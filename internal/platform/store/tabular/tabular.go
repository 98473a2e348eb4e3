// Package tabular is the generic read capability the directory services query through
// filter, sort, paginate, and count, with no assumption about the wire protocol behind it
package tabular

import (
	"context"
	"errors"

	perr "grantdir/internal/platform/errors"
)

// Row is one record keyed by column name
type Row map[string]any

// Order sorts by one column; nulls always sort last
type Order struct {
	Column string
	Desc   bool
}

// Asc orders ascending
func Asc(col string) Order { return Order{Column: col} }

// Desc orders descending
func Desc(col string) Order { return Order{Column: col, Desc: true} }

// Query is a single select against one table
type Query struct {
	Table   string
	Columns []string // empty selects every column
	Where   []Pred   // ANDed
	Order   []Order
	Offset  int
	Limit   int // zero means no limit

	// Count also returns the exact number of matching rows, ignoring Offset and Limit
	Count bool
	// CountOnly skips fetching rows
	CountOnly bool
}

// Result carries the page of rows and, when requested, the exact total
type Result struct {
	Rows  []Row
	Total int
}

// Backend runs queries
type Backend interface {
	Select(ctx context.Context, q Query) (Result, error)
	Name() string
}

// ErrMissingTable is returned by backends without the requested table
var ErrMissingTable = errors.New("tabular: missing table")

// IsMissingTable reports whether err means the table does not exist in the backend
func IsMissingTable(err error) bool {
	return errors.Is(err, ErrMissingTable) || perr.IsUndefinedTable(err)
}

// IsNotConfigured reports whether err came from a backend that was never configured
func IsNotConfigured(err error) bool { return perr.IsCode(err, perr.ErrorCodeNotConfigured) }

// First returns the first row of q, or ok=false when nothing matched
func First(ctx context.Context, b Backend, q Query) (Row, bool, error) {
	q.Limit = 1
	q.Count, q.CountOnly = false, false
	res, err := b.Select(ctx, q)
	if err != nil || len(res.Rows) == 0 {
		return nil, false, err
	}
	return res.Rows[0], true, nil
}
