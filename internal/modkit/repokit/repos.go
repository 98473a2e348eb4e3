// Package repokit provides common types and helpers for repository implementations
package repokit

import (
	"context"
	"errors"

	"grantdir/internal/platform/store"
	"grantdir/internal/platform/store/tabular"
)

// Source is the read surface listing repos bind to
type Source = tabular.Backend

type (
	// Query is a single tabular read
	Query = tabular.Query

	// Result is the rows and optional count of a Query
	Result = tabular.Result

	// Row is one record keyed by column name
	Row = tabular.Row

	// Pred is a filter predicate
	Pred = tabular.Pred
)

// Analytics is the columnar sink seam
type Analytics = store.Clickhouse

// FirstTable runs q against each table in order and returns the first answer
// a missing table moves on to the next name; any other error stops the walk
// tried reports the table that produced the answer or the error
func FirstTable(ctx context.Context, src Source, tables []string, q Query) (res Result, tried string, err error) {
	if len(tables) == 0 {
		return Result{}, "", errors.New("repokit: no tables configured")
	}
	var lastMissing error
	for _, t := range tables {
		q.Table = t
		res, err = src.Select(ctx, q)
		if err == nil {
			return res, t, nil
		}
		if tabular.IsMissingTable(err) {
			lastMissing = err
			continue
		}
		return Result{}, t, err
	}
	return Result{}, tables[len(tables)-1], lastMissing
}
