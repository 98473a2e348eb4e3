package tabular

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	perr "grantdir/internal/platform/errors"
	"grantdir/internal/platform/store"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"
)

// PG runs queries as SQL against a store.RowQuerier
type PG struct {
	q store.RowQuerier
}

// NewPG binds a PG backend to q
func NewPG(q store.RowQuerier) *PG {
	if q == nil {
		panic("tabular.PG requires a non nil RowQuerier")
	}
	return &PG{q: q}
}

// Name implements Backend
func (b *PG) Name() string { return "postgres" }

// Select implements Backend
// the page and the count run concurrently when both are requested
func (b *PG) Select(ctx context.Context, q Query) (Result, error) {
	var res Result
	g, gctx := errgroup.WithContext(ctx)

	if q.Count || q.CountOnly {
		sql, args, err := RenderCount(q)
		if err != nil {
			return Result{}, err
		}
		g.Go(func() error {
			n, err := store.Scalar[int64](gctx, b.q, sql, args...)
			if err != nil {
				return err
			}
			res.Total = int(n)
			return nil
		})
	}
	if !q.CountOnly {
		sql, args, err := RenderSelect(q)
		if err != nil {
			return Result{}, err
		}
		g.Go(func() error {
			maps, err := store.Maps(gctx, b.q, sql, args...)
			if err != nil {
				return err
			}
			res.Rows = make([]Row, len(maps))
			for i, m := range maps {
				res.Rows[i] = Row(m)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, perr.FromPostgres(err, "select "+q.Table)
	}
	if res.Rows == nil {
		res.Rows = []Row{}
	}
	return res, nil
}

// RenderSelect builds the paged select for q
func RenderSelect(q Query) (string, []any, error) {
	var args []any
	var b strings.Builder
	b.WriteString("SELECT ")
	if len(q.Columns) == 0 {
		b.WriteString("*")
	} else {
		for i, c := range q.Columns {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(ident(c))
		}
	}
	b.WriteString(" FROM ")
	b.WriteString(table(q.Table))
	if err := writeWhere(&b, q.Where, &args); err != nil {
		return "", nil, err
	}
	for i, o := range q.Order {
		if i == 0 {
			b.WriteString(" ORDER BY ")
		} else {
			b.WriteString(", ")
		}
		b.WriteString(ident(o.Column))
		if o.Desc {
			b.WriteString(" DESC")
		} else {
			b.WriteString(" ASC")
		}
		b.WriteString(" NULLS LAST")
	}
	if q.Offset > 0 {
		b.WriteString(" OFFSET " + strconv.Itoa(q.Offset))
	}
	if q.Limit > 0 {
		b.WriteString(" LIMIT " + strconv.Itoa(q.Limit))
	}
	return b.String(), args, nil
}

// RenderCount builds the exact count for q
func RenderCount(q Query) (string, []any, error) {
	var args []any
	var b strings.Builder
	b.WriteString("SELECT count(*) FROM ")
	b.WriteString(table(q.Table))
	if err := writeWhere(&b, q.Where, &args); err != nil {
		return "", nil, err
	}
	return b.String(), args, nil
}

func writeWhere(b *strings.Builder, where []Pred, args *[]any) error {
	if len(where) == 0 {
		return nil
	}
	sql, err := render(And(where...), args)
	if err != nil {
		return err
	}
	b.WriteString(" WHERE ")
	b.WriteString(sql)
	return nil
}

func render(p Pred, args *[]any) (string, error) {
	bind := func(v any) string {
		*args = append(*args, v)
		return "$" + strconv.Itoa(len(*args))
	}
	switch p.Op {
	case OpEq:
		return ident(p.Column) + " = " + bind(p.Value), nil
	case OpNotEq:
		return ident(p.Column) + " <> " + bind(p.Value), nil
	case OpILike:
		return "CAST(" + ident(p.Column) + " AS text) ILIKE " + bind(p.Value), nil
	case OpIn:
		if len(p.Values) == 0 {
			return "FALSE", nil
		}
		ph := make([]string, len(p.Values))
		for i, v := range p.Values {
			ph[i] = bind(v)
		}
		return ident(p.Column) + " IN (" + strings.Join(ph, ", ") + ")", nil
	case OpIsNull:
		return ident(p.Column) + " IS NULL", nil
	case OpNotNull:
		return ident(p.Column) + " IS NOT NULL", nil
	case OpOr, OpAnd:
		if len(p.Preds) == 0 {
			if p.Op == OpOr {
				return "FALSE", nil
			}
			return "TRUE", nil
		}
		sep := " AND "
		if p.Op == OpOr {
			sep = " OR "
		}
		parts := make([]string, len(p.Preds))
		for i, c := range p.Preds {
			s, err := render(c, args)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		if len(parts) == 1 {
			return parts[0], nil
		}
		return "(" + strings.Join(parts, sep) + ")", nil
	case OpNot:
		if len(p.Preds) != 1 {
			return "", fmt.Errorf("tabular: not takes exactly one predicate, got %d", len(p.Preds))
		}
		s, err := render(p.Preds[0], args)
		if err != nil {
			return "", err
		}
		return "NOT (" + s + ")", nil
	}
	return "", fmt.Errorf("tabular: unsupported predicate %s", p.Op)
}

func ident(col string) string { return pgx.Identifier{col}.Sanitize() }

// table quotes a possibly schema qualified name
func table(name string) string { return pgx.Identifier(strings.Split(name, ".")).Sanitize() }
