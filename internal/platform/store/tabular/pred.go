package tabular

import (
	"fmt"
	"strings"
)

// Op is a predicate operator
type Op uint8

// Predicate operators
const (
	OpEq Op = iota + 1
	OpNotEq
	OpILike
	OpIn
	OpIsNull
	OpNotNull
	OpOr
	OpAnd
	OpNot
)

func (o Op) String() string {
	switch o {
	case OpEq:
		return "eq"
	case OpNotEq:
		return "neq"
	case OpILike:
		return "ilike"
	case OpIn:
		return "in"
	case OpIsNull:
		return "is_null"
	case OpNotNull:
		return "not_null"
	case OpOr:
		return "or"
	case OpAnd:
		return "and"
	case OpNot:
		return "not"
	}
	return fmt.Sprintf("op(%d)", uint8(o))
}

// Pred is one node of a filter tree
// comparisons against a null column are unknown, so Not(Eq(...)) does not match nulls either
type Pred struct {
	Op     Op
	Column string
	Value  any
	Values []any
	Preds  []Pred
}

// Eq matches column = v
func Eq(col string, v any) Pred { return Pred{Op: OpEq, Column: col, Value: v} }

// NotEq matches column <> v
func NotEq(col string, v any) Pred { return Pred{Op: OpNotEq, Column: col, Value: v} }

// ILike matches a case insensitive LIKE pattern; % and _ are wildcards, backslash escapes
func ILike(col, pattern string) Pred { return Pred{Op: OpILike, Column: col, Value: pattern} }

// In matches any of vals; an empty list matches nothing
func In(col string, vals ...any) Pred { return Pred{Op: OpIn, Column: col, Values: vals} }

// InStrings is In for a string slice
func InStrings(col string, vals []string) Pred {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return In(col, out...)
}

// IsNull matches a null column
func IsNull(col string) Pred { return Pred{Op: OpIsNull, Column: col} }

// NotNull matches a non null column
func NotNull(col string) Pred { return Pred{Op: OpNotNull, Column: col} }

// Or matches when any child does; an empty Or matches nothing
func Or(ps ...Pred) Pred { return Pred{Op: OpOr, Preds: ps} }

// And matches when every child does; an empty And matches everything
func And(ps ...Pred) Pred { return Pred{Op: OpAnd, Preds: ps} }

// Not negates p
func Not(p Pred) Pred { return Pred{Op: OpNot, Preds: []Pred{p}} }

// EscapeLike escapes LIKE metacharacters so s matches literally
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// Contains is the pattern for a literal substring match
func Contains(s string) string { return "%" + EscapeLike(s) + "%" }

// String renders a compact debug form used in logs
func (p Pred) String() string {
	switch p.Op {
	case OpOr, OpAnd:
		parts := make([]string, len(p.Preds))
		for i, c := range p.Preds {
			parts[i] = c.String()
		}
		return p.Op.String() + "(" + strings.Join(parts, ", ") + ")"
	case OpNot:
		if len(p.Preds) == 1 {
			return "not(" + p.Preds[0].String() + ")"
		}
		return "not()"
	case OpIn:
		return fmt.Sprintf("%s in %v", p.Column, p.Values)
	case OpIsNull, OpNotNull:
		return p.Column + " " + p.Op.String()
	}
	return fmt.Sprintf("%s %s %v", p.Column, p.Op, p.Value)
}
