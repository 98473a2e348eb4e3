package tabular

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// Memory is an in process Backend with the same null and pattern semantics as PG
// it serves fixture mode and tests
type Memory struct {
	mu     sync.RWMutex
	tables map[string][]Row
}

// NewMemory returns an empty backend
func NewMemory() *Memory { return &Memory{tables: map[string][]Row{}} }

// Name implements Backend
func (m *Memory) Name() string { return "memory" }

// Put appends rows to table, creating it if needed
func (m *Memory) Put(table string, rows ...Row) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur := m.tables[table]
	if cur == nil {
		cur = []Row{}
	}
	for _, r := range rows {
		cp := make(Row, len(r))
		for k, v := range r {
			cp[k] = v
		}
		cur = append(cur, cp)
	}
	m.tables[table] = cur
}

// Tables lists the table names present
func (m *Memory) Tables() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.tables))
	for k := range m.tables {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// LoadJSON reads {"table": [{...}, ...], ...}
// RFC 3339 strings become time.Time so ordering by timestamps matches a database
func (m *Memory) LoadJSON(r io.Reader) error {
	var doc map[string][]map[string]any
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("tabular: decode fixtures: %w", err)
	}
	for table, rows := range doc {
		conv := make([]Row, len(rows))
		for i, raw := range rows {
			row := make(Row, len(raw))
			for k, v := range raw {
				row[k] = fixtureValue(v)
			}
			conv[i] = row
		}
		m.Put(table, conv...)
	}
	return nil
}

func fixtureValue(v any) any {
	switch x := v.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n
		}
		f, _ := x.Float64()
		return f
	case string:
		if len(x) >= 20 && x[4] == '-' {
			if t, err := time.Parse(time.RFC3339Nano, x); err == nil {
				return t
			}
		}
		return x
	case map[string]any, []any:
		b, _ := json.Marshal(x)
		return json.RawMessage(b)
	}
	return v
}

// Select implements Backend
func (m *Memory) Select(ctx context.Context, q Query) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	where := And(q.Where...)
	if err := validate(where); err != nil {
		return Result{}, err
	}

	m.mu.RLock()
	rows, ok := m.tables[q.Table]
	var matched []Row
	for _, r := range rows {
		if eval(where, r) == triTrue {
			matched = append(matched, r)
		}
	}
	m.mu.RUnlock()
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrMissingTable, q.Table)
	}

	res := Result{Rows: []Row{}}
	if q.Count || q.CountOnly {
		res.Total = len(matched)
	}
	if q.CountOnly {
		return res, nil
	}

	if len(q.Order) > 0 {
		sort.SliceStable(matched, func(i, j int) bool { return less(matched[i], matched[j], q.Order) })
	}
	if q.Offset > 0 {
		if q.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[q.Offset:]
		}
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	for _, r := range matched {
		res.Rows = append(res.Rows, project(r, q.Columns))
	}
	return res, nil
}

func project(r Row, cols []string) Row {
	out := make(Row, len(r))
	if len(cols) == 0 {
		for k, v := range r {
			out[k] = v
		}
		return out
	}
	for _, c := range cols {
		out[c] = r[c]
	}
	return out
}

func validate(p Pred) error {
	switch p.Op {
	case OpEq, OpNotEq, OpILike, OpIn, OpIsNull, OpNotNull:
		return nil
	case OpOr, OpAnd:
		for _, c := range p.Preds {
			if err := validate(c); err != nil {
				return err
			}
		}
		return nil
	case OpNot:
		if len(p.Preds) != 1 {
			return fmt.Errorf("tabular: not takes exactly one predicate, got %d", len(p.Preds))
		}
		return validate(p.Preds[0])
	}
	return fmt.Errorf("tabular: unsupported predicate %s", p.Op)
}

// tri is SQL three valued logic
type tri uint8

const (
	triFalse tri = iota
	triTrue
	triUnknown
)

func boolTri(b bool) tri {
	if b {
		return triTrue
	}
	return triFalse
}

func eval(p Pred, r Row) tri {
	switch p.Op {
	case OpEq, OpNotEq:
		v := r[p.Column]
		if v == nil || p.Value == nil {
			return triUnknown
		}
		eq := compare(v, p.Value) == 0
		if p.Op == OpNotEq {
			eq = !eq
		}
		return boolTri(eq)
	case OpILike:
		v := r[p.Column]
		if v == nil {
			return triUnknown
		}
		pat, _ := p.Value.(string)
		return boolTri(likeMatch(strings.ToLower(text(v)), strings.ToLower(pat)))
	case OpIn:
		v := r[p.Column]
		if v == nil {
			return triUnknown
		}
		for _, want := range p.Values {
			if want != nil && compare(v, want) == 0 {
				return triTrue
			}
		}
		return triFalse
	case OpIsNull:
		return boolTri(r[p.Column] == nil)
	case OpNotNull:
		return boolTri(r[p.Column] != nil)
	case OpOr:
		out := triFalse
		for _, c := range p.Preds {
			switch eval(c, r) {
			case triTrue:
				return triTrue
			case triUnknown:
				out = triUnknown
			}
		}
		return out
	case OpAnd:
		out := triTrue
		for _, c := range p.Preds {
			switch eval(c, r) {
			case triFalse:
				return triFalse
			case triUnknown:
				out = triUnknown
			}
		}
		return out
	case OpNot:
		switch eval(p.Preds[0], r) {
		case triTrue:
			return triFalse
		case triFalse:
			return triTrue
		}
		return triUnknown
	}
	return triFalse
}

// likeMatch implements LIKE with backslash escapes over runes
func likeMatch(s, pattern string) bool {
	type tok struct {
		r    rune
		kind byte // 'l' literal, '%' any run, '_' any one
	}
	var toks []tok
	for i := 0; i < len(pattern); {
		r, n := utf8.DecodeRuneInString(pattern[i:])
		i += n
		switch r {
		case '\\':
			if i < len(pattern) {
				r, n = utf8.DecodeRuneInString(pattern[i:])
				i += n
			}
			toks = append(toks, tok{r: r, kind: 'l'})
		case '%':
			toks = append(toks, tok{kind: '%'})
		case '_':
			toks = append(toks, tok{kind: '_'})
		default:
			toks = append(toks, tok{r: r, kind: 'l'})
		}
	}
	rs := []rune(s)

	// greedy with single backtrack point, linear in practice
	si, ti := 0, 0
	star, mark := -1, 0
	for si < len(rs) {
		switch {
		case ti < len(toks) && (toks[ti].kind == '_' || (toks[ti].kind == 'l' && toks[ti].r == rs[si])):
			si++
			ti++
		case ti < len(toks) && toks[ti].kind == '%':
			star, mark = ti, si
			ti++
		case star >= 0:
			ti = star + 1
			mark++
			si = mark
		default:
			return false
		}
	}
	for ti < len(toks) && toks[ti].kind == '%' {
		ti++
	}
	return ti == len(toks)
}

// text renders a value the way CAST(x AS text) would for the types fixtures hold
func text(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case json.RawMessage:
		return string(x)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case bool:
		return strconv.FormatBool(x)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

func number(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	}
	return 0, false
}

// compare orders two non nil values; mismatched kinds fall back to their text
func compare(a, b any) int {
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	if na, ok := number(a); ok {
		if nb, ok := number(b); ok {
			switch {
			case na < nb:
				return -1
			case na > nb:
				return 1
			case math.IsNaN(na) || math.IsNaN(nb):
				return 0
			}
			return 0
		}
	}
	if ba, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case ba == bb:
				return 0
			case !ba:
				return -1
			}
			return 1
		}
	}
	return strings.Compare(text(a), text(b))
}

func less(a, b Row, order []Order) bool {
	for _, o := range order {
		va, vb := a[o.Column], b[o.Column]
		switch {
		case va == nil && vb == nil:
			continue
		case va == nil:
			return false
		case vb == nil:
			return true
		}
		c := compare(va, vb)
		if c == 0 {
			continue
		}
		if o.Desc {
			return c > 0
		}
		return c < 0
	}
	return false
}
