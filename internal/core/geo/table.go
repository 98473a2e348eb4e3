// Package geo resolves noisy state and city text into canonical states and jurisdictions
package geo

import (
	"fmt"
	"strings"

	"grantdir/internal/core/slug"
)

// StateInfo is one canonical row of the state reference table
type StateInfo struct {
	Code    string   `json:"code"`
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
}

// Candidates returns the code, name, and aliases in that order
// these are the spellings a free text state column may hold for this state
func (s StateInfo) Candidates() []string {
	out := make([]string, 0, 2+len(s.Aliases))
	out = append(out, s.Code, s.Name)
	return append(out, s.Aliases...)
}

// Table is an immutable lookup over StateInfo rows
// build it once at startup and share it read only
type Table struct {
	rows   []StateInfo
	byCode map[string]int
	byName map[string]int
	bySlug map[string]int
}

// NewTable indexes rows by code, lowercased name and alias, and slug
// it fails when two rows share a code or a spelling points at two different states
func NewTable(rows []StateInfo) (*Table, error) {
	t := &Table{
		rows:   make([]StateInfo, 0, len(rows)),
		byCode: make(map[string]int, len(rows)),
		byName: make(map[string]int, len(rows)*2),
		bySlug: make(map[string]int, len(rows)*3),
	}
	for _, r := range rows {
		code := strings.ToUpper(strings.TrimSpace(r.Code))
		if code == "" || strings.TrimSpace(r.Name) == "" {
			return nil, fmt.Errorf("geo: state row needs code and name: %+v", r)
		}
		if _, dup := t.byCode[code]; dup {
			return nil, fmt.Errorf("geo: duplicate state code %q", code)
		}
		idx := len(t.rows)
		row := StateInfo{Code: code, Name: r.Name, Aliases: append([]string(nil), r.Aliases...)}
		t.rows = append(t.rows, row)
		t.byCode[code] = idx

		for _, spelling := range append([]string{row.Name}, row.Aliases...) {
			if err := claim(t.byName, strings.ToLower(strings.TrimSpace(spelling)), idx, t.rows); err != nil {
				return nil, err
			}
		}
		for _, spelling := range row.Candidates() {
			if err := claim(t.bySlug, slug.Slugify(spelling), idx, t.rows); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

// claim records key -> idx and rejects keys already owned by another state
func claim(m map[string]int, key string, idx int, rows []StateInfo) error {
	if key == "" {
		return nil
	}
	if prev, ok := m[key]; ok && prev != idx {
		return fmt.Errorf("geo: %q maps to both %s and %s", key, rows[prev].Code, rows[idx].Code)
	}
	m[key] = idx
	return nil
}

// MustTable is NewTable that panics, for wiring the static table in main and tests
func MustTable(rows []StateInfo) *Table {
	t, err := NewTable(rows)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of states in the table
func (t *Table) Len() int { return len(t.rows) }

// All returns a copy of every row in table order
func (t *Table) All() []StateInfo {
	out := make([]StateInfo, len(t.rows))
	copy(out, t.rows)
	return out
}

// ByCode looks up an exact code, case insensitive
func (t *Table) ByCode(code string) (StateInfo, bool) {
	i, ok := t.byCode[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return StateInfo{}, false
	}
	return t.rows[i], true
}

// byNameOrAlias looks up an exact name or alias, case insensitive
func (t *Table) byNameOrAlias(s string) (StateInfo, bool) {
	i, ok := t.byName[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return StateInfo{}, false
	}
	return t.rows[i], true
}

func (t *Table) bySlugged(s string) (StateInfo, bool) {
	i, ok := t.bySlug[slug.Slugify(s)]
	if !ok {
		return StateInfo{}, false
	}
	return t.rows[i], true
}
