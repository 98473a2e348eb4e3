package tabular

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed() *Memory {
	m := NewMemory()
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m.Put("grants",
		Row{"id": "a", "title": "Water Quality", "state": "CA", "apply_link": "https://x", "scraped_at": t0.Add(3 * time.Hour)},
		Row{"id": "b", "title": "Rural 100% Broadband", "state": nil, "apply_link": nil, "scraped_at": t0.Add(2 * time.Hour)},
		Row{"id": "c", "title": "Arts_Council", "state": "", "apply_link": "", "scraped_at": nil},
		Row{"id": "d", "title": "Park Cleanup", "state": "California", "apply_link": "https://y", "scraped_at": t0.Add(3 * time.Hour)},
	)
	return m
}

func ids(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i], _ = r["id"].(string)
	}
	return out
}

func sel(t *testing.T, m *Memory, where ...Pred) []string {
	t.Helper()
	res, err := m.Select(context.Background(), Query{Table: "grants", Where: where, Order: []Order{Asc("id")}})
	require.NoError(t, err)
	return ids(res.Rows)
}

func TestMemoryNullSemantics(t *testing.T) {
	m := seed()
	assert.Equal(t, []string{"b"}, sel(t, m, IsNull("state")))
	assert.Equal(t, []string{"a", "c", "d"}, sel(t, m, NotNull("state")))
	// <> never matches null
	assert.Equal(t, []string{"a", "d"}, sel(t, m, NotEq("state", "")))
	assert.Equal(t, []string{"a", "d"}, sel(t, m, NotNull("apply_link"), NotEq("apply_link", "")))
	// NOT of unknown stays unknown
	assert.Equal(t, []string{"c", "d"}, sel(t, m, Not(Eq("state", "CA"))))
	assert.Equal(t, []string{"b", "c"}, sel(t, m, Or(IsNull("state"), Eq("state", ""))))
}

func TestMemoryILike(t *testing.T) {
	m := seed()
	assert.Equal(t, []string{"a"}, sel(t, m, ILike("title", "%WATER%")))
	assert.Equal(t, []string{"b"}, sel(t, m, ILike("title", Contains("100%"))))
	assert.Equal(t, []string{"c"}, sel(t, m, ILike("title", Contains("s_c"))))
	assert.Equal(t, []string{"d"}, sel(t, m, ILike("title", "%k_c%")))
	assert.Equal(t, []string{"d"}, sel(t, m, ILike("state", "cal%")))
	assert.Empty(t, sel(t, m, ILike("title", "water")))
	assert.Equal(t, []string{"a"}, sel(t, m, ILike("title", "water quality")))
}

func TestMemoryIn(t *testing.T) {
	m := seed()
	assert.Equal(t, []string{"a", "d"}, sel(t, m, InStrings("state", []string{"CA", "California"})))
	assert.Empty(t, sel(t, m, In("state")))
	assert.Empty(t, sel(t, m, Or()))
	assert.Len(t, sel(t, m, And()), 4)
}

func TestMemoryOrderingAndPaging(t *testing.T) {
	m := seed()
	q := Query{Table: "grants", Order: []Order{Desc("scraped_at"), Asc("id")}, Count: true}

	res, err := m.Select(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "d", "b", "c"}, ids(res.Rows))
	assert.Equal(t, 4, res.Total)

	q.Offset, q.Limit = 1, 2
	res, err = m.Select(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "b"}, ids(res.Rows))
	assert.Equal(t, 4, res.Total)

	q.Offset = 10
	res, err = m.Select(context.Background(), q)
	require.NoError(t, err)
	assert.Empty(t, res.Rows)
	assert.NotNil(t, res.Rows)
}

func TestMemoryCountAndFirst(t *testing.T) {
	m := seed()
	res, err := m.Select(context.Background(), Query{Table: "grants", Where: []Pred{NotNull("scraped_at")}, CountOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Empty(t, res.Rows)

	row, ok, err := First(context.Background(), m, Query{Table: "grants", Where: []Pred{Eq("id", "d")}, Columns: []string{"id", "title"}})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Row{"id": "d", "title": "Park Cleanup"}, row)

	_, ok, err = First(context.Background(), m, Query{Table: "grants", Where: []Pred{Eq("id", "zzz")}})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryMissingTable(t *testing.T) {
	_, err := NewMemory().Select(context.Background(), Query{Table: "nope"})
	assert.True(t, IsMissingTable(err))
}

func TestMemoryRejectsMalformedNot(t *testing.T) {
	_, err := seed().Select(context.Background(), Query{Table: "grants", Where: []Pred{{Op: OpNot}}})
	assert.Error(t, err)
}

func TestLoadJSON(t *testing.T) {
	m := NewMemory()
	err := m.LoadJSON(strings.NewReader(`{
		"grants": [
			{"id": "x", "scraped_at": "2025-03-01T10:00:00Z", "amount": 5, "meta": {"a": 1}},
			{"id": "y", "scraped_at": "2025-04-01T10:00:00Z", "amount": 2.5}
		],
		"categories": []
	}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"categories", "grants"}, m.Tables())

	res, err := m.Select(context.Background(), Query{Table: "grants", Order: []Order{Desc("scraped_at")}})
	require.NoError(t, err)
	assert.Equal(t, []string{"y", "x"}, ids(res.Rows))
	assert.IsType(t, time.Time{}, res.Rows[0]["scraped_at"])
	assert.Equal(t, int64(5), res.Rows[1]["amount"])

	res, err = m.Select(context.Background(), Query{Table: "categories", CountOnly: true})
	require.NoError(t, err)
	assert.Zero(t, res.Total)
}

func TestLikeMatch(t *testing.T) {
	cases := []struct {
		s, p string
		want bool
	}{
		{"abc", "abc", true},
		{"abc", "a%", true},
		{"abc", "%c", true},
		{"abc", "a_c", true},
		{"abc", "a_", false},
		{"", "%", true},
		{"", "_", false},
		{"a%c", `a\%c`, true},
		{"abc", `a\%c`, false},
		{"mississippi", "%iss%ppi", true},
		{"mississippi", "%iss%ppx", false},
		{"héllo", "h_llo", true},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, likeMatch(c.s, c.p), "%q LIKE %q", c.s, c.p)
	}
}
