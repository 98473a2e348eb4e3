package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSelect(t *testing.T) {
	q := Query{
		Table:   "public.grants",
		Columns: []string{"id", "title"},
		Where: []Pred{
			Or(ILike("title", "%water%"), ILike("summary", "%water%")),
			InStrings("state", []string{"CA", "California"}),
			NotNull("apply_link"),
			NotEq("apply_link", ""),
			Not(Eq("city", "statewide")),
		},
		Order:  []Order{Desc("scraped_at"), Asc("id")},
		Offset: 20,
		Limit:  10,
	}
	sql, args, err := RenderSelect(q)
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT "id", "title" FROM "public"."grants" WHERE (`+
			`(CAST("title" AS text) ILIKE $1 OR CAST("summary" AS text) ILIKE $2) AND `+
			`"state" IN ($3, $4) AND "apply_link" IS NOT NULL AND "apply_link" <> $5 AND NOT ("city" = $6))`+
			` ORDER BY "scraped_at" DESC NULLS LAST, "id" ASC NULLS LAST OFFSET 20 LIMIT 10`,
		sql)
	assert.Equal(t, []any{"%water%", "%water%", "CA", "California", "", "statewide"}, args)
}

func TestRenderCountAndEdgeCases(t *testing.T) {
	sql, args, err := RenderCount(Query{Table: "grants", Where: []Pred{In("category_code"), Or()}})
	require.NoError(t, err)
	assert.Equal(t, `SELECT count(*) FROM "grants" WHERE (FALSE AND FALSE)`, sql)
	assert.Empty(t, args)

	sql, _, err = RenderSelect(Query{Table: `we"ird`})
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "we""ird"`, sql)

	_, _, err = RenderSelect(Query{Table: "grants", Where: []Pred{{Op: OpNot}}})
	assert.Error(t, err)
	_, _, err = RenderSelect(Query{Table: "grants", Where: []Pred{{Op: 99}}})
	assert.Error(t, err)
}

func TestPredString(t *testing.T) {
	p := And(Eq("a", 1), Or(IsNull("b"), In("c", "x")), Not(ILike("d", "%e%")))
	assert.Equal(t, "and(a eq 1, or(b is_null, c in [x]), not(d ilike %e%))", p.String())
}

func TestNewPGPanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewPG(nil) })
}
