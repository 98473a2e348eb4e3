package service

import (
	"strings"
	"testing"

	"grantdir/internal/core/filters"
	"grantdir/internal/core/geo"
	"grantdir/internal/platform/store/tabular"
	"grantdir/internal/services/api/grants/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func translator() Translator { return NewTranslator(geo.NewResolver(geo.MustTable(geo.USStates()))) }

func TestWhere_EmptyFilterSelectsAll(t *testing.T) {
	assert.Empty(t, translator().Where(filters.FilterState{}.Normalize(), nil, false))
}

func TestCategoryPred_EmptySetMatchesNothing(t *testing.T) {
	sql, _, err := tabular.RenderCount(tabular.Query{Table: "grants", Where: []tabular.Pred{CategoryPred(nil)}})
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE FALSE")
}

func TestCategoryPred_CodesThenLabels(t *testing.T) {
	p := CategoryPred([]domain.Category{{Code: "ENV", Label: "Environment"}, {Code: "EDU"}})
	require.Equal(t, tabular.OpOr, p.Op)
	require.Len(t, p.Preds, 2)
	assert.Equal(t, tabular.OpIn, p.Preds[0].Op)
	assert.Equal(t, []any{"ENV", "EDU"}, p.Preds[0].Values)
	assert.Equal(t, "Environment", p.Preds[1].Value)
}

func TestStatePred(t *testing.T) {
	tr := translator()

	p := tr.StatePred("calif")
	require.Equal(t, tabular.OpOr, p.Op)
	var pats []string
	for _, c := range p.Preds {
		pats = append(pats, c.Value.(string))
	}
	assert.Equal(t, []string{"CA", "California", "Calif", "Cal"}, pats)

	assert.Equal(t, FederalPred(), tr.StatePred("Federal"))

	raw := tr.StatePred("Guam-ish territory")
	assert.Equal(t, tabular.OpILike, raw.Op)
	assert.Equal(t, "%Guam-ish territory%", raw.Value)
}

func TestAgencyPred_Variants(t *testing.T) {
	p := AgencyPred("dept-of-energy")
	var codes []any
	var frags []string
	for _, c := range p.Preds {
		switch c.Op {
		case tabular.OpIn:
			codes = c.Values
		case tabular.OpILike:
			frags = append(frags, c.Value.(string))
		case tabular.OpEq:
			assert.Equal(t, "dept-of-energy", c.Value)
		}
	}
	assert.Contains(t, codes, "DEPT-OF-ENERGY")
	assert.Contains(t, codes, "DEPTOFENERGY")
	assert.Contains(t, frags, "%dept of energy%")
}

func TestWhere_RendersLocalJurisdiction(t *testing.T) {
	f := filters.FilterState{Jurisdiction: geo.LevelLocal, State: "TX", HasApplyLink: true}.Normalize()
	sql, args, err := tabular.RenderSelect(tabular.Query{Table: "grants", Where: translator().Where(f, nil, false), Order: Order(), Limit: 20})
	require.NoError(t, err)

	for _, want := range []string{
		`"apply_link" IS NOT NULL`,
		`"city" IS NOT NULL`,
		`NOT (("state" IS NULL`,
		`ORDER BY "scraped_at" DESC`,
	} {
		assert.Contains(t, sql, want)
	}
	assert.True(t, strings.Count(sql, "CAST(\"city\" AS text) ILIKE") > 5)
	assert.Contains(t, args, "%statewide%")
	assert.Contains(t, args, "Texas")
}
