package service

import (
	"strings"

	"grantdir/internal/core/filters"
	"grantdir/internal/core/geo"
	"grantdir/internal/core/slug"
	"grantdir/internal/platform/store/tabular"
	"grantdir/internal/services/api/grants/domain"
	"grantdir/internal/services/api/grants/repo"
)

// federalShortLabels match a whole state value
var federalShortLabels = []string{"us", "usa", "u.s.", "u.s.a.", "united states"}

// federalLabels match anywhere in a state value
var federalLabels = []string{
	"federal", "nationwide", "national", "all states", "multi-state", "multiple states", "across the nation",
}

// statewideShortLabels match a whole city value
var statewideShortLabels = []string{"n/a", "na", "n-a"}

// statewideLabels match anywhere in a city value
var statewideLabels = []string{
	"statewide", "state-wide", "state wide", "whole state", "across the state", "multiple locations",
	"multiple counties", "various locations", "entire state", "all counties", "all regions",
}

// Translator turns a FilterState into backend predicates
// it is pure; category codes are resolved by the caller beforehand
type Translator struct {
	geo *geo.Resolver
}

// NewTranslator binds a Translator to r
func NewTranslator(r *geo.Resolver) Translator {
	if r == nil {
		panic("service.Translator requires a non nil geo.Resolver")
	}
	return Translator{geo: r}
}

// Where returns the ANDed predicates for f
// cats is the resolved category set; rawCategory asks for a plain text match instead
func (t Translator) Where(f filters.FilterState, cats []domain.Category, rawCategory bool) []tabular.Pred {
	var where []tabular.Pred

	if q := f.Query; q != "" {
		pat := tabular.Contains(q)
		where = append(where, tabular.Or(
			tabular.ILike(repo.ColTitle, pat),
			tabular.ILike(repo.ColSummary, pat),
			tabular.ILike(repo.ColDescription, pat),
		))
	}

	if f.Category != "" {
		if rawCategory {
			where = append(where, tabular.ILike(repo.ColCategory, tabular.Contains(f.Category)))
		} else {
			where = append(where, CategoryPred(cats))
		}
	}

	if f.State != "" {
		where = append(where, t.StatePred(f.State))
	}

	if f.City != "" {
		where = append(where, tabular.ILike(repo.ColCity, tabular.Contains(f.City)))
	}

	if f.Agency != "" {
		where = append(where, AgencyPred(f.Agency))
	}

	if f.HasApplyLink {
		where = append(where, tabular.NotNull(repo.ColApplyLink), tabular.NotEq(repo.ColApplyLink, ""))
	}

	switch f.Jurisdiction {
	case geo.LevelFederal:
		where = append(where, FederalPred())
	case geo.LevelState:
		// a federal flavored State turns into FederalPred above, this guard then leaves nothing
		where = append(where, tabular.Not(FederalPred()))
	case geo.LevelLocal:
		where = append(where,
			tabular.Not(FederalPred()),
			tabular.NotNull(repo.ColCity),
			tabular.NotEq(repo.ColCity, ""),
			tabular.Not(statewideCityPred()),
		)
	}
	return where
}

// Order is the listing sort: newest scrape first, id breaks ties
func Order() []tabular.Order {
	return []tabular.Order{tabular.Desc(repo.ColScrapedAt), tabular.Asc(repo.ColID)}
}

// CategoryPred matches listings by resolved code, or by exact label for untagged rows
// an empty set matches nothing
func CategoryPred(cats []domain.Category) tabular.Pred {
	var codes []string
	var alts []tabular.Pred
	for _, c := range cats {
		if c.Code != "" {
			codes = append(codes, c.Code)
		}
		if c.Label != "" {
			alts = append(alts, tabular.ILike(repo.ColCategory, tabular.EscapeLike(c.Label)))
		}
	}
	if len(codes) > 0 {
		alts = append([]tabular.Pred{tabular.InStrings(repo.ColCategoryCode, codes)}, alts...)
	}
	return tabular.Or(alts...)
}

// StatePred matches every known spelling of the state text resolves to
// unresolved federal flavored text selects federal listings, anything else is a substring match
func (t Translator) StatePred(state string) tabular.Pred {
	if cands, ok := t.geo.StateCandidates(state); ok {
		ps := make([]tabular.Pred, 0, len(cands))
		for _, c := range cands {
			ps = append(ps, tabular.ILike(repo.ColState, tabular.EscapeLike(c)))
		}
		return tabular.Or(ps...)
	}
	if t.geo.IsFederalJurisdictionValue(state) {
		return FederalPred()
	}
	return tabular.ILike(repo.ColState, tabular.Contains(state))
}

// FederalPred matches a blank state or one carrying a federal label
func FederalPred() tabular.Pred {
	ps := []tabular.Pred{tabular.IsNull(repo.ColState), tabular.Eq(repo.ColState, "")}
	for _, l := range federalShortLabels {
		ps = append(ps, tabular.ILike(repo.ColState, tabular.EscapeLike(l)))
	}
	for _, l := range federalLabels {
		ps = append(ps, tabular.ILike(repo.ColState, tabular.Contains(l)))
	}
	return tabular.Or(ps...)
}

func statewideCityPred() tabular.Pred {
	var ps []tabular.Pred
	for _, l := range statewideShortLabels {
		ps = append(ps, tabular.ILike(repo.ColCity, tabular.EscapeLike(l)))
	}
	for _, l := range statewideLabels {
		ps = append(ps, tabular.ILike(repo.ColCity, tabular.Contains(l)))
	}
	return tabular.Or(ps...)
}

// AgencyPred ORs name fragment, code variant, and slug matches for free text
// a slug is also decomposed into code candidates and a spaced name fragment
func AgencyPred(text string) tabular.Pred {
	text = strings.TrimSpace(text)
	ps := []tabular.Pred{
		tabular.ILike(repo.ColAgencyName, tabular.Contains(text)),
		tabular.ILike(repo.ColAgency, tabular.Contains(text)),
	}
	codes := codeVariants(text)

	if s := slug.Slugify(text); s != "" {
		ps = append(ps, tabular.Eq(repo.ColAgencySlug, s))
		codes = append(codes, codeVariants(s)...)
		if frag := strings.ReplaceAll(s, "-", " "); !strings.EqualFold(frag, text) {
			ps = append(ps,
				tabular.ILike(repo.ColAgencyName, tabular.Contains(frag)),
				tabular.ILike(repo.ColAgency, tabular.Contains(frag)),
			)
		}
	}
	ps = append(ps, tabular.InStrings(repo.ColAgencyCode, dedupe(codes)))
	return tabular.Or(ps...)
}

// codeVariants lists the spellings an agency code may be stored under
func codeVariants(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	up := strings.ToUpper(s)
	return []string{
		s,
		up,
		strings.ReplaceAll(up, "-", ""),
		strings.ReplaceAll(up, " ", ""),
		strings.NewReplacer("-", "", " ", "", "_", "").Replace(up),
		strings.ReplaceAll(up, " ", "-"),
	}
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0:0]
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
