package geo

import (
	"strings"
	"unicode/utf8"

	"grantdir/internal/core/slug"
)

// FederalKeywords are slug token sequences that mark a state value as federal or nationwide
var FederalKeywords = []string{
	"federal", "nationwide", "national", "united-states", "us", "usa", "u-s", "u-s-a",
	"all-states", "multi-state", "multiple-states", "across-the-nation",
}

// StatewideKeywords are slug token sequences that mark a city value as covering a whole state
var StatewideKeywords = []string{
	"statewide", "whole-state", "state-wide", "across-the-state", "multiple-locations",
	"multiple-counties", "various-locations", "entire-state", "all-counties", "all-regions",
	"n-a", "na",
}

// FallbackStateCode is used when a non federal state value is blank after trimming
const FallbackStateCode = "US"

// Resolver answers geography questions against an injected Table
// it holds no mutable state and is safe for concurrent use
type Resolver struct {
	table *Table
}

// NewResolver binds a resolver to t
func NewResolver(t *Table) *Resolver {
	if t == nil {
		panic("geo.Resolver requires a non nil Table")
	}
	return &Resolver{table: t}
}

// Table exposes the underlying reference table
func (r *Resolver) Table() *Table { return r.table }

// FindStateInfo resolves text by exact code, then exact name or alias, then slug
func (r *Resolver) FindStateInfo(text string) (StateInfo, bool) {
	t := strings.TrimSpace(text)
	if t == "" {
		return StateInfo{}, false
	}
	if s, ok := r.table.ByCode(t); ok {
		return s, true
	}
	if s, ok := r.table.byNameOrAlias(t); ok {
		return s, true
	}
	return r.table.bySlugged(t)
}

// IsFederalJurisdictionValue reports whether a state value is blank or federal flavored
func (r *Resolver) IsFederalJurisdictionValue(text string) bool {
	return blankOrMatches(text, FederalKeywords)
}

// IsStatewideCityValue reports whether a city value is blank or names a whole state
func (r *Resolver) IsStatewideCityValue(text string) bool {
	return blankOrMatches(text, StatewideKeywords)
}

func blankOrMatches(text string, keywords []string) bool {
	if strings.TrimSpace(text) == "" {
		return true
	}
	return matchesAny(slug.Slugify(text), keywords)
}

func matchesAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if slug.ContainsToken(s, kw) {
			return true
		}
	}
	return false
}

// NormalizeStateCode returns the canonical code for text
// unresolved two character input is trusted and uppercased; anything else yields ok=false
func (r *Resolver) NormalizeStateCode(text string) (string, bool) {
	if s, ok := r.FindStateInfo(text); ok {
		return s.Code, true
	}
	t := strings.TrimSpace(text)
	if utf8.RuneCountInString(t) == 2 {
		return strings.ToUpper(t), true
	}
	return "", false
}

// StateCandidates returns every known spelling for the state text resolves to
func (r *Resolver) StateCandidates(text string) ([]string, bool) {
	s, ok := r.FindStateInfo(text)
	if !ok {
		return nil, false
	}
	return s.Candidates(), true
}

// InferJurisdiction classifies a (state, city) pair
// the result depends only on the two inputs and the table
func (r *Resolver) InferJurisdiction(state, city string) Jurisdiction {
	if r.IsFederalJurisdictionValue(state) {
		return Federal()
	}
	code := r.stateCodeOrFallback(state)
	if r.IsStatewideCityValue(city) {
		return StateLevel(code)
	}
	cs := slug.Slugify(city)
	if cs == "" || matchesAny(cs, StatewideKeywords) {
		return StateLevel(code)
	}
	return Local(code, cs)
}

// stateCodeOrFallback resolves a code or falls back to the first two characters uppercased
func (r *Resolver) stateCodeOrFallback(state string) string {
	if s, ok := r.FindStateInfo(state); ok {
		return s.Code
	}
	t := strings.TrimSpace(state)
	if t == "" {
		return FallbackStateCode
	}
	n := 0
	for i := range t {
		if n == 2 {
			return strings.ToUpper(t[:i])
		}
		n++
	}
	return strings.ToUpper(t)
}
