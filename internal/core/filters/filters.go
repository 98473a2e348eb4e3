// Package filters defines the normalized search filter value shared by server and client
package filters

import (
	"strings"

	"grantdir/internal/core/geo"
)

// Pagination defaults and bounds
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 50
)

// FilterState is the complete set of search inputs
// after Normalize every field holds a defined value so two states compare with ==
type FilterState struct {
	Query        string    `json:"keyword"`
	Category     string    `json:"category"`
	State        string    `json:"state"`
	City         string    `json:"city"`
	Agency       string    `json:"agency"`
	HasApplyLink bool      `json:"hasApplyLink"`
	Jurisdiction geo.Level `json:"jurisdiction"`
	Page         int       `json:"page"`
	PageSize     int       `json:"pageSize"`
}

// Normalize trims text, drops unknown jurisdictions, and clamps pagination
func (f FilterState) Normalize() FilterState {
	f.Query = strings.TrimSpace(f.Query)
	f.Category = strings.TrimSpace(f.Category)
	f.State = strings.TrimSpace(f.State)
	f.City = strings.TrimSpace(f.City)
	f.Agency = strings.TrimSpace(f.Agency)
	if lvl, ok := geo.ParseLevel(string(f.Jurisdiction)); ok {
		f.Jurisdiction = lvl
	} else {
		f.Jurisdiction = ""
	}
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	switch {
	case f.PageSize == 0:
		f.PageSize = DefaultPageSize
	case f.PageSize < 1:
		f.PageSize = 1
	case f.PageSize > MaxPageSize:
		f.PageSize = MaxPageSize
	}
	return f
}

// Offset is the zero based row offset of the first item on the page
func (f FilterState) Offset() int {
	n := f.Normalize()
	return (n.Page - 1) * n.PageSize
}

// Field names one user editable filter input
type Field string

// Filter fields, named as they appear in the query string
const (
	FieldQuery        Field = "keyword"
	FieldCategory     Field = "category"
	FieldState        Field = "state"
	FieldCity         Field = "city"
	FieldAgency       Field = "agency"
	FieldHasApplyLink Field = "has_apply_link"
	FieldJurisdiction Field = "jurisdiction"
)

// Fields lists every filter field in display order
func Fields() []Field {
	return []Field{
		FieldQuery, FieldCategory, FieldState, FieldCity,
		FieldAgency, FieldHasApplyLink, FieldJurisdiction,
	}
}

// ParseField maps a query string name to a Field
func ParseField(s string) (Field, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "q" || s == "query" {
		return FieldQuery, true
	}
	for _, f := range Fields() {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// Get returns the field value as text
func (f FilterState) Get(field Field) string {
	switch field {
	case FieldQuery:
		return f.Query
	case FieldCategory:
		return f.Category
	case FieldState:
		return f.State
	case FieldCity:
		return f.City
	case FieldAgency:
		return f.Agency
	case FieldHasApplyLink:
		if f.HasApplyLink {
			return "true"
		}
		return ""
	case FieldJurisdiction:
		return string(f.Jurisdiction)
	}
	return ""
}

// With returns a copy of f with one field replaced
func (f FilterState) With(field Field, value string) FilterState {
	switch field {
	case FieldQuery:
		f.Query = value
	case FieldCategory:
		f.Category = value
	case FieldState:
		f.State = value
	case FieldCity:
		f.City = value
	case FieldAgency:
		f.Agency = value
	case FieldHasApplyLink:
		f.HasApplyLink = truthy(value)
	case FieldJurisdiction:
		f.Jurisdiction = geo.Level(value)
	}
	return f
}

// Overlay copies the listed fields from locked onto f
func (f FilterState) Overlay(locked FilterState, fields []Field) FilterState {
	for _, field := range fields {
		f = f.With(field, locked.Get(field))
	}
	return f
}

// Reset returns every field to its default except the listed ones, which keep their value in f
func (f FilterState) Reset(keep []Field) FilterState {
	return FilterState{}.Overlay(f, keep).Normalize()
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on", "y":
		return true
	}
	return false
}
