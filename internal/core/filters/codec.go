package filters

import (
	"net/url"
	"strconv"

	"grantdir/internal/core/geo"

	"github.com/gorilla/schema"
)

// Query is the query string shape of a FilterState
// it doubles as the bound and validated request DTO for search endpoints
type Query struct {
	Keyword      string `schema:"keyword,omitempty" json:"keyword,omitempty" validate:"max=200,nocontrol"`
	Category     string `schema:"category,omitempty" json:"category,omitempty" validate:"max=200"`
	State        string `schema:"state,omitempty" json:"state,omitempty" validate:"max=120"`
	City         string `schema:"city,omitempty" json:"city,omitempty" validate:"max=120"`
	Agency       string `schema:"agency,omitempty" json:"agency,omitempty" validate:"max=200"`
	HasApplyLink bool   `schema:"has_apply_link,omitempty" json:"has_apply_link,omitempty"`
	Jurisdiction string `schema:"jurisdiction,omitempty" json:"jurisdiction,omitempty" validate:"omitempty,oneof=federal state local"`
	Page         int    `schema:"page,omitempty" json:"page,omitempty"`
	PageSize     int    `schema:"pageSize,omitempty" json:"pageSize,omitempty"`
}

// Filters converts the wire query into a normalized FilterState
func (q Query) Filters() FilterState {
	return FilterState{
		Query:        q.Keyword,
		Category:     q.Category,
		State:        q.State,
		City:         q.City,
		Agency:       q.Agency,
		HasApplyLink: q.HasApplyLink,
		Jurisdiction: geo.Level(q.Jurisdiction),
		Page:         q.Page,
		PageSize:     q.PageSize,
	}.Normalize()
}

// QueryOf converts a FilterState back into its wire form
func QueryOf(f FilterState) Query {
	f = f.Normalize()
	return Query{
		Keyword:      f.Query,
		Category:     f.Category,
		State:        f.State,
		City:         f.City,
		Agency:       f.Agency,
		HasApplyLink: f.HasApplyLink,
		Jurisdiction: string(f.Jurisdiction),
		Page:         f.Page,
		PageSize:     f.PageSize,
	}
}

// NewDecoder returns a schema decoder configured for filter query strings
func NewDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	d.ZeroEmpty(true)
	return d
}

// Decode reads a FilterState from query values
// on a conversion error the well formed fields are still returned, normalized
func Decode(values url.Values) (FilterState, error) {
	var q Query
	vals := url.Values{}
	for k, v := range values {
		vals[k] = v
	}
	// accept q as an alias for keyword
	if vals.Get("keyword") == "" && vals.Get("q") != "" {
		vals.Set("keyword", vals.Get("q"))
	}
	err := NewDecoder().Decode(&q, vals)
	return q.Filters(), err
}

// Encode writes f as query values, omitting empty fields and default pagination
func Encode(f FilterState) url.Values {
	out := url.Values{}
	if err := schema.NewEncoder().Encode(QueryOf(f), out); err != nil {
		return fallbackEncode(f)
	}
	if out.Get("page") == strconv.Itoa(DefaultPage) {
		out.Del("page")
	}
	if out.Get("pageSize") == strconv.Itoa(DefaultPageSize) {
		out.Del("pageSize")
	}
	return out
}

// fallbackEncode is only reached if the schema encoder rejects the struct
func fallbackEncode(f FilterState) url.Values {
	out := url.Values{}
	for _, field := range Fields() {
		if v := f.Get(field); v != "" {
			out.Set(string(field), v)
		}
	}
	f = f.Normalize()
	if f.Page != DefaultPage {
		out.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize != DefaultPageSize {
		out.Set("pageSize", strconv.Itoa(f.PageSize))
	}
	return out
}

// EncodeString is Encode rendered as a raw query string
func EncodeString(f FilterState) string { return Encode(f).Encode() }
