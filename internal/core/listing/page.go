package listing

import "encoding/json"

// Page is one page of search results
// on the wire the items sit under the kind's plural, e.g. {"grants": [...]}
type Page struct {
	Kind       Kind
	Items      []Listing
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// EmptyPage is the well formed zero result for a request
func EmptyPage(kind Kind, page, pageSize int) Page {
	return Page{Kind: kind, Items: []Listing{}, Page: page, PageSize: pageSize}
}

type pageWire struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

// MarshalJSON writes {<plural>: items, total, page, pageSize, totalPages}
func (p Page) MarshalJSON() ([]byte, error) {
	items := p.Items
	if items == nil {
		items = []Listing{}
	}
	return json.Marshal(map[string]any{
		p.Kind.Plural(): items,
		"total":         p.Total,
		"page":          p.Page,
		"pageSize":      p.PageSize,
		"totalPages":    p.TotalPages,
	})
}

// UnmarshalJSON accepts either a grants or a jobs keyed payload
func (p *Page) UnmarshalJSON(b []byte) error {
	var w pageWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	var keyed struct {
		Grants []Listing `json:"grants"`
		Jobs   []Listing `json:"jobs"`
	}
	if err := json.Unmarshal(b, &keyed); err != nil {
		return err
	}
	*p = Page{Total: w.Total, Page: w.Page, PageSize: w.PageSize, TotalPages: w.TotalPages}
	switch {
	case keyed.Jobs != nil:
		p.Kind, p.Items = KindJob, keyed.Jobs
	default:
		p.Kind, p.Items = KindGrant, keyed.Grants
	}
	if p.Items == nil {
		p.Items = []Listing{}
	}
	return nil
}
