// Package listing holds the read models shared by the directory services and clients
package listing

import (
	"encoding/json"
	"strings"
	"time"

	"grantdir/internal/core/geo"
)

// Kind selects the listing family and its URL base
type Kind string

// Known kinds
const (
	KindGrant Kind = "grant"
	KindJob   Kind = "job"
)

// ParseKind accepts singular or plural names in any case
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "grant", "grants", "":
		return KindGrant, true
	case "job", "jobs":
		return KindJob, true
	}
	return "", false
}

// Plural is the collection name used in URLs and response keys
func (k Kind) Plural() string {
	if k == KindJob {
		return "jobs"
	}
	return "grants"
}

// Base is the canonical URL base for the kind, e.g. /grants
func (k Kind) Base() string { return "/" + k.Plural() }

// Listing is one grant or job posting as served to callers
// Path and Jurisdiction are derived from the other fields on read
type Listing struct {
	ID            string     `json:"id"`
	Kind          Kind       `json:"kind"`
	Title         string     `json:"title"`
	Category      string     `json:"category,omitempty"`
	CategoryCode  string     `json:"categoryCode,omitempty"`
	CategoryLabel string     `json:"categoryLabel,omitempty"`
	AgencyName    string     `json:"agencyName,omitempty"`
	AgencyCode    string     `json:"agencyCode,omitempty"`
	AgencySlug    string     `json:"agencySlug,omitempty"`
	State         string     `json:"state,omitempty"`
	City          string     `json:"city,omitempty"`
	FundingAmount string     `json:"fundingAmount,omitempty"`
	Salary        string     `json:"salary,omitempty"`
	OpenDate      *time.Time `json:"openDate,omitempty"`
	CloseDate     *time.Time `json:"closeDate,omitempty"`
	ScrapedAt     *time.Time `json:"scrapedAt,omitempty"`
	ApplyLink     string     `json:"applyLink,omitempty"`
	Summary       string     `json:"summary,omitempty"`
	Description   string     `json:"description,omitempty"`
	Eligibility   string     `json:"eligibility,omitempty"`

	Path         string           `json:"path"`
	Jurisdiction geo.Jurisdiction `json:"jurisdiction"`
}

// Agency is a funding or hiring organization
type Agency struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Code        string          `json:"code,omitempty"`
	Slug        string          `json:"slug"`
	Description string          `json:"description,omitempty"`
	Website     string          `json:"website,omitempty"`
	Contact     json.RawMessage `json:"contact,omitempty"`
	Path        string          `json:"path"`
	CreatedAt   *time.Time      `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time      `json:"updatedAt,omitempty"`
}

// Facet is one countable filter option
type Facet struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Count int    `json:"count"`
}

// FacetSet groups the sidebar filter axes
type FacetSet struct {
	Categories []Facet `json:"categories"`
	States     []Facet `json:"states"`
	Agencies   []Facet `json:"agencies"`
}

// FederalFacetLabel and FederalFacetValue name the pinned nationwide state option
const (
	FederalFacetLabel = "Federal (nationwide)"
	FederalFacetValue = "federal"
)

// TotalPages is ceil(total/pageSize), zero when there is nothing to page
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
