package module

import (
	"strings"
	"time"

	"grantdir/internal/core/listing"
	"grantdir/internal/platform/config"
)

// Options controls listing tables, facet caching, and analytics
type Options struct {
	// Tables are tried in order until one exists
	Tables        []string
	CategoryTable string

	FacetTTL       time.Duration
	FacetScanLimit int
	// FacetWarmSpec is a cron spec for rebuilding facets, empty disables warming
	FacetWarmSpec string

	EventsTable string
}

// FromConfig reads <KIND>_* values, e.g. GRANT_TABLES, from process config/env
func FromConfig(cfg config.Conf, kind listing.Kind) Options {
	kc := cfg.Prefix(strings.ToUpper(string(kind)) + "_")
	return Options{
		Tables:         kc.MayCSV("TABLES", []string{kind.Plural() + "_view", kind.Plural()}),
		CategoryTable:  cfg.MayString("CATEGORY_TABLE", "categories"),
		FacetTTL:       cfg.MayDuration("FACET_TTL", 15*time.Minute),
		FacetScanLimit: cfg.MayInt("FACET_SCAN_LIMIT", 50000),
		FacetWarmSpec:  cfg.MayString("FACET_WARM_SPEC", "@every 10m"),
		EventsTable:    cfg.MayString("SEARCH_EVENTS_TABLE", "search_events"),
	}
}
