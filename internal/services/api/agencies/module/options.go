package module

import "grantdir/internal/platform/config"

// Options controls the agency table
type Options struct {
	Table string
}

// FromConfig reads AGENCY_TABLE from process config/env
func FromConfig(cfg config.Conf) Options {
	return Options{Table: cfg.MayString("AGENCY_TABLE", "agencies")}
}
