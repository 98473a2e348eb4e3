package tabular

import (
	"context"
	"sync"

	perr "grantdir/internal/platform/errors"
	"grantdir/internal/platform/logger"
)

// Disabled is the Backend used when no data source is configured
// every query fails with a not configured error and the condition is logged once
type Disabled struct {
	log  logger.Logger
	once sync.Once
}

// NewDisabled returns a Disabled backend logging through log
func NewDisabled(log logger.Logger) *Disabled { return &Disabled{log: log} }

// Name implements Backend
func (d *Disabled) Name() string { return "disabled" }

// Select implements Backend
func (d *Disabled) Select(_ context.Context, q Query) (Result, error) {
	d.once.Do(func() {
		d.log.Warn().Str("table", q.Table).Msg("no listing backend configured; serving empty results")
	})
	return Result{}, perr.NotConfiguredf("tabular: no backend configured for %s", q.Table)
}
