package store

import (
	"grantdir/internal/platform/logger"
	"grantdir/internal/platform/store/pg"
)

// Option mutates Store during Open
type Option func(*Store) error

// WithLogger sets the logger backends log through
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}

// WithQueryTracer reports every postgres round trip to t, next to the LogSQL tracer
func WithQueryTracer(t pg.QueryTracer) Option {
	return func(s *Store) error {
		s.tracer = t
		return nil
	}
}
