// Package pg opens the pgx pool behind the listing tables
package pg

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config configures the pool
type Config struct {
	URL      string
	MaxConns int32
	// AppName is reported as application_name so listing reads are visible in pg_stat_activity
	AppName string
	// Slow marks queries at or above this duration, zero disables the flag
	Slow time.Duration
	// StatementTimeout caps every statement server side, zero keeps the server default
	StatementTimeout time.Duration
}

// PG is a pool plus the tracer its adapter reports to
type PG struct {
	Pool   *pgxpool.Pool
	Tracer QueryTracer
	Slow   time.Duration
}

// Option mutates PG or its pool config during Open
type Option func(*PG, *pgxpool.Config)

// WithTracer reports every query to t
func WithTracer(t QueryTracer) Option {
	return func(p *PG, _ *pgxpool.Config) { p.Tracer = t }
}

// WithPoolConfig hands the parsed pool config to fn before the pool is built
func WithPoolConfig(fn func(*pgxpool.Config)) Option {
	return func(_ *PG, c *pgxpool.Config) { fn(c) }
}

var newPool = pgxpool.NewWithConfig

// Open parses cfg and builds the pool, connections dial lazily
func Open(ctx context.Context, cfg Config, opts ...Option) (*PG, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	rt := pcfg.ConnConfig.RuntimeParams
	if cfg.AppName != "" {
		rt["application_name"] = cfg.AppName
	}
	if cfg.StatementTimeout > 0 {
		rt["statement_timeout"] = durationMs(cfg.StatementTimeout)
	}

	p := &PG{Slow: cfg.Slow}
	for _, o := range opts {
		o(p, pcfg)
	}
	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	p.Pool = pool
	return p, nil
}

// IsSlow reports whether elapsed crosses the configured threshold
func (p *PG) IsSlow(elapsed time.Duration) bool {
	return p != nil && p.Slow > 0 && elapsed >= p.Slow
}

// Close closes the pool
func (p *PG) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}

func durationMs(d time.Duration) string {
	return strconv.FormatInt(max(d.Milliseconds(), 1), 10) + "ms"
}
