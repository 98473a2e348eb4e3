// Package store opens the optional backends behind the directory
// postgres holds listings, clickhouse receives search events, redis caches facets
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"grantdir/internal/platform/logger"
	"grantdir/internal/platform/store/pg"

	"github.com/redis/go-redis/v9"
)

// Store holds whichever backends were enabled
// the zero value is safe and has none
type Store struct {
	Log logger.Logger

	// PG is nil when postgres is disabled
	PG SQL
	// CH is nil when clickhouse is disabled
	CH Clickhouse
	// Redis is nil when redis is disabled
	Redis *redis.Client

	tracer pg.QueryTracer
}

// Open constructs a Store with the requested backends
// a failing backend closes the ones already opened
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}
	s.Log = s.Log.With().Str("component", "store").Logger()

	if cfg.PG.Enabled {
		sq, err := openPG(ctx, cfg, s)
		if err != nil {
			return nil, err
		}
		s.PG = sq
	}
	if cfg.CH.Enabled {
		c, err := openCH(ctx, cfg)
		if err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		s.CH = c
	}
	if cfg.RDS.Enabled {
		rc, err := openRedis(cfg)
		if err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		s.Redis = rc
	}
	return s, nil
}

// Probes lists a readiness check per backend
// pg is always present and nil when disabled, ch and redis only when enabled
func (s *Store) Probes() map[string]Pinger {
	out := map[string]Pinger{"pg": nil}
	if s == nil {
		return out
	}
	if s.PG != nil {
		out["pg"] = s.PG
	}
	if p, ok := s.CH.(Pinger); ok {
		out["ch"] = p
	}
	if s.Redis != nil {
		out["redis"] = redisPinger{s.Redis}
	}
	return out
}

// Guard pings every enabled backend and joins the failures
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("store: nil store")
	}
	probes := s.Probes()
	names := make([]string, 0, len(probes))
	for n := range probes {
		names = append(names, n)
	}
	sort.Strings(names)

	var errs []error
	for _, n := range names {
		p := probes[n]
		if p == nil {
			continue
		}
		if err := p.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", n, err))
		}
	}
	return errors.Join(errs...)
}

// Close closes every opened backend, nil backends are ignored
func (s *Store) Close(context.Context) error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.Redis != nil {
		errs = append(errs, s.Redis.Close())
	}
	if s.CH != nil {
		errs = append(errs, s.CH.Close())
	}
	if s.PG != nil {
		errs = append(errs, s.PG.Close())
	}
	return errors.Join(errs...)
}

type redisPinger struct{ c *redis.Client }

func (r redisPinger) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }
