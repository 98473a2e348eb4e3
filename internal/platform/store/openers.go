package store

import (
	"context"
	"fmt"
	"time"

	chx "grantdir/internal/platform/store/ch"
	"grantdir/internal/platform/store/pg"

	"github.com/redis/go-redis/v9"
)

const (
	backoffStart   = 150 * time.Millisecond
	backoffCeiling = 2 * time.Second
)

var sleep = time.Sleep

// openPG builds the pool and waits for the first successful ping
func openPG(ctx context.Context, cfg Config, s *Store) (SQL, error) {
	var logTracer pg.QueryTracer
	if cfg.PG.LogSQL {
		logTracer = pg.Tracer(s.Log)
	}
	p, err := pg.Open(ctx, pg.Config{
		URL:              cfg.PG.URL,
		MaxConns:         cfg.PG.MaxConns,
		AppName:          cfg.AppName,
		Slow:             cfg.PG.Slow,
		StatementTimeout: cfg.PG.StatementTimeout,
	}, pg.WithTracer(pg.Tee(logTracer, s.tracer)))
	if err != nil {
		return nil, err
	}

	attempts := cfg.PG.ConnectRetries
	if attempts <= 0 {
		attempts = 20
	}
	timeout := cfg.PG.PingTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	// ping the pool directly so boot retries stay out of the query trace
	if err := waitReady(ctx, attempts, timeout, p.Pool.Ping); err != nil {
		p.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}
	s.Log.Info().Int32("max_conns", p.Pool.Config().MaxConns).Msg("postgres ready")
	return newSQL(p.Pool, p), nil
}

// waitReady pings with doubling backoff until ping succeeds, ctx ends or attempts run out
func waitReady(ctx context.Context, attempts int, timeout time.Duration, ping func(context.Context) error) error {
	var last error
	backoff := backoffStart
	for i := 0; i < attempts; i++ {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		last = ping(pctx)
		cancel()
		if last == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if i < attempts-1 {
			sleep(backoff)
			backoff = min(backoff*2, backoffCeiling)
		}
	}
	return fmt.Errorf("ping failed after %d attempts: %w", attempts, last)
}

// openCH builds a lazily dialed client, the first round trip happens on Guard or the first insert
func openCH(ctx context.Context, cfg Config) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{
		URL:        cfg.CH.URL,
		ClientInfo: chx.BuildClientInfo(cfg.AppName, cfg.CH.ClientTag),
	})
	if err != nil {
		return nil, err
	}
	return newClickhouse(c), nil
}

// openRedis parses the url, connections dial on first use
func openRedis(cfg Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RDS.URL)
	if err != nil {
		return nil, fmt.Errorf("redis url: %w", err)
	}
	if cfg.RDS.DB != 0 {
		opts.DB = cfg.RDS.DB
	}
	if cfg.AppName != "" {
		opts.ClientName = cfg.AppName
	}
	return redis.NewClient(opts), nil
}
