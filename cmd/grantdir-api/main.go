// @title         Grantdir API
// @version       0.1.0
// @description   Read only search over grants, jobs, and agencies

package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"grantdir/internal/core/geo"
	"grantdir/internal/core/version"
	"grantdir/internal/modkit"
	"grantdir/internal/modkit/repokit"
	"grantdir/internal/platform/cache"
	"grantdir/internal/platform/config"
	"grantdir/internal/platform/logger"
	"grantdir/internal/platform/metrics"
	phttp "grantdir/internal/platform/net/http"
	"grantdir/internal/platform/scheduler"
	"grantdir/internal/platform/store"
	"grantdir/internal/platform/store/pg"
	"grantdir/internal/platform/store/tabular"

	"grantdir/internal/services/api"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_")      // pgCfg lives under SERVICE_PGSQL_*
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_") // chCfg lives under SERVICE_CLICKHOUSE_*
	rdCfg := root.Prefix("SERVICE_REDIS_")      // rdCfg lives under SERVICE_REDIS_*
	// bring up logging early
	logOpt := logger.FromEnv()
	logOpt.Fields = map[string]string{"version": version.Info().Version}
	logger.Init(logOpt)
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// every backend is optional; a missing DBURL leaves search answering empty pages
	requireBackends := apiCfg.MayBool("REQUIRE_BACKENDS", false)
	if requireBackends {
		pgCfg.Require("DBURL")
	}
	pgURL := pgCfg.MayString("DBURL", "")
	chURL := chCfg.MayString("DBURL", "")
	rdURL := redisURL(rdCfg)
	m := metrics.New()
	st, err := store.Open(
		ctx,
		store.Config{
			AppName: version.Info().Service,
			PG: store.PGConfig{
				Enabled:          pgURL != "",
				URL:              pgURL,
				MaxConns:         int32(pgCfg.MayInt("MAX_CONNS", 4)),
				Slow:             pgCfg.MayDuration("SLOW", 500*time.Millisecond),
				StatementTimeout: pgCfg.MayDuration("STATEMENT_TIMEOUT", 0),
				LogSQL:           pgCfg.MayBool("LOG_SQL", false),
			},
			CH: store.CHConfig{
				Enabled:   chURL != "",
				URL:       chURL,
				ClientTag: version.Info().Version,
			},
			RDS: store.RedisConfig{
				Enabled: rdURL != "",
				URL:     rdURL,
				DB:      rdCfg.MayInt("DB", 0),
			},
		},
		store.WithLogger(*logger.Get()),
		store.WithQueryTracer(pg.TracerFunc(func(_ context.Context, ev pg.QueryEvent) {
			m.Query("postgres", ev.Err, ev.Slow, ev.Elapsed)
		})),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	if requireBackends {
		repokit.MustGuard(ctx, st, apiCfg.MayDuration("GUARD_TIMEOUT", 5*time.Second))
	}

	sched := scheduler.New(scheduler.Options{
		Timeout: apiCfg.MayDuration("JOB_TIMEOUT", 2*time.Minute),
		OnRun: func(name string, err error) {
			outcome := metrics.OK
			if err != nil {
				outcome = metrics.Error
			}
			m.ScheduledRun(name, outcome)
		},
	})

	deps := modkit.Deps{
		Log:     *l,
		DB:      openSource(apiCfg, st, l),
		CH:      st.CH,
		Geo:     geo.NewResolver(geo.MustTable(geo.USStates())),
		Cache:   cache.NewMemory(),
		Metrics: m,
		Sched:   sched,
		Probes:  st.Probes(),
	}
	switch apiCfg.MayEnum("CACHE", "auto", "auto", "memory", "redis") {
	case "redis":
		if st.Redis == nil {
			l.Panic().Msg("CORE_API_CACHE=redis needs SERVICE_REDIS_URL")
		}
		fallthrough
	case "auto":
		if st.Redis != nil {
			deps.Cache = cache.NewRedis(st.Redis, apiCfg.MayString("CACHE_PREFIX", "grantdir:"))
		}
	}

	// http server (reads CORE_API_PORT / CORE_API_ADDR)
	srv := phttp.NewServer(apiCfg)

	// mount our API
	closeAPI := api.Mount(
		srv.Router(),
		api.Options{
			Config:         apiCfg,
			Deps:           deps,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
		},
	)
	sched.Start()

	errc := make(chan error, 1)
	go func() { errc <- srv.Run(ctx) }()

	select {
	case err := <-errc:
		if err != nil {
			l.Error().Err(err).Msg("http server stopped")
		}
	case <-ctx.Done():
		l.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), apiCfg.MayDuration("SHUTDOWN_TIMEOUT", 15*time.Second))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error().Err(err).Msg("http shutdown")
	}
	if err := sched.Stop(shutdownCtx); err != nil {
		l.Warn().Err(err).Msg("scheduler stop")
	}
	if err := closeAPI(shutdownCtx); err != nil {
		l.Warn().Err(err).Msg("flush module buffers")
	}
}

// openSource picks the listing backend: postgres, then a JSON fixture file, then none
func openSource(cfg config.Conf, st *store.Store, l *logger.Logger) repokit.Source {
	if st.PG != nil {
		return tabular.NewPG(st.PG)
	}
	path := cfg.MayString("FIXTURES", "")
	if path == "" {
		l.Warn().Msg("no SERVICE_PGSQL_DBURL or CORE_API_FIXTURES, searches will return empty results")
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		l.Panic().Err(err).Str("path", path).Msg("open fixtures")
	}
	defer f.Close()

	mem := tabular.NewMemory()
	if err := mem.LoadJSON(f); err != nil {
		l.Panic().Err(err).Str("path", path).Msg("load fixtures")
	}
	l.Info().Str("path", path).Strs("tables", mem.Tables()).Msg("serving fixtures from memory")
	return mem
}

// redisURL accepts SERVICE_REDIS_URL or a bare SERVICE_REDIS_ADDR host:port
func redisURL(cfg config.Conf) string {
	if u := cfg.MayString("URL", ""); u != "" {
		return u
	}
	addr := cfg.MayString("ADDR", "")
	if addr == "" || strings.Contains(addr, "://") {
		return addr
	}
	return "redis://" + addr
}
