// Package scheduler runs named periodic jobs on robfig/cron with zerolog logging
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"grantdir/internal/platform/logger"

	"github.com/robfig/cron/v3"
)

// Job is one unit of scheduled work
type Job func(ctx context.Context) error

// Options configures a Scheduler
type Options struct {
	// Timeout bounds each run, 0 means no bound
	Timeout time.Duration
	// OnRun observes every finished run
	OnRun func(name string, err error)
}

// Scheduler wraps a cron instance; overlapping runs of the same job are skipped
type Scheduler struct {
	cron *cron.Cron
	opt  Options
	log  *logger.Logger

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	jobs   map[string]cron.EntryID
}

// New builds a stopped scheduler
func New(opt Options) *Scheduler {
	log := logger.Named("scheduler")
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLogger{log: log}),
			cron.WithChain(cron.Recover(cronLogger{log: log})),
		),
		opt:    opt,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
		jobs:   map[string]cron.EntryID{},
	}
}

// Add registers job under name with a cron spec such as "@every 10m" or "*/5 * * * *"
func (s *Scheduler) Add(name, spec string, job Job) error {
	if name == "" || job == nil {
		return errors.New("scheduler: name and job are required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.jobs[name]; dup {
		return fmt.Errorf("scheduler: job %q already registered", name)
	}
	run := cron.NewChain(cron.SkipIfStillRunning(cronLogger{log: s.log})).
		Then(cron.FuncJob(func() { _ = s.run(name, job) }))
	id, err := s.cron.AddJob(spec, run)
	if err != nil {
		return fmt.Errorf("scheduler: job %q spec %q: %w", name, spec, err)
	}
	s.jobs[name] = id
	return nil
}

// RunNow executes the named job synchronously outside its schedule
func (s *Scheduler) RunNow(name string, job Job) error { return s.run(name, job) }

func (s *Scheduler) run(name string, job Job) error {
	ctx := s.ctx
	if s.opt.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opt.Timeout)
		defer cancel()
	}
	start := time.Now()
	err := job(ctx)
	evt := s.log.Debug()
	if err != nil {
		evt = s.log.Warn().Err(err)
	}
	evt.Str("job", name).Dur("elapsed", time.Since(start)).Msg("job finished")
	if s.opt.OnRun != nil {
		s.opt.OnRun(name, err)
	}
	return err
}

// Jobs lists registered job names with their next fire time
func (s *Scheduler) Jobs() map[string]time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]time.Time, len(s.jobs))
	for name, id := range s.jobs {
		out[name] = s.cron.Entry(id).Next
	}
	return out
}

// Start begins firing jobs in the background
func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts scheduling, cancels in flight runs, and waits for them or ctx
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	s.cancel()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger adapts zerolog to cron.Logger
type cronLogger struct{ log *logger.Logger }

func (l cronLogger) Info(msg string, kv ...any) {
	l.log.Debug().Fields(kv).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, kv ...any) {
	l.log.Error().Err(err).Fields(kv).Msg(msg)
}
