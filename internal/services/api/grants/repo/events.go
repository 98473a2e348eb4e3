package repo

import (
	"context"
	"sync"
	"time"

	"grantdir/internal/modkit/repokit"
	"grantdir/internal/platform/logger"
	"grantdir/internal/services/api/grants/domain"
)

// SearchEventColumns is the column order of the search events table
var SearchEventColumns = []string{
	"ts", "kind", "keyword", "category", "state", "city", "agency", "has_apply_link",
	"jurisdiction", "page", "page_size", "total", "elapsed_ms", "source_table", "request_id",
}

// EventOptions tunes the analytics writer
type EventOptions struct {
	Table     string
	BatchSize int
	Flush     time.Duration
	Buffer    int
}

// Events buffers search events and writes them to the analytics store in batches
// Record never blocks; events are dropped when the buffer is full
type Events struct {
	ch   repokit.Analytics
	opt  EventOptions
	log  *logger.Logger
	in   chan []any
	done chan struct{}

	mu     sync.RWMutex
	closed bool
}

var _ domain.EventSink = (*Events)(nil)

// NewEvents starts the background writer; a nil analytics store yields a nil sink
func NewEvents(ch repokit.Analytics, opt EventOptions) *Events {
	if ch == nil {
		return nil
	}
	if opt.Table == "" {
		opt.Table = "search_events"
	}
	if opt.BatchSize <= 0 {
		opt.BatchSize = 500
	}
	if opt.Flush <= 0 {
		opt.Flush = 5 * time.Second
	}
	if opt.Buffer <= 0 {
		opt.Buffer = 4 * opt.BatchSize
	}
	e := &Events{
		ch:   ch,
		opt:  opt,
		log:  logger.Named("events"),
		in:   make(chan []any, opt.Buffer),
		done: make(chan struct{}),
	}
	go e.loop()
	return e
}

// Record queues ev for the next batch
func (e *Events) Record(_ context.Context, ev domain.SearchEvent) {
	if e == nil {
		return
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return
	}
	select {
	case e.in <- eventRow(ev, time.Now().UTC()):
	default:
		e.log.Warn().Str("table", e.opt.Table).Msg("search event buffer full, dropping")
	}
}

// Close flushes pending events and stops the writer
func (e *Events) Close(ctx context.Context) error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	if !e.closed {
		e.closed = true
		close(e.in)
	}
	e.mu.Unlock()

	select {
	case <-e.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Events) loop() {
	defer close(e.done)
	tick := time.NewTicker(e.opt.Flush)
	defer tick.Stop()

	batch := make([][]any, 0, e.opt.BatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.ch.Insert(ctx, e.opt.Table, batch); err != nil {
			e.log.Error().Err(err).Str("table", e.opt.Table).Int("rows", len(batch)).Msg("search event flush failed")
		}
		batch = make([][]any, 0, e.opt.BatchSize)
	}

	for {
		select {
		case row, ok := <-e.in:
			if !ok {
				flush()
				return
			}
			batch = append(batch, row)
			if len(batch) >= e.opt.BatchSize {
				flush()
			}
		case <-tick.C:
			flush()
		}
	}
}

func eventRow(ev domain.SearchEvent, ts time.Time) []any {
	f := ev.Filters
	var apply uint8
	if f.HasApplyLink {
		apply = 1
	}
	return []any{
		ts, string(ev.Kind), f.Query, f.Category, f.State, f.City, f.Agency, apply,
		string(f.Jurisdiction), uint32(f.Page), uint32(f.PageSize), uint64(ev.Total),
		uint64(ev.ElapsedMs), ev.Table, ev.RequestID,
	}
}
