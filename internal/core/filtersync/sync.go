// Package filtersync keeps filter state, the address bar query string, and fetched
// results consistent for one search view
//
// Keyword edits are debounced, every other edit applies immediately, locked fields
// can never be changed, and only the newest request's response is ever applied
package filtersync

import (
	"context"
	"net/url"
	"strconv"
	"sync"
	"time"

	"grantdir/internal/core/debounce"
	"grantdir/internal/core/filters"
	"grantdir/internal/core/listing"
)

// DefaultDebounce is the keyword quiet period
const DefaultDebounce = 300 * time.Millisecond

// FetchErrorMessage is shown inline when a search request fails
const FetchErrorMessage = "We couldn't load results right now. Please try again."

// Location is the address bar seam
type Location interface {
	Query() url.Values
	// Replace rewrites the query string without adding a history entry
	Replace(q url.Values)
}

// Searcher runs a search for a normalized filter state
type Searcher interface {
	Search(ctx context.Context, f filters.FilterState) (listing.Page, error)
}

// SearcherFunc adapts a function to Searcher
type SearcherFunc func(ctx context.Context, f filters.FilterState) (listing.Page, error)

// Search calls fn
func (fn SearcherFunc) Search(ctx context.Context, f filters.FilterState) (listing.Page, error) {
	return fn(ctx, f)
}

// View is what a UI renders
type View struct {
	Filters    filters.FilterState
	Results    listing.Page
	Loading    bool
	Err        string
	Generation uint64
}

// Options configures a Synchronizer
type Options struct {
	Location Location
	Searcher Searcher

	// Locked holds the values of LockedFields, re-applied over every next state
	Locked       filters.FilterState
	LockedFields []filters.Field

	Debounce time.Duration
	Clock    debounce.Clock

	// OnUpdate receives a snapshot after every state or result change
	OnUpdate func(View)
}

// Synchronizer owns the filter state for one search view
type Synchronizer struct {
	loc      Location
	searcher Searcher
	locked   filters.FilterState
	fields   []filters.Field
	isLocked map[filters.Field]bool
	deb      *debounce.Debouncer
	onUpdate func(View)

	mu      sync.Mutex
	ctx     context.Context
	state   filters.FilterState
	gen     uint64
	view    View
	lastErr error

	inflight sync.WaitGroup
}

// New builds a Synchronizer; call Start to load the initial state
func New(o Options) *Synchronizer {
	if o.Location == nil {
		panic("filtersync requires a non nil Location")
	}
	if o.Searcher == nil {
		panic("filtersync requires a non nil Searcher")
	}
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	s := &Synchronizer{
		loc:      o.Location,
		searcher: o.Searcher,
		locked:   o.Locked.Normalize(),
		fields:   append([]filters.Field(nil), o.LockedFields...),
		isLocked: make(map[filters.Field]bool, len(o.LockedFields)),
		deb:      debounce.New(o.Debounce, o.Clock),
		onUpdate: o.OnUpdate,
		ctx:      context.Background(),
	}
	for _, f := range o.LockedFields {
		s.isLocked[f] = true
	}
	return s
}

// Start reads the current location and runs the first search without rewriting the URL
func (s *Synchronizer) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()
	s.apply(s.fromValues(s.loc.Query()), false)
}

// Filters returns the committed filter state
func (s *Synchronizer) Filters() filters.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// View returns a snapshot of what the UI should show
func (s *Synchronizer) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// LastError returns the error behind the current inline message, if any
func (s *Synchronizer) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Locked reports whether field is locked
func (s *Synchronizer) Locked(field filters.Field) bool { return s.isLocked[field] }

// Wait blocks until every issued search has returned
func (s *Synchronizer) Wait() { s.inflight.Wait() }

// SetKeyword echoes text into the view now and commits it after the quiet period
func (s *Synchronizer) SetKeyword(text string) bool {
	if s.isLocked[filters.FieldQuery] {
		return false
	}
	s.mu.Lock()
	s.view.Filters.Query = text
	v := s.view
	s.mu.Unlock()
	s.notify(v)

	s.deb.Trigger(func() {
		s.mu.Lock()
		next := s.state
		s.mu.Unlock()
		next.Query = text
		next.Page = filters.DefaultPage
		s.applyIfChanged(next)
	})
	return true
}

// Set changes one field immediately; locked fields are left untouched and report false
func (s *Synchronizer) Set(field filters.Field, value string) bool {
	if field == filters.FieldQuery {
		return s.SetKeyword(value)
	}
	if s.isLocked[field] {
		return false
	}
	next := s.base().With(field, value)
	next.Page = filters.DefaultPage
	return s.applyIfChanged(next)
}

// SetApplyLink toggles the has-apply-link filter
func (s *Synchronizer) SetApplyLink(on bool) bool {
	return s.Set(filters.FieldHasApplyLink, strconv.FormatBool(on))
}

// Reset clears every unlocked field and returns to the first page
// a keyword still waiting on the debounce is dropped from the view even when no search is needed
func (s *Synchronizer) Reset() bool {
	dropped := s.deb.Cancel()
	s.mu.Lock()
	next := s.state.Reset(s.fields)
	s.mu.Unlock()
	if s.applyIfChanged(next) {
		return true
	}
	if dropped {
		s.syncView()
	}
	return false
}

// syncView points the view back at the committed filters after a pending edit was discarded
func (s *Synchronizer) syncView() {
	s.mu.Lock()
	if s.view.Filters == s.state {
		s.mu.Unlock()
		return
	}
	s.view.Filters = s.state
	v := s.view
	s.mu.Unlock()
	s.notify(v)
}

// GoToPage re-runs the current search on another page
func (s *Synchronizer) GoToPage(page int) bool {
	next := s.base()
	next.Page = page
	return s.applyIfChanged(next)
}

// SetPageSize changes the page size and returns to the first page
func (s *Synchronizer) SetPageSize(size int) bool {
	next := s.base()
	next.PageSize = size
	next.Page = filters.DefaultPage
	return s.applyIfChanged(next)
}

// OnLocationChange handles back/forward navigation or a pasted link
// when the URL describes a different state it searches again without writing the URL back
func (s *Synchronizer) OnLocationChange(q url.Values) bool {
	next := s.fromValues(q)
	s.mu.Lock()
	same := next == s.state
	s.mu.Unlock()
	if same {
		return false
	}
	s.deb.Cancel()
	s.apply(next, false)
	return true
}

// base is the committed state with any pending keyword folded in
// an immediate edit flushes the keyword instead of dropping it
func (s *Synchronizer) base() filters.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state
	if s.deb.Pending() {
		next.Query = s.view.Filters.Query
	}
	return next
}

func (s *Synchronizer) fromValues(q url.Values) filters.FilterState {
	f, _ := filters.Decode(q)
	return s.lock(f)
}

func (s *Synchronizer) lock(f filters.FilterState) filters.FilterState {
	return f.Overlay(s.locked, s.fields).Normalize()
}

func (s *Synchronizer) applyIfChanged(next filters.FilterState) bool {
	next = s.lock(next)
	s.mu.Lock()
	same := next == s.state && s.gen > 0
	s.mu.Unlock()
	if same {
		return false
	}
	s.deb.Cancel()
	s.apply(next, true)
	return true
}

// apply commits next, optionally mirrors it to the URL, and issues a search
func (s *Synchronizer) apply(next filters.FilterState, writeURL bool) {
	next = s.lock(next)

	s.mu.Lock()
	s.state = next
	s.gen++
	gen := s.gen
	ctx := s.ctx
	s.view.Filters = next
	s.view.Loading = true
	s.view.Generation = gen
	v := s.view
	s.mu.Unlock()

	// outside the lock so a Location that echoes back into OnLocationChange cannot deadlock
	if writeURL {
		s.loc.Replace(filters.Encode(next))
	}
	s.notify(v)

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		page, err := s.searcher.Search(ctx, next)

		s.mu.Lock()
		if gen != s.gen {
			// a newer request owns the view
			s.mu.Unlock()
			return
		}
		s.view.Loading = false
		if err != nil {
			s.view.Results = listing.EmptyPage(page.Kind, next.Page, next.PageSize)
			s.view.Err = FetchErrorMessage
			s.lastErr = err
		} else {
			s.view.Results = page
			s.view.Err = ""
			s.lastErr = nil
		}
		v := s.view
		s.mu.Unlock()
		s.notify(v)
	}()
}

func (s *Synchronizer) notify(v View) {
	if s.onUpdate != nil {
		s.onUpdate(v)
	}
}
