package filtersync

import (
	"net/url"
	"sync"
)

// MemoryLocation is a Location backed by a url.URL, for terminals and tests
type MemoryLocation struct {
	mu       sync.Mutex
	u        url.URL
	replaced int
}

// NewMemoryLocation parses raw as the starting URL
func NewMemoryLocation(raw string) (*MemoryLocation, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &MemoryLocation{u: *u}, nil
}

// Query returns the current query values
func (l *MemoryLocation) Query() url.Values {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.u.Query()
}

// Replace rewrites the query string
func (l *MemoryLocation) Replace(q url.Values) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.u.RawQuery = q.Encode()
	l.replaced++
}

// Navigate sets the query string the way an external navigation would, without counting as a write
func (l *MemoryLocation) Navigate(rawQuery string) url.Values {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.u.RawQuery = rawQuery
	return l.u.Query()
}

// String returns the full URL
func (l *MemoryLocation) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.u.String()
}

// Writes counts Replace calls
func (l *MemoryLocation) Writes() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.replaced
}
