package repokit

import (
	"context"
	"fmt"
	"time"
)

// Guarded checks its own backends, *store.Store in practice
type Guarded interface {
	Guard(context.Context) error
}

// MustGuard fails boot when any enabled backend does not answer within timeout
// a zero timeout means 5s
func MustGuard(ctx context.Context, g Guarded, timeout time.Duration) {
	if g == nil {
		panic("repokit: nil guard")
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := g.Guard(ctx); err != nil {
		panic(fmt.Errorf("backends not ready: %w", err))
	}
}
