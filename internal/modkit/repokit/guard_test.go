package repokit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type guardFunc func(context.Context) error

func (f guardFunc) Guard(ctx context.Context) error { return f(ctx) }

func TestMustGuard(t *testing.T) {
	var deadline time.Time
	ok := guardFunc(func(ctx context.Context) error {
		deadline, _ = ctx.Deadline()
		return nil
	})
	assert.NotPanics(t, func() { MustGuard(context.Background(), ok, 0) })
	assert.WithinDuration(t, time.Now().Add(5*time.Second), deadline, time.Second)

	down := guardFunc(func(context.Context) error { return errors.New("pg: connection refused") })
	assert.PanicsWithError(t, "backends not ready: pg: connection refused", func() {
		MustGuard(context.Background(), down, time.Second)
	})
	assert.Panics(t, func() { MustGuard(context.Background(), nil, time.Second) })
}
