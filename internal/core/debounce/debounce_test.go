package debounce

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTrailingCallOnly(t *testing.T) {
	clk := NewManualClock()
	d := New(300*time.Millisecond, clk)

	var got []string
	for _, s := range []string{"w", "wa", "wat", "water"} {
		s := s
		d.Trigger(func() { got = append(got, s) })
		clk.Advance(100 * time.Millisecond)
	}
	assert.Empty(t, got)
	assert.True(t, d.Pending())

	clk.Advance(200 * time.Millisecond)
	assert.Equal(t, []string{"water"}, got)
	assert.False(t, d.Pending())
	assert.Equal(t, 0, clk.Pending())
}

func TestCancel(t *testing.T) {
	clk := NewManualClock()
	d := New(time.Second, clk)
	var n atomic.Int32
	d.Trigger(func() { n.Add(1) })
	assert.True(t, d.Cancel())
	assert.False(t, d.Cancel())
	clk.Advance(2 * time.Second)
	assert.Zero(t, n.Load())
}

func TestManualClockOrder(t *testing.T) {
	clk := NewManualClock()
	var order []int
	clk.AfterFunc(2*time.Second, func() { order = append(order, 2) })
	clk.AfterFunc(time.Second, func() { order = append(order, 1) })
	stopped := clk.AfterFunc(time.Second, func() { order = append(order, 99) })
	assert.True(t, stopped.Stop())
	clk.Advance(3 * time.Second)
	assert.Equal(t, []int{1, 2}, order)
}

func TestRealClock(t *testing.T) {
	d := New(5*time.Millisecond, nil)
	done := make(chan struct{})
	d.Trigger(func() { close(done) })
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced call never ran")
	}
	assert.Equal(t, 5*time.Millisecond, d.Delay())
}
