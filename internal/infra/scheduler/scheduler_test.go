//go:build !integration

package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type countingRefresher struct {
	n atomic.Int64
}

func (c *countingRefresher) Refresh() { c.n.Add(1) }

func TestScheduler(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("refreshes on each tick until stopped", func(t *testing.T) {
		r := &countingRefresher{}
		s := NewScheduler(10*time.Millisecond, r, &logger)
		s.Start(context.Background())

		time.Sleep(55 * time.Millisecond)
		s.Stop()
		got := r.n.Load()
		if got < 2 {
			t.Errorf("expected at least 2 refreshes, got %d", got)
		}

		// No further refreshes after Stop.
		time.Sleep(30 * time.Millisecond)
		if r.n.Load() != got {
			t.Errorf("refresh fired after Stop")
		}
	})

	t.Run("Stop before Start is a no-op", func(t *testing.T) {
		s := NewScheduler(time.Hour, &countingRefresher{}, &logger)
		s.Stop()
	})

	t.Run("double Start does not spawn a second loop", func(t *testing.T) {
		r := &countingRefresher{}
		s := NewScheduler(10*time.Millisecond, r, &logger)
		s.Start(context.Background())
		s.Start(context.Background())
		time.Sleep(25 * time.Millisecond)
		s.Stop()
	})
}
