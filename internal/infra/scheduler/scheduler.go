package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Refresher is the minimal interface the scheduler needs from a cached
// resource. Any type with a Refresh method can be passed.
type Refresher interface {
	Refresh()
}

// Scheduler periodically drops a long-lived cache so the next read reloads.
// The FFP reference tables use it; the TTL-based metric caches do not need it.
type Scheduler struct {
	interval  time.Duration
	refresher Refresher
	log       *zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler constructs a scheduler that calls refresher.Refresh every
// `interval`. If interval <= 0 it defaults to 24 hours.
func NewScheduler(interval time.Duration, refresher Refresher, logger *zerolog.Logger) *Scheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Scheduler{
		interval:  interval,
		refresher: refresher,
		log:       logger,
		done:      make(chan struct{}),
	}
}

// Start begins the refresh loop in a background goroutine. Calling Start
// multiple times has no effect.
func (s *Scheduler) Start(parentCtx context.Context) {
	if s.ctx != nil {
		// already started
		return
	}
	ctx, cancel := context.WithCancel(parentCtx)
	s.ctx = ctx
	s.cancel = cancel

	go s.loop()
}

func (s *Scheduler) loop() {
	ticker := time.NewTicker(s.interval)
	defer func() {
		ticker.Stop()
		close(s.done)
	}()

	s.log.Info().Dur("interval", s.interval).Msg("cache refresh scheduler started")
	for {
		select {
		case <-s.ctx.Done():
			s.log.Info().Msg("cache refresh scheduler stopping")
			return
		case <-ticker.C:
			s.refresher.Refresh()
			s.log.Debug().Msg("cache refreshed")
		}
	}
}

// Stop cancels the scheduler and waits for the loop to finish. It is idempotent.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		// not started
		return
	}
	s.cancel()
	<-s.done
	s.ctx = nil
	s.cancel = nil
	s.done = make(chan struct{})
}
