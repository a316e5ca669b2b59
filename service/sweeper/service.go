package sweeper

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tonytrieu-dev/approval-workflow-service/internal/clock"
	"github.com/tonytrieu-dev/approval-workflow-service/service/engine"
)

// Config represents sweeper configuration.
type Config struct {
	// Interval is the cadence between sweep cycles. Recommended: a
	// fraction of the smallest expected timeout window.
	Interval time.Duration
}

// DefaultConfig returns the default sweeper configuration.
func DefaultConfig() Config {
	return Config{Interval: 30 * time.Second}
}

// Service drives overdue pending requests through the engine's expiry
// primitive on a fixed cadence. Cycles are serialized by a single-flight
// guard: a tick arriving while the previous cycle still runs is skipped,
// bounding store load. Duplicate sweeps across engine instances are
// harmless – per-record conditional writes make them no-ops – so no
// cross-instance coordination exists.
type Service struct {
	engine     engine.Service
	config     Config
	inFlight   atomic.Bool
	shutdownCh chan struct{}
	loopWg     sync.WaitGroup
	started    atomic.Bool
}

// Option customises the sweeper.
type Option func(*Service)

// WithInterval overrides the sweep cadence.
func WithInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.config.Interval = interval
		}
	}
}

// New creates a sweeper over the supplied engine.
func New(engineService engine.Service, options ...Option) *Service {
	ret := &Service{
		engine:     engineService,
		config:     DefaultConfig(),
		shutdownCh: make(chan struct{}),
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// RunCycle executes one sweep: capture now once, expire everything
// overdue. Exported so a host scheduler can drive the sweeper instead of
// Start's internal ticker. Returns how many requests were transitioned;
// false when the cycle was skipped because another is still in flight.
func (s *Service) RunCycle(ctx context.Context) (int, bool) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return 0, false
	}
	defer s.inFlight.Store(false)

	count, err := s.engine.ExpireOverdue(ctx, clock.Now())
	if err != nil {
		// A failed cycle carries no state into the next one; the next
		// tick retries from scratch.
		log.Printf("sweep cycle failed after expiring %d request(s): %v", count, err)
	}
	return count, true
}

// Start launches the ticker loop. It is a no-op when already started.
func (s *Service) Start(ctx context.Context) {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	s.loopWg.Add(1)
	go func() {
		defer s.loopWg.Done()
		ticker := time.NewTicker(s.config.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.shutdownCh:
				return
			case <-ticker.C:
				s.RunCycle(ctx)
			}
		}
	}()
}

// Shutdown stops the ticker loop and waits for it to exit. An in-flight
// cycle runs to completion.
func (s *Service) Shutdown() {
	if !s.started.Load() {
		return
	}
	select {
	case <-s.shutdownCh:
	default:
		close(s.shutdownCh)
	}
	s.loopWg.Wait()
}
