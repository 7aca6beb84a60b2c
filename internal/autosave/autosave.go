package autosave

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Scheduler coalesces bursts of saves into one write per key. Each
// Schedule call restarts that key's timer, so only the last call in a
// burst fires, and the save function runs at fire time — it reads
// whatever state exists then, not a snapshot from when it was scheduled.
type Scheduler struct {
	delay  time.Duration
	logger *zap.Logger

	mu      sync.Mutex
	timers  map[string]*time.Timer
	pending map[string]func() error
	stopped bool
}

// New creates a scheduler with the given debounce delay.
func New(delay time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		delay:   delay,
		logger:  logger,
		timers:  make(map[string]*time.Timer),
		pending: make(map[string]func() error),
	}
}

// Schedule queues save to run after the debounce delay. A later call
// with the same key replaces the pending function and restarts the
// delay. Different keys debounce independently.
func (s *Scheduler) Schedule(key string, save func() error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	s.pending[key] = save
	if t, ok := s.timers[key]; ok {
		t.Stop()
	}
	s.timers[key] = time.AfterFunc(s.delay, func() {
		s.fire(key)
	})
}

func (s *Scheduler) fire(key string) {
	s.mu.Lock()
	save, ok := s.pending[key]
	delete(s.pending, key)
	delete(s.timers, key)
	s.mu.Unlock()
	if !ok {
		return
	}

	if err := save(); err != nil && s.logger != nil {
		s.logger.Warn("autosave failed", zap.String("key", key), zap.Error(err))
	}
}

// Flush runs a pending save for key immediately, cancelling its timer.
// It is a no-op when nothing is pending.
func (s *Scheduler) Flush(key string) {
	s.mu.Lock()
	if t, ok := s.timers[key]; ok {
		t.Stop()
	}
	s.mu.Unlock()
	s.fire(key)
}

// Cancel drops a pending save for key without running it.
func (s *Scheduler) Cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[key]; ok {
		t.Stop()
	}
	delete(s.timers, key)
	delete(s.pending, key)
}

// Pending reports whether a save is queued for key.
func (s *Scheduler) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[key]
	return ok
}

// Stop flushes every pending save and refuses further scheduling. Used
// on shutdown so edits made just before exit are not lost.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	keys := make([]string, 0, len(s.pending))
	for key := range s.pending {
		keys = append(keys, key)
	}
	for _, t := range s.timers {
		t.Stop()
	}
	s.mu.Unlock()

	for _, key := range keys {
		s.fire(key)
	}
}
