package processor

import (
	"sync"
	"time"
)

// Scheduler coalesces wake-up requests. Any number of Trigger calls within
// the delay produce one signal on C. The worker loop runs passes one at a
// time, so a signal that arrives during a pass is picked up right after it.
type Scheduler struct {
	delay time.Duration
	ch    chan struct{}

	mu      sync.Mutex
	timer   *time.Timer
	armed   bool
	stopped bool
}

// NewScheduler creates a Scheduler that fires delay after the first Trigger.
func NewScheduler(delay time.Duration) *Scheduler {
	return &Scheduler{
		delay: delay,
		ch:    make(chan struct{}, 1),
	}
}

// Trigger arms the timer unless one is already pending.
func (s *Scheduler) Trigger() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.armed || s.stopped {
		return
	}
	s.armed = true
	s.timer = time.AfterFunc(s.delay, s.fire)
}

func (s *Scheduler) fire() {
	s.mu.Lock()
	s.armed = false
	s.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
	default:
		// A pass is already due.
	}
}

// C delivers one value per coalesced group of triggers.
func (s *Scheduler) C() <-chan struct{} {
	return s.ch
}

// Pending reports whether a timer is armed.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.armed
}

// Stop cancels a pending timer; later triggers are ignored.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.armed = false
}
