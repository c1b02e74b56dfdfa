package notify

import (
	"sync"
	"time"
)

// Timer is the stoppable handle a Clock hands back.
type Timer interface {
	Stop() bool
}

// Clock schedules deferred work. Production code uses SystemClock; tests
// inject a fake so notification expiry is deterministic.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemClock delegates to the time package.
type SystemClock struct{}

func (SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Notifier holds the two transient user-facing message slots: one success
// channel, one error channel. Each slot is a small state machine, idle or
// showing, driven by the clock. Showing a new message replaces the current
// one and cancels its pending clear, so a stale timer never wipes a newer
// message.
type Notifier struct {
	clock Clock

	mu      sync.Mutex
	success slot
	failure slot
}

type slot struct {
	message string
	gen     uint64
	timer   Timer
}

func NewNotifier(clock Clock) *Notifier {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Notifier{clock: clock}
}

// ShowSuccess sets the success message and schedules its clear after ttl.
func (n *Notifier) ShowSuccess(message string, ttl time.Duration) {
	n.show(&n.success, message, ttl)
}

// ShowError sets the error message and schedules its clear after ttl.
func (n *Notifier) ShowError(message string, ttl time.Duration) {
	n.show(&n.failure, message, ttl)
}

func (n *Notifier) show(s *slot, message string, ttl time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.message = message
	s.gen++
	gen := s.gen
	s.timer = n.clock.AfterFunc(ttl, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		// a timer that lost the Stop race must not clear a newer message
		if s.gen != gen {
			return
		}
		s.message = ""
		s.timer = nil
	})
}

// SuccessMessage returns the current success message, empty when idle.
func (n *Notifier) SuccessMessage() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.success.message
}

// ErrorMessage returns the current error message, empty when idle.
func (n *Notifier) ErrorMessage() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.failure.message
}

// Stop cancels any pending clears and blanks both slots.
func (n *Notifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, s := range []*slot{&n.success, &n.failure} {
		if s.timer != nil {
			s.timer.Stop()
			s.timer = nil
		}
		s.message = ""
		s.gen++
	}
}
