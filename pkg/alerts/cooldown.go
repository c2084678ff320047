package alerts

import (
	"sync"
	"time"
)

// CooldownStatus describes the send window for one subject.
type CooldownStatus struct {
	CanSend          bool    `json:"canSend"`
	RemainingSeconds float64 `json:"remainingSeconds"`
}

// CooldownTracker rate limits notifications per subject. A subject may send
// again once a full window has elapsed since its last send.
type CooldownTracker struct {
	mu       sync.Mutex
	window   time.Duration
	lastSent map[string]time.Time
	now      func() time.Time
}

// NewCooldownTracker creates a tracker with the given window.
func NewCooldownTracker(window time.Duration) *CooldownTracker {
	return &CooldownTracker{
		window:   window,
		lastSent: make(map[string]time.Time),
		now:      time.Now,
	}
}

// Allow reports whether subject may send now, and if so consumes the window.
func (t *CooldownTracker) Allow(subject string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if last, ok := t.lastSent[subject]; ok && now.Sub(last) < t.window {
		return false
	}
	t.lastSent[subject] = now
	return true
}

// Remaining reports how long until subject may send again. Zero means it can
// send now.
func (t *CooldownTracker) Remaining(subject string) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remainingLocked(subject)
}

// Status returns the cooldown state of every subject seen so far.
func (t *CooldownTracker) Status() map[string]CooldownStatus {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[string]CooldownStatus, len(t.lastSent))
	for subject := range t.lastSent {
		remaining := t.remainingLocked(subject)
		out[subject] = CooldownStatus{
			CanSend:          remaining == 0,
			RemainingSeconds: remaining.Seconds(),
		}
	}
	return out
}

func (t *CooldownTracker) remainingLocked(subject string) time.Duration {
	last, ok := t.lastSent[subject]
	if !ok {
		return 0
	}
	elapsed := t.now().Sub(last)
	if elapsed >= t.window {
		return 0
	}
	return t.window - elapsed
}
