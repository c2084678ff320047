package alerts

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/alex22022005/AquaSentry/pkg/models"
)

const (
	defaultHysteresis = 5 * time.Second
	sweepPeriod       = time.Second

	// Disease alerts raise above one threshold and resolve below a lower
	// one so probabilities hovering around a single cutoff cannot flap.
	diseaseRaiseThreshold   = 0.50
	diseaseResolveThreshold = 0.40
)

// AlertRecord is one active condition tracked by the ledger.
type AlertRecord struct {
	Key       string          `json:"key"`
	Severity  models.Severity `json:"severity"`
	Message   string          `json:"message"`
	Critical  bool            `json:"critical"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`

	// expiresAt removes a stale non-critical record that no reading has
	// refreshed. dismissAt defers removal after the condition clears so a
	// brief dip below a threshold does not drop the alert.
	expiresAt *time.Time
	dismissAt *time.Time
}

// Ledger tracks at most one alert per key. Readings raise and resolve keyed
// alerts; a background sweep applies the deferred removals.
type Ledger struct {
	mu      sync.Mutex
	records map[string]*AlertRecord

	hysteresis time.Duration
	expiry     time.Duration
	now        func() time.Time

	stop chan struct{}
	done chan struct{}
}

// NewLedger creates an empty ledger. A zero hysteresis selects the default;
// a zero expiry makes non-critical records live exactly one hysteresis window
// past their last refresh, so an alert nothing re-raises dies as soon as the
// flap protection allows.
func NewLedger(hysteresis, expiry time.Duration) *Ledger {
	if hysteresis <= 0 {
		hysteresis = defaultHysteresis
	}
	if expiry <= 0 {
		expiry = hysteresis
	}
	return &Ledger{
		records:    make(map[string]*AlertRecord),
		hysteresis: hysteresis,
		expiry:     expiry,
		now:        time.Now,
	}
}

// Start launches the sweep loop. Stop must be called to release it.
func (l *Ledger) Start() {
	l.stop = make(chan struct{})
	l.done = make(chan struct{})
	go func() {
		defer close(l.done)
		ticker := time.NewTicker(sweepPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				l.sweep()
			case <-l.stop:
				return
			}
		}
	}()
}

// Stop halts the sweep loop.
func (l *Ledger) Stop() {
	if l.stop == nil {
		return
	}
	close(l.stop)
	<-l.done
	l.stop = nil
}

// Raise creates or refreshes the alert for key. Refreshing cancels any
// pending dismissal and re-arms the staleness deadline for non-critical
// alerts. Critical alerts never expire on their own.
func (l *Ledger) Raise(key string, severity models.Severity, message string, critical bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	rec, ok := l.records[key]
	if !ok {
		rec = &AlertRecord{Key: key, CreatedAt: now}
		l.records[key] = rec
	}
	rec.Critical = critical
	rec.Severity = severity
	rec.Message = message
	rec.UpdatedAt = now
	rec.dismissAt = nil
	if rec.Critical {
		rec.expiresAt = nil
	} else {
		deadline := now.Add(l.expiry)
		rec.expiresAt = &deadline
	}
}

// Resolve marks the condition for key as cleared. The record survives until
// the hysteresis window after its last refresh has passed, so a single safe
// reading between two bad ones does not drop the alert.
func (l *Ledger) Resolve(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[key]
	if !ok {
		return
	}
	deadline := rec.UpdatedAt.Add(l.hysteresis)
	if !deadline.After(l.now()) {
		delete(l.records, key)
		return
	}
	rec.dismissAt = &deadline
}

// Dismiss removes the alert for key immediately, bypassing hysteresis. Used
// for critical conditions with an unambiguous end, such as a link recovering.
func (l *Ledger) Dismiss(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.records, key)
}

// Evaluate applies one enriched record to the ledger: sensor channels outside
// their safe range raise alerts, safe channels resolve them, and disease
// probabilities raise or resolve within their hysteresis band.
func (l *Ledger) Evaluate(rec models.EnrichedRecord) {
	for _, name := range models.Channels {
		value := rec.ChannelValue(name)
		severity := models.ClassifyChannel(name, value)
		key := "sensor:" + name
		if severity.Actionable() {
			l.Raise(key, severity, fmt.Sprintf("%s reading %.2f is in the %s range", name, value, severity), false)
		} else {
			l.Resolve(key)
		}
	}

	for name, prob := range rec.Probabilities() {
		key := "disease:" + name
		switch {
		case prob >= diseaseRaiseThreshold:
			l.Raise(key, models.SeverityDanger, fmt.Sprintf("%s risk at %.0f%%", name, prob*100), false)
		case prob < diseaseResolveThreshold:
			l.Resolve(key)
		}
	}
}

// Active returns the live alerts, critical first, oldest first within each
// group.
func (l *Ledger) Active() []AlertRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]AlertRecord, 0, len(l.records))
	for _, rec := range l.records {
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Critical != out[j].Critical {
			return out[i].Critical
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (l *Ledger) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, rec := range l.records {
		if rec.dismissAt != nil && !rec.dismissAt.After(now) {
			delete(l.records, key)
			continue
		}
		if !rec.Critical && rec.expiresAt != nil && !rec.expiresAt.After(now) {
			delete(l.records, key)
		}
	}
}
