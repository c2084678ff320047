package training

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/alex22022005/AquaSentry/pkg/models"
)

type fakeRunner struct {
	mu      sync.Mutex
	runs    int
	lines   []string
	err     error
	release chan struct{}
}

func (r *fakeRunner) Run(ctx context.Context, files []string, onLine func(string)) error {
	r.mu.Lock()
	r.runs++
	r.mu.Unlock()
	if r.release != nil {
		<-r.release
	}
	for _, line := range r.lines {
		onLine(line)
	}
	return r.err
}

func (r *fakeRunner) runCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs
}

type fakeFiles struct {
	files []string
	err   error
}

func (f *fakeFiles) TrainingFiles() ([]string, error) { return f.files, f.err }

type eventSink struct {
	mu     sync.Mutex
	events []models.Event
}

func (s *eventSink) Publish(evt models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
	return nil
}

func (s *eventSink) snapshot() []models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Event, len(s.events))
	copy(out, s.events)
	return out
}

func (s *eventSink) waitForType(t *testing.T, typ models.EventType) models.Event {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		for _, evt := range s.snapshot() {
			if evt.Type == typ {
				return evt
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("no %s event published", typ)
	return models.Event{}
}

func waitForIdle(t *testing.T, o *Orchestrator) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if !o.Running() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("orchestrator never returned to idle")
}

func TestSuccessfulSessionLifecycle(t *testing.T) {
	runner := &fakeRunner{lines: []string{
		`PROGRESS:{"step":"loading","progress":0.1,"message":"Loading dataset"}`,
		`PROGRESS:{"step":"fitting","progress":0.8}`,
		`RESULT:{"accuracy":0.93}`,
	}}
	sink := &eventSink{}
	o := NewOrchestrator(runner, &fakeFiles{files: []string{"surveillance_log_2026-03-14.csv"}}, sink)

	if err := o.Start(TriggerManual); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitForIdle(t, o)

	start := sink.waitForType(t, models.EventTrainingStart)
	if p := start.Payload.(models.TrainingStartPayload); p.EstimatedDuration != 30000 {
		t.Errorf("first session estimate = %dms, want 30000", p.EstimatedDuration)
	}

	var progress int
	for _, evt := range sink.snapshot() {
		if evt.Type == models.EventTrainingProgress {
			progress++
		}
	}
	if progress != 2 {
		t.Errorf("progress events = %d, want 2", progress)
	}

	accuracy := sink.waitForType(t, models.EventAccuracyUpdate)
	if p := accuracy.Payload.(models.AccuracyPayload); p.Accuracy != 0.93 {
		t.Errorf("accuracy = %v, want 0.93", p.Accuracy)
	}

	complete := sink.waitForType(t, models.EventTrainingComplete)
	if p := complete.Payload.(models.TrainingCompletePayload); p.Status != "success" {
		t.Errorf("completion status = %q, want success", p.Status)
	}
}

func TestConcurrentManualStartsRunOnce(t *testing.T) {
	runner := &fakeRunner{release: make(chan struct{})}
	sink := &eventSink{}
	o := NewOrchestrator(runner, &fakeFiles{files: []string{"a.csv"}}, sink)

	if err := o.Start(TriggerManual); err != nil {
		t.Fatalf("first Start failed: %v", err)
	}
	if err := o.Start(TriggerManual); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("second Start error = %v, want ErrAlreadyRunning", err)
	}

	// The rejected manual request reports back to observers.
	complete := sink.waitForType(t, models.EventTrainingComplete)
	if p := complete.Payload.(models.TrainingCompletePayload); p.Message != "Training already in progress." {
		t.Errorf("rejection message = %q", p.Message)
	}

	close(runner.release)
	waitForIdle(t, o)

	if got := runner.runCount(); got != 1 {
		t.Errorf("runner invocations = %d, want 1", got)
	}
}

func TestAutomaticStartWithoutDataIsSilent(t *testing.T) {
	sink := &eventSink{}
	o := NewOrchestrator(&fakeRunner{}, &fakeFiles{}, sink)

	if err := o.Start(TriggerAutomatic); !errors.Is(err, ErrNoData) {
		t.Fatalf("Start error = %v, want ErrNoData", err)
	}
	if events := sink.snapshot(); len(events) != 0 {
		t.Errorf("automatic no-data trigger published %v, want nothing", events)
	}
}

func TestManualStartWithoutDataReportsError(t *testing.T) {
	sink := &eventSink{}
	o := NewOrchestrator(&fakeRunner{}, &fakeFiles{}, sink)

	if err := o.Start(TriggerManual); !errors.Is(err, ErrNoData) {
		t.Fatalf("Start error = %v, want ErrNoData", err)
	}

	events := sink.snapshot()
	if len(events) != 1 || events[0].Type != models.EventTrainingComplete {
		t.Fatalf("events = %v, want a single completion error", events)
	}
	if p := events[0].Payload.(models.TrainingCompletePayload); p.Status != "error" || p.Message != "No data to train on." {
		t.Errorf("payload = %+v", p)
	}
}

func TestFailureMessageIsTruncated(t *testing.T) {
	runner := &fakeRunner{err: errors.New(strings.Repeat("x", 500))}
	sink := &eventSink{}
	o := NewOrchestrator(runner, &fakeFiles{files: []string{"a.csv"}}, sink)

	if err := o.Start(TriggerManual); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitForIdle(t, o)

	complete := sink.waitForType(t, models.EventTrainingComplete)
	p := complete.Payload.(models.TrainingCompletePayload)
	if p.Status != "error" {
		t.Errorf("status = %q, want error", p.Status)
	}
	if len(p.Message) != errorExcerptSize {
		t.Errorf("message length = %d, want %d", len(p.Message), errorExcerptSize)
	}
}

func TestFailureMessageTruncatesOnRuneBoundary(t *testing.T) {
	runner := &fakeRunner{err: errors.New(strings.Repeat("schließen fehlgeschlagen ", 20))}
	sink := &eventSink{}
	o := NewOrchestrator(runner, &fakeFiles{files: []string{"a.csv"}}, sink)

	if err := o.Start(TriggerManual); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitForIdle(t, o)

	complete := sink.waitForType(t, models.EventTrainingComplete)
	p := complete.Payload.(models.TrainingCompletePayload)
	if !utf8.ValidString(p.Message) {
		t.Errorf("truncated message is not valid UTF-8: %q", p.Message)
	}
	if got := utf8.RuneCountInString(p.Message); got != errorExcerptSize {
		t.Errorf("message runes = %d, want %d", got, errorExcerptSize)
	}
}

func TestNextEstimateTracksLastDuration(t *testing.T) {
	runner := &fakeRunner{}
	sink := &eventSink{}
	o := NewOrchestrator(runner, &fakeFiles{files: []string{"a.csv"}}, sink)

	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	times := []time.Time{base, base.Add(12 * time.Second)}
	o.now = func() time.Time {
		ts := times[0]
		if len(times) > 1 {
			times = times[1:]
		}
		return ts
	}

	if err := o.Start(TriggerManual); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitForIdle(t, o)

	o.mu.Lock()
	last := o.lastDuration
	o.mu.Unlock()
	if last != 12*time.Second {
		t.Errorf("recorded duration = %s, want 12s", last)
	}
}
