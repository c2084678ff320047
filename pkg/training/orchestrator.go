package training

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/alex22022005/AquaSentry/pkg/models"
)

// Trigger identifies what initiated a training session.
type Trigger string

const (
	TriggerManual    Trigger = "manual"
	TriggerAutomatic Trigger = "automatic"
	TriggerInitial   Trigger = "initial"
)

var (
	// ErrAlreadyRunning is returned when a session is requested while one
	// is in flight.
	ErrAlreadyRunning = errors.New("training already in progress")
	// ErrNoData is returned when no day logs have accumulated yet.
	ErrNoData = errors.New("no data to train on")
)

const (
	defaultEstimate  = 30 * time.Second
	errorExcerptSize = 100
)

// FileLister provides the accumulated training corpus.
type FileLister interface {
	TrainingFiles() ([]string, error)
}

// Publisher delivers training lifecycle events to observers.
type Publisher interface {
	Publish(evt models.Event) error
}

// Orchestrator serializes model training sessions. At most one session runs
// at a time; the duration of the last completed session becomes the estimate
// announced for the next one.
type Orchestrator struct {
	runner Runner
	files  FileLister
	hub    Publisher

	mu           sync.Mutex
	running      bool
	lastDuration time.Duration

	now func() time.Time
}

// NewOrchestrator creates an orchestrator with the default first-session
// estimate.
func NewOrchestrator(runner Runner, files FileLister, hub Publisher) *Orchestrator {
	return &Orchestrator{
		runner:       runner,
		files:        files,
		hub:          hub,
		lastDuration: defaultEstimate,
		now:          time.Now,
	}
}

// Start begins a training session in the background. A manual request that
// cannot start reports the rejection to observers; automatic triggers fail
// silently since the next interval will retry.
func (o *Orchestrator) Start(trigger Trigger) error {
	o.mu.Lock()
	if o.running {
		o.mu.Unlock()
		if trigger == TriggerManual {
			o.publishComplete("error", "Training already in progress.")
		}
		return ErrAlreadyRunning
	}

	// Resolve the corpus before announcing anything so a doomed session
	// never emits a start event.
	files, err := o.files.TrainingFiles()
	if err == nil && len(files) == 0 {
		err = ErrNoData
	}
	if err != nil {
		o.mu.Unlock()
		log.Printf("Training (%s) not started: %v", trigger, err)
		if trigger == TriggerManual {
			o.publishComplete("error", "No data to train on.")
		}
		return err
	}

	o.running = true
	estimate := o.lastDuration
	o.mu.Unlock()

	log.Printf("Starting model training (%s) on %d file(s), estimated %s", trigger, len(files), estimate)
	if err := o.hub.Publish(models.NewTrainingStartEvent(estimate)); err != nil {
		log.Printf("❌ Failed to announce training start: %v", err)
	}

	go o.run(files)
	return nil
}

// Running reports whether a session is in flight.
func (o *Orchestrator) Running() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.running
}

// StartTraining satisfies the observer control surface.
func (o *Orchestrator) StartTraining() {
	o.Start(TriggerManual)
}

func (o *Orchestrator) run(files []string) {
	started := o.now()
	err := o.runner.Run(context.Background(), files, o.handleLine)
	elapsed := o.now().Sub(started)

	o.mu.Lock()
	o.running = false
	o.lastDuration = elapsed
	o.mu.Unlock()

	if err != nil {
		log.Printf("❌ Training failed after %s: %v", elapsed, err)
		o.publishComplete("error", excerpt(err.Error()))
		return
	}
	log.Printf("✓ Training completed in %s", elapsed)
	o.publishComplete("success", "Model training completed successfully.")
}

// handleLine interprets the training process stdout protocol. Progress lines
// carry a PROGRESS: prefix, the final accuracy a RESULT: prefix; everything
// else is passed through to the log.
func (o *Orchestrator) handleLine(line string) {
	if rest, ok := strings.CutPrefix(line, "PROGRESS:"); ok {
		var p models.TrainingProgressPayload
		if err := json.Unmarshal([]byte(rest), &p); err != nil {
			log.Printf("Malformed training progress line: %v", err)
			return
		}
		if err := o.hub.Publish(models.NewTrainingProgressEvent(p)); err != nil {
			log.Printf("❌ Failed to publish training progress: %v", err)
		}
		return
	}

	if rest, ok := strings.CutPrefix(line, "RESULT:"); ok {
		var r struct {
			Accuracy float64 `json:"accuracy"`
		}
		if err := json.Unmarshal([]byte(rest), &r); err != nil {
			log.Printf("Malformed training result line: %v", err)
			return
		}
		if err := o.hub.Publish(models.NewAccuracyEvent(r.Accuracy)); err != nil {
			log.Printf("❌ Failed to publish model accuracy: %v", err)
		}
		return
	}

	if line != "" {
		log.Printf("trainer: %s", line)
	}
}

// Schedule runs periodic training until the context is canceled. The first
// session starts after initialDelay so boot-time ingestion can settle.
func (o *Orchestrator) Schedule(ctx context.Context, interval, initialDelay time.Duration) {
	initial := time.NewTimer(initialDelay)
	defer initial.Stop()

	select {
	case <-initial.C:
		o.Start(TriggerInitial)
	case <-ctx.Done():
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			o.Start(TriggerAutomatic)
		case <-ctx.Done():
			return
		}
	}
}

func (o *Orchestrator) publishComplete(status, message string) {
	if err := o.hub.Publish(models.NewTrainingCompleteEvent(status, message)); err != nil {
		log.Printf("❌ Failed to publish training completion: %v", err)
	}
}

// excerpt truncates a diagnostic to the broadcast size limit, on a rune
// boundary so multi-byte characters are never split.
func excerpt(s string) string {
	runes := []rune(s)
	if len(runes) > errorExcerptSize {
		return string(runes[:errorExcerptSize])
	}
	return s
}
