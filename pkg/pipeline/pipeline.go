package pipeline

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/alex22022005/AquaSentry/pkg/inference"
	"github.com/alex22022005/AquaSentry/pkg/models"
)

var (
	readingsReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aquasentry_pipeline_readings_received_total",
		Help: "Raw sensor lines accepted by the pipeline",
	})
	readingsShed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aquasentry_pipeline_readings_shed_total",
		Help: "Readings dropped because all scoring slots were busy",
	})
	scoringFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aquasentry_pipeline_scoring_failures_total",
		Help: "Readings dropped because the prediction process failed",
	})
	recordsEnriched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aquasentry_pipeline_records_enriched_total",
		Help: "Readings successfully enriched with disease predictions",
	})
	sinkFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aquasentry_pipeline_sink_failures_total",
		Help: "Fan-out sink failures by destination",
	}, []string{"sink"})
)

// Store persists enriched records.
type Store interface {
	StoreRecord(rec models.EnrichedRecord) error
}

// Publisher delivers events to connected observers.
type Publisher interface {
	Publish(evt models.Event) error
}

// Evaluator updates the alert ledger from an enriched record.
type Evaluator interface {
	Evaluate(rec models.EnrichedRecord)
}

// LiveFeed mirrors enriched records to an external channel for other
// consumers. Optional.
type LiveFeed interface {
	PublishLive(ctx context.Context, payload []byte) error
}

// Config wires the pipeline's collaborators. Scorer, Store, DayLog, Hub and
// Ledger are required; Live is optional.
type Config struct {
	Scorer inference.Scorer
	Store  Store
	DayLog *DayLogger
	Hub    Publisher
	Ledger Evaluator
	Live   LiveFeed

	// MaxInflight bounds concurrent prediction processes.
	MaxInflight int
	// Timeout bounds a single prediction process.
	Timeout time.Duration
}

// Pipeline turns raw sensor lines into enriched records and fans them out to
// every sink. Scoring runs asynchronously so a slow prediction process never
// stalls the serial read loop; when all scoring slots are busy the reading is
// shed.
type Pipeline struct {
	scorer  inference.Scorer
	store   Store
	daylog  *DayLogger
	hub     Publisher
	ledger  Evaluator
	live    LiveFeed
	timeout time.Duration

	sem chan struct{}
	wg  sync.WaitGroup
	now func() time.Time
}

// New creates a pipeline from the given wiring.
func New(cfg Config) *Pipeline {
	if cfg.MaxInflight <= 0 {
		cfg.MaxInflight = 4
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Pipeline{
		scorer:  cfg.Scorer,
		store:   cfg.Store,
		daylog:  cfg.DayLog,
		hub:     cfg.Hub,
		ledger:  cfg.Ledger,
		live:    cfg.Live,
		timeout: cfg.Timeout,
		sem:     make(chan struct{}, cfg.MaxInflight),
		now:     time.Now,
	}
}

// HandleRaw accepts one raw sensor line. It never blocks the caller.
func (p *Pipeline) HandleRaw(raw string) {
	readingsReceived.Inc()
	reading := models.ParseReading(raw, p.now())

	select {
	case p.sem <- struct{}{}:
	default:
		readingsShed.Inc()
		log.Printf("Shedding reading, %d predictions already in flight", cap(p.sem))
		return
	}

	p.wg.Add(1)
	go func() {
		defer func() {
			<-p.sem
			p.wg.Done()
		}()
		p.process(reading)
	}()
}

func (p *Pipeline) process(reading models.Reading) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	predictions, err := p.scorer.Score(ctx, reading)
	if err != nil {
		scoringFailures.Inc()
		log.Printf("❌ Prediction failed, dropping reading: %v", err)
		return
	}

	rec := models.NewEnrichedRecord(reading, predictions)
	recordsEnriched.Inc()

	// Each sink fails independently; one failure never suppresses the rest.
	if err := p.store.StoreRecord(rec); err != nil {
		sinkFailures.WithLabelValues("database").Inc()
		log.Printf("❌ Failed to store record: %v", err)
	}
	if err := p.daylog.Append(rec); err != nil {
		sinkFailures.WithLabelValues("daylog").Inc()
		log.Printf("❌ Failed to append day log: %v", err)
	}
	if err := p.hub.Publish(models.NewDataEvent(rec)); err != nil {
		sinkFailures.WithLabelValues("hub").Inc()
		log.Printf("❌ Failed to broadcast record: %v", err)
	}
	p.ledger.Evaluate(rec)

	if p.live != nil {
		payload, err := json.Marshal(rec)
		if err == nil {
			err = p.live.PublishLive(ctx, payload)
		}
		if err != nil {
			sinkFailures.WithLabelValues("live").Inc()
			log.Printf("❌ Failed to publish live record: %v", err)
		}
	}
}

// Wait blocks until all in-flight scoring work has drained.
func (p *Pipeline) Wait() {
	p.wg.Wait()
}
