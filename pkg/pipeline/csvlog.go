package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/alex22022005/AquaSentry/pkg/models"
)

var csvHeader = []string{
	"timestamp", "tds", "ph", "turbidity",
	"cholera_prob", "typhoid_prob", "hepatitis_a_prob", "dysentery_prob", "diarrheal_prob",
}

// DayLogger appends enriched records to a per-day CSV file
// (surveillance_log_YYYY-MM-DD.csv). The files double as the training corpus.
type DayLogger struct {
	mu  sync.Mutex
	dir string
}

// NewDayLogger creates the data directory if needed.
func NewDayLogger(dir string) (*DayLogger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &DayLogger{dir: dir}, nil
}

// Append writes one record to the current day's file, creating it with a
// header row when needed. The file rolls over when the record's UTC date
// changes.
func (l *DayLogger) Append(rec models.EnrichedRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	path := filepath.Join(l.dir, fileNameFor(rec.Timestamp))

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open day log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat day log: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(csvHeader); err != nil {
			return fmt.Errorf("failed to write day log header: %w", err)
		}
	}

	row := []string{
		rec.Timestamp.UTC().Format(time.RFC3339),
		formatFloat(rec.TDS), formatFloat(rec.PH), formatFloat(rec.Turbidity),
		formatFloat(rec.CholeraProb), formatFloat(rec.TyphoidProb),
		formatFloat(rec.HepatitisProb), formatFloat(rec.DysenteryProb),
		formatFloat(rec.DiarrhealProb),
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("failed to write day log row: %w", err)
	}

	w.Flush()
	return w.Error()
}

// TrainingFiles lists all accumulated day logs, oldest first.
func (l *DayLogger) TrainingFiles() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(l.dir, "surveillance_log_*.csv"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func fileNameFor(ts time.Time) string {
	return fmt.Sprintf("surveillance_log_%s.csv", ts.UTC().Format("2006-01-02"))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
