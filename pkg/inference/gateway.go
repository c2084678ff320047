package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"github.com/alex22022005/AquaSentry/pkg/models"
)

// Scorer produces per-disease risk probabilities for a reading.
type Scorer interface {
	Score(ctx context.Context, r models.Reading) (map[string]models.Prediction, error)
}

// ProcessGateway runs the prediction model as a short-lived subprocess. The
// reading is serialized to JSON and passed as an argument; the process prints
// a single JSON object mapping disease names to predictions. A non-zero exit
// or unparsable output is a failure and the reading is dropped upstream.
type ProcessGateway struct {
	python string
	script string
}

// NewProcessGateway creates a gateway around the given interpreter and script.
func NewProcessGateway(python, script string) *ProcessGateway {
	return &ProcessGateway{python: python, script: script}
}

// scoreRequest is the wire shape handed to the prediction script.
type scoreRequest struct {
	Timestamp time.Time `json:"timestamp"`
	TDS       float64   `json:"tds"`
	PH        float64   `json:"ph"`
	Turbidity float64   `json:"turbidity"`
}

// Score invokes the prediction process for one reading.
func (g *ProcessGateway) Score(ctx context.Context, r models.Reading) (map[string]models.Prediction, error) {
	payload, err := json.Marshal(scoreRequest{
		Timestamp: r.Timestamp,
		TDS:       r.Channel(models.ChannelTDS),
		PH:        r.Channel(models.ChannelPH),
		Turbidity: r.Channel(models.ChannelTurbidity),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize reading: %w", err)
	}

	cmd := exec.CommandContext(ctx, g.python, g.script, string(payload))
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("prediction process failed: %w", err)
	}

	return ParseOutput(out)
}

// ParseOutput decodes the prediction process output. Empty output is a
// failure; extra non-disease keys (model status messages) are passed through
// and filtered by the record builder.
func ParseOutput(out []byte) (map[string]models.Prediction, error) {
	var predictions map[string]models.Prediction
	if err := json.Unmarshal(out, &predictions); err != nil {
		return nil, fmt.Errorf("malformed prediction output: %w", err)
	}
	if len(predictions) == 0 {
		return nil, fmt.Errorf("prediction output contained no categories")
	}
	return predictions, nil
}
