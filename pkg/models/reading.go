package models

import (
	"strconv"
	"strings"
	"time"
)

// Channel names reported by the sensor probe.
const (
	ChannelTDS       = "tds"
	ChannelPH        = "ph"
	ChannelTurbidity = "turbidity"
)

// Channels lists the tracked water-quality channels in display order.
var Channels = []string{ChannelTDS, ChannelPH, ChannelTurbidity}

// Diseases lists the risk categories produced by the inference model.
var Diseases = []string{"Cholera", "Typhoid", "Hepatitis A", "Dysentery", "Diarrheal"}

// Reading is a single timestamped sample of named numeric channels from the
// sensor endpoint. Immutable once created.
type Reading struct {
	Timestamp time.Time
	Channels  map[string]float64
}

// Channel returns the value for the named channel, 0 when absent.
func (r Reading) Channel(name string) float64 {
	return r.Channels[name]
}

// ParseReading parses a raw serial line of the form "TDS:550,pH:7.1,Turbidity:3.2"
// into a Reading. Parsing is deliberately lenient: fields that are malformed or
// non-numeric default to zero rather than failing the whole line. Channel names
// are normalized to lower case.
func ParseReading(raw string, ts time.Time) Reading {
	channels := make(map[string]float64)
	for _, part := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(part, ":")
		key = strings.ToLower(strings.TrimSpace(key))
		if !ok || key == "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			v = 0
		}
		channels[key] = v
	}
	return Reading{Timestamp: ts, Channels: channels}
}

// Prediction is the per-disease output of the inference model.
type Prediction struct {
	Probability float64 `json:"probability"`
	RiskLevel   string  `json:"risk_level,omitempty"`
}

// EnrichedRecord is a Reading merged with one risk probability per tracked
// disease. Handed to sinks by value; never mutated after creation.
type EnrichedRecord struct {
	Timestamp     time.Time `json:"timestamp"`
	TDS           float64   `json:"tds"`
	PH            float64   `json:"ph"`
	Turbidity     float64   `json:"turbidity"`
	CholeraProb   float64   `json:"cholera_prob"`
	TyphoidProb   float64   `json:"typhoid_prob"`
	HepatitisProb float64   `json:"hepatitis_a_prob"`
	DysenteryProb float64   `json:"dysentery_prob"`
	DiarrhealProb float64   `json:"diarrheal_prob"`
}

// NewEnrichedRecord merges a Reading with inference output. Diseases missing
// from the prediction map default to probability 0; unknown extra keys (such
// as model status messages) are ignored.
func NewEnrichedRecord(r Reading, predictions map[string]Prediction) EnrichedRecord {
	return EnrichedRecord{
		Timestamp:     r.Timestamp,
		TDS:           r.Channel(ChannelTDS),
		PH:            r.Channel(ChannelPH),
		Turbidity:     r.Channel(ChannelTurbidity),
		CholeraProb:   predictions["Cholera"].Probability,
		TyphoidProb:   predictions["Typhoid"].Probability,
		HepatitisProb: predictions["Hepatitis A"].Probability,
		DysenteryProb: predictions["Dysentery"].Probability,
		DiarrhealProb: predictions["Diarrheal"].Probability,
	}
}

// ChannelValue returns the stored value for a tracked channel name.
func (rec EnrichedRecord) ChannelValue(name string) float64 {
	switch name {
	case ChannelTDS:
		return rec.TDS
	case ChannelPH:
		return rec.PH
	case ChannelTurbidity:
		return rec.Turbidity
	}
	return 0
}

// Probabilities returns the disease probabilities keyed by disease name.
func (rec EnrichedRecord) Probabilities() map[string]float64 {
	return map[string]float64{
		"Cholera":     rec.CholeraProb,
		"Typhoid":     rec.TyphoidProb,
		"Hepatitis A": rec.HepatitisProb,
		"Dysentery":   rec.DysenteryProb,
		"Diarrheal":   rec.DiarrhealProb,
	}
}
