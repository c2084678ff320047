package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestEventTypeKnown(t *testing.T) {
	known := []EventType{
		EventData, EventTrainingStart, EventTrainingProgress,
		EventTrainingComplete, EventAccuracyUpdate, EventConnectionUpdate,
	}
	for _, et := range known {
		if !et.Known() {
			t.Errorf("%q should be a known event type", et)
		}
	}
	if EventType("alert").Known() {
		t.Error("unknown event type accepted")
	}
}

func TestDataEventShape(t *testing.T) {
	rec := EnrichedRecord{
		Timestamp: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		TDS:       550, PH: 7.1, Turbidity: 3.2,
		CholeraProb: 0.02,
	}
	raw, err := json.Marshal(NewDataEvent(rec))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.Type != "data" {
		t.Errorf("type = %q, want %q", decoded.Type, "data")
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(decoded.Payload, &payload); err != nil {
		t.Fatalf("payload decode failed: %v", err)
	}
	for _, field := range []string{"timestamp", "tds", "ph", "turbidity", "cholera_prob", "typhoid_prob", "hepatitis_a_prob", "dysentery_prob", "diarrheal_prob"} {
		if _, ok := payload[field]; !ok {
			t.Errorf("payload missing field %q", field)
		}
	}
}

func TestTrainingStartEventETA(t *testing.T) {
	evt := NewTrainingStartEvent(30 * time.Second)
	payload, ok := evt.Payload.(TrainingStartPayload)
	if !ok {
		t.Fatalf("payload type = %T, want TrainingStartPayload", evt.Payload)
	}
	if payload.EstimatedDuration != 30000 {
		t.Errorf("estimatedDuration = %d ms, want 30000", payload.EstimatedDuration)
	}
}

func TestConnectionEventOmitsEmptyPort(t *testing.T) {
	raw, err := json.Marshal(NewConnectionEvent(ConnectionState{Status: StatusScanning}))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var decoded struct {
		Payload map[string]interface{} `json:"payload"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.Payload["status"] != "scanning" {
		t.Errorf("status = %v, want scanning", decoded.Payload["status"])
	}
	if _, ok := decoded.Payload["port"]; ok {
		t.Error("empty port should be omitted")
	}
}
