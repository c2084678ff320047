package models

import "time"

// EventType identifies one of the closed set of outbound observer events.
type EventType string

const (
	EventData             EventType = "data"
	EventTrainingStart    EventType = "training_start"
	EventTrainingProgress EventType = "training_progress"
	EventTrainingComplete EventType = "training_complete"
	EventAccuracyUpdate   EventType = "accuracy_update"
	EventConnectionUpdate EventType = "connection_update"
)

// Event is the envelope delivered to every connected observer. The payload
// shape is fixed per event type; events are built through the New*Event
// constructors so unknown types cannot reach the broadcast boundary.
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload"`
}

// Known reports whether t is a member of the closed event union.
func (t EventType) Known() bool {
	switch t {
	case EventData, EventTrainingStart, EventTrainingProgress,
		EventTrainingComplete, EventAccuracyUpdate, EventConnectionUpdate:
		return true
	}
	return false
}

// ConnectionStatus is the lifecycle state of the sensor link.
type ConnectionStatus string

const (
	StatusDisconnected ConnectionStatus = "disconnected"
	StatusScanning     ConnectionStatus = "scanning"
	StatusConnected    ConnectionStatus = "connected"
)

// ConnectionState is the process-wide sensor link state, mutated only by the
// link manager.
type ConnectionState struct {
	Status ConnectionStatus `json:"status"`
	Port   string           `json:"port,omitempty"`
}

// TrainingStartPayload carries the ETA for a freshly started training job,
// derived from the last observed run duration.
type TrainingStartPayload struct {
	EstimatedDuration int64 `json:"estimatedDuration"` // milliseconds
}

// TrainingProgressPayload mirrors the PROGRESS lines emitted by the training
// process.
type TrainingProgressPayload struct {
	Step     string  `json:"step"`
	Progress float64 `json:"progress"`
	Message  string  `json:"message,omitempty"`
}

// TrainingCompletePayload reports the terminal outcome of a training job.
type TrainingCompletePayload struct {
	Status  string `json:"status"` // "success" or "error"
	Message string `json:"message"`
}

// AccuracyPayload carries the latest model accuracy in [0,1].
type AccuracyPayload struct {
	Accuracy float64 `json:"accuracy"`
}

func NewDataEvent(rec EnrichedRecord) Event {
	return Event{Type: EventData, Payload: rec}
}

func NewTrainingStartEvent(eta time.Duration) Event {
	return Event{Type: EventTrainingStart, Payload: TrainingStartPayload{EstimatedDuration: eta.Milliseconds()}}
}

func NewTrainingProgressEvent(p TrainingProgressPayload) Event {
	return Event{Type: EventTrainingProgress, Payload: p}
}

func NewTrainingCompleteEvent(status, message string) Event {
	return Event{Type: EventTrainingComplete, Payload: TrainingCompletePayload{Status: status, Message: message}}
}

func NewAccuracyEvent(accuracy float64) Event {
	return Event{Type: EventAccuracyUpdate, Payload: AccuracyPayload{Accuracy: accuracy}}
}

func NewConnectionEvent(state ConnectionState) Event {
	return Event{Type: EventConnectionUpdate, Payload: state}
}
