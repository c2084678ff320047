package hub

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/alex22022005/AquaSentry/pkg/models"
)

// ControlHandler receives control messages sent by observers over the
// websocket (dashboard buttons). Wired after construction to break the
// hub↔orchestrator cycle.
type ControlHandler interface {
	StartTraining()
	SendMaintenanceAlert(suggestions []models.MaintenanceSuggestion)
	SendHealthAlert(report models.DiseaseRiskReport)
}

// Hub maintains the set of active observer connections and broadcasts events
// to them. It also keeps the latest accuracy and connection-state snapshots so
// late joiners are consistent without waiting for the next event.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
	control ControlHandler

	accuracy  float64
	connState models.ConnectionState
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*Client]bool),
		connState: models.ConnectionState{Status: models.StatusDisconnected},
	}
}

// SetControlHandler wires the receiver for inbound observer control messages.
func (h *Hub) SetControlHandler(handler ControlHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.control = handler
}

// Register adds a client and immediately replays the latest accuracy and
// connection-state snapshots to it.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	accuracy := h.accuracy
	connState := h.connState
	h.mu.Unlock()

	log.Printf("Observer connected (%s). Sending current model accuracy and connection status.", c.ID)
	c.enqueue(mustMarshal(models.NewAccuracyEvent(accuracy)))
	c.enqueue(mustMarshal(models.NewConnectionEvent(connState)))
}

// Unregister removes a client and closes its outbound queue.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		log.Printf("Observer disconnected (%s)", c.ID)
	}
}

// Publish delivers an event to every connected observer. Observers whose
// outbound queue is full are skipped; a publish never blocks on a slow
// observer. Events outside the closed union are rejected.
func (h *Hub) Publish(evt models.Event) error {
	if !evt.Type.Known() {
		return fmt.Errorf("refusing to publish unknown event type %q", evt.Type)
	}
	if evt.Payload == nil {
		return fmt.Errorf("refusing to publish %s event without payload", evt.Type)
	}

	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", evt.Type, err)
	}

	h.mu.Lock()
	// Keep snapshots current for late joiners.
	switch payload := evt.Payload.(type) {
	case models.AccuracyPayload:
		h.accuracy = payload.Accuracy
	case models.ConnectionState:
		h.connState = payload
	}

	for c := range h.clients {
		if !c.enqueue(data) {
			log.Printf("Observer %s not keeping up, skipping %s event", c.ID, evt.Type)
		}
	}
	h.mu.Unlock()

	return nil
}

// Accuracy returns the latest known model accuracy.
func (h *Hub) Accuracy() float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.accuracy
}

// ConnectionState returns the latest known sensor link state.
func (h *Hub) ConnectionState() models.ConnectionState {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.connState
}

// ClientCount returns the number of connected observers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) controlHandler() ControlHandler {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.control
}

func mustMarshal(evt models.Event) []byte {
	data, err := json.Marshal(evt)
	if err != nil {
		// Snapshot payloads are plain structs; this cannot fail at runtime.
		log.Printf("Failed to marshal %s event: %v", evt.Type, err)
		return []byte("{}")
	}
	return data
}
