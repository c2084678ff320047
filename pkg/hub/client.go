package hub

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/alex22022005/AquaSentry/pkg/models"
)

const (
	writeWait      = 10 * time.Second    // Time allowed to write a message to the peer.
	pongWait       = 60 * time.Second    // Time allowed to read the next pong message from the peer.
	pingPeriod     = (pongWait * 9) / 10 // Send pings to peer with this period. Must be less than pongWait.
	maxMessageSize = 64 * 1024           // Maximum inbound control message size.
	sendQueueSize  = 256
)

// controlMessage is the inbound message shape sent by dashboard observers.
type controlMessage struct {
	Action      string                         `json:"action"`
	Suggestions []models.MaintenanceSuggestion `json:"suggestions,omitempty"`
	RiskData    models.DiseaseRiskReport       `json:"diseaseData,omitempty"`
}

// Client is a middleman between one websocket connection and the hub.
type Client struct {
	ID   uuid.UUID
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewClient wraps an upgraded websocket connection.
func NewClient(h *Hub, conn *websocket.Conn) *Client {
	return &Client{
		ID:   uuid.New(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendQueueSize),
	}
}

// enqueue offers a message to the client without blocking. Returns false when
// the client's queue is full.
func (c *Client) enqueue(data []byte) bool {
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// ReadPump pumps control messages from the websocket connection to the
// configured handler. Runs in its own goroutine per connection.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Observer %s read error: %v", c.ID, err)
			}
			return
		}

		var msg controlMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Printf("Observer %s sent malformed control message: %v", c.ID, err)
			continue
		}
		c.dispatch(msg)
	}
}

func (c *Client) dispatch(msg controlMessage) {
	handler := c.hub.controlHandler()
	if handler == nil {
		return
	}

	switch msg.Action {
	case "start_training":
		handler.StartTraining()
	case "maintenance_alert":
		handler.SendMaintenanceAlert(msg.Suggestions)
	case "health_alert":
		handler.SendHealthAlert(msg.RiskData)
	default:
		log.Printf("Observer %s sent unknown action %q", c.ID, msg.Action)
	}
}

// WritePump pumps queued events to the websocket connection and keeps the
// connection alive with pings. Runs in its own goroutine per connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the queue.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("Observer %s write error: %v", c.ID, err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
