package main

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/alex22022005/AquaSentry/pkg/hub"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin policy matches the wildcard CORS of the REST API.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// websocketHandler upgrades an observer connection and attaches it to the
// broadcast hub. The hub replays the latest accuracy and connection state to
// the new observer.
func (rm *RouteManager) websocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ Websocket upgrade failed: %v", err)
		return
	}

	client := hub.NewClient(rm.hub, conn)
	rm.hub.Register(client)
	log.Printf("✓ Observer %s connected (%d active)", client.ID, rm.hub.ClientCount())

	go client.WritePump()
	go client.ReadPump()
}
