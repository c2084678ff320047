package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alex22022005/AquaSentry/pkg/alerts"
	"github.com/alex22022005/AquaSentry/pkg/database"
	"github.com/alex22022005/AquaSentry/pkg/hub"
	"github.com/alex22022005/AquaSentry/pkg/training"
)

// RouteManager handles all API routes
type RouteManager struct {
	dbManager    *database.DatabaseManager
	hub          *hub.Hub
	ledger       *alerts.Ledger
	notifier     *alerts.Notifier
	orchestrator *training.Orchestrator
	Router       *mux.Router
}

// NewRouteManager creates a new RouteManager instance
func NewRouteManager(dbManager *database.DatabaseManager, h *hub.Hub, ledger *alerts.Ledger, notifier *alerts.Notifier, orchestrator *training.Orchestrator) *RouteManager {
	return &RouteManager{
		dbManager:    dbManager,
		hub:          h,
		ledger:       ledger,
		notifier:     notifier,
		orchestrator: orchestrator,
		Router:       mux.NewRouter(),
	}
}

// Setup configures all API routes
func (rm *RouteManager) Setup() {
	r := rm.Router
	r.Use(rm.corsMiddleware)

	// Global OPTIONS handler - catches all preflight requests
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Health check and metrics
	r.HandleFunc("/health", rm.healthHandler).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Observer websocket
	r.HandleFunc("/ws", rm.websocketHandler).Methods("GET")

	// API routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/history", rm.getHistoryHandler).Methods("GET")
	api.HandleFunc("/entry-stats", rm.getEntryStatsHandler).Methods("GET")
	api.HandleFunc("/maintenance-alert", rm.maintenanceAlertHandler).Methods("POST")
	api.HandleFunc("/health-alert", rm.healthAlertHandler).Methods("POST")
	api.HandleFunc("/alert-status", rm.getAlertStatusHandler).Methods("GET")
	api.HandleFunc("/train", rm.trainHandler).Methods("POST")
}
