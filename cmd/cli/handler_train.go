package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alex22022005/AquaSentry/pkg/training"
)

// trainHandler starts a manual training session. Progress streams over the
// websocket; the HTTP response only acknowledges the start.
func (rm *RouteManager) trainHandler(w http.ResponseWriter, r *http.Request) {
	err := rm.orchestrator.Start(training.TriggerManual)

	w.Header().Set("Content-Type", "application/json")
	switch {
	case err == nil:
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{"status": "started"})
	case errors.Is(err, training.ErrAlreadyRunning):
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "Training already in progress."})
	case errors.Is(err, training.ErrNoData):
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "No data to train on."})
	default:
		http.Error(w, "Failed to start training", http.StatusInternalServerError)
	}
}
