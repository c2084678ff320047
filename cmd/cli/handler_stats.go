package main

import (
	"encoding/json"
	"log"
	"net/http"
)

// getEntryStatsHandler returns record counts for the overview widget.
func (rm *RouteManager) getEntryStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := rm.dbManager.GetEntryStats()
	if err != nil {
		log.Printf("❌ Failed to query entry stats: %v", err)
		http.Error(w, "Failed to query entry stats", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
