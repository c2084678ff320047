package main

import (
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// getHistoryHandler returns stored records plus a min/avg/max summary.
// Query params:
//   - startDate: window start (RFC3339 or YYYY-MM-DD, default: 24h ago)
//   - endDate: window end (RFC3339 or YYYY-MM-DD, default: now)
func (rm *RouteManager) getHistoryHandler(w http.ResponseWriter, r *http.Request) {
	end := time.Now()
	start := end.Add(-24 * time.Hour)

	if s := r.URL.Query().Get("startDate"); s != "" {
		parsed, err := parseTimeParam(s)
		if err != nil {
			http.Error(w, "Invalid startDate", http.StatusBadRequest)
			return
		}
		start = parsed
	}
	if s := r.URL.Query().Get("endDate"); s != "" {
		parsed, err := parseTimeParam(s)
		if err != nil {
			http.Error(w, "Invalid endDate", http.StatusBadRequest)
			return
		}
		end = parsed
	}
	if end.Before(start) {
		http.Error(w, "endDate must not precede startDate", http.StatusBadRequest)
		return
	}

	records, err := rm.dbManager.GetRecords(start, end)
	if err != nil {
		log.Printf("❌ Failed to query history: %v", err)
		http.Error(w, "Failed to query history", http.StatusInternalServerError)
		return
	}

	summary, err := rm.dbManager.GetSummary(start, end)
	if err != nil {
		log.Printf("❌ Failed to summarize history: %v", err)
		http.Error(w, "Failed to query history", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"records": records,
		"summary": summary,
	})
}

// parseTimeParam accepts RFC3339 timestamps and plain dates.
func parseTimeParam(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
