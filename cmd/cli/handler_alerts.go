package main

import (
	"encoding/json"
	"net/http"

	"github.com/alex22022005/AquaSentry/pkg/alerts"
	"github.com/alex22022005/AquaSentry/pkg/models"
)

// maintenanceAlertHandler emails maintenance suggestions to the operations
// recipients. Subjects still inside their cooldown window are skipped, not
// errors.
func (rm *RouteManager) maintenanceAlertHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Suggestions []models.MaintenanceSuggestion `json:"suggestions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Suggestions) == 0 {
		http.Error(w, "No suggestions provided", http.StatusBadRequest)
		return
	}

	outcome := rm.notifier.SendMaintenanceAlert(req.Suggestions)
	writeOutcome(w, outcome)
}

// healthAlertHandler emails high-risk disease warnings to the health
// recipients.
func (rm *RouteManager) healthAlertHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RiskData models.DiseaseRiskReport `json:"riskData"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.RiskData) == 0 {
		http.Error(w, "No risk data provided", http.StatusBadRequest)
		return
	}

	outcome := rm.notifier.SendHealthAlert(req.RiskData)
	writeOutcome(w, outcome)
}

// getAlertStatusHandler reports per-subject cooldown state and the active
// ledger alerts.
func (rm *RouteManager) getAlertStatusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"cooldowns": rm.notifier.Cooldowns().Status(),
		"alerts":    rm.ledger.Active(),
	})
}

func writeOutcome(w http.ResponseWriter, outcome alerts.Outcome) {
	w.Header().Set("Content-Type", "application/json")
	if !outcome.OK() {
		w.WriteHeader(http.StatusBadRequest)
	}
	json.NewEncoder(w).Encode(outcome)
}
