package models

// MaintenanceSuggestion describes a recommended maintenance action for one
// sensor parameter. Sent by observers with a maintenance_alert request.
type MaintenanceSuggestion struct {
	Parameter string   `json:"parameter"`
	Text      string   `json:"text"`
	Solution  string   `json:"solution"`
	Severity  Severity `json:"severity"`
}

// DiseaseRiskReport maps disease names to their current predictions. Sent by
// observers with a health_alert request.
type DiseaseRiskReport map[string]Prediction

// HistorySummary aggregates min/avg/max per channel over a query window.
// Field names match the payload the dashboard consumes.
type HistorySummary struct {
	AvgTDS       float64 `json:"avgTDS"`
	MinTDS       float64 `json:"minTDS"`
	MaxTDS       float64 `json:"maxTDS"`
	AvgPH        float64 `json:"avgPH"`
	MinPH        float64 `json:"minPH"`
	MaxPH        float64 `json:"maxPH"`
	AvgTurbidity float64 `json:"avgTurbidity"`
	MinTurbidity float64 `json:"minTurbidity"`
	MaxTurbidity float64 `json:"maxTurbidity"`
}

// EntryStats counts stored records for the overview widget.
type EntryStats struct {
	Total    int `json:"total"`
	Today    int `json:"today"`
	PastWeek int `json:"pastWeek"`
}
