package database

import (
	"context"
	"log"
	"time"

	"github.com/alex22022005/AquaSentry/pkg/models"
)

// StoreRecord appends one enriched record. Records are immutable; there is no
// update path.
func (dm *DatabaseManager) StoreRecord(rec models.EnrichedRecord) error {
	query := `
        INSERT INTO water_readings
            (ts, tds, ph, turbidity, cholera_prob, typhoid_prob, hepatitis_a_prob, dysentery_prob, diarrheal_prob)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `

	_, err := dm.ExecWithHealthCheck(context.Background(), query,
		rec.Timestamp, rec.TDS, rec.PH, rec.Turbidity,
		rec.CholeraProb, rec.TyphoidProb, rec.HepatitisProb,
		rec.DysenteryProb, rec.DiarrhealProb)
	return err
}

// GetRecords retrieves records within a time range, oldest first.
func (dm *DatabaseManager) GetRecords(start, end time.Time) ([]models.EnrichedRecord, error) {
	query := `
        SELECT ts, tds, ph, turbidity, cholera_prob, typhoid_prob, hepatitis_a_prob, dysentery_prob, diarrheal_prob
        FROM water_readings
        WHERE ts >= $1 AND ts <= $2
        ORDER BY ts ASC
    `

	rows, err := dm.QueryWithHealthCheck(context.Background(), query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.EnrichedRecord
	for rows.Next() {
		var rec models.EnrichedRecord
		err := rows.Scan(&rec.Timestamp, &rec.TDS, &rec.PH, &rec.Turbidity,
			&rec.CholeraProb, &rec.TyphoidProb, &rec.HepatitisProb,
			&rec.DysenteryProb, &rec.DiarrhealProb)
		if err != nil {
			log.Printf("Failed to scan record: %v", err)
			continue
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// GetSummary aggregates min/avg/max per channel over a time range. An empty
// range yields a zero summary.
func (dm *DatabaseManager) GetSummary(start, end time.Time) (*models.HistorySummary, error) {
	query := `
        SELECT
            COALESCE(AVG(tds), 0), COALESCE(MIN(tds), 0), COALESCE(MAX(tds), 0),
            COALESCE(AVG(ph), 0), COALESCE(MIN(ph), 0), COALESCE(MAX(ph), 0),
            COALESCE(AVG(turbidity), 0), COALESCE(MIN(turbidity), 0), COALESCE(MAX(turbidity), 0)
        FROM water_readings
        WHERE ts >= $1 AND ts <= $2
    `

	var s models.HistorySummary
	err := dm.QueryRowWithHealthCheck(context.Background(), query, start, end).Scan(
		&s.AvgTDS, &s.MinTDS, &s.MaxTDS,
		&s.AvgPH, &s.MinPH, &s.MaxPH,
		&s.AvgTurbidity, &s.MinTurbidity, &s.MaxTurbidity)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetEntryStats counts stored records overall, since local midnight, and over
// the past seven days.
func (dm *DatabaseManager) GetEntryStats() (*models.EntryStats, error) {
	now := time.Now()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	sevenDaysAgo := now.Add(-7 * 24 * time.Hour)

	query := `
        SELECT
            COUNT(*),
            COUNT(*) FILTER (WHERE ts >= $1),
            COUNT(*) FILTER (WHERE ts >= $2)
        FROM water_readings
    `

	var stats models.EntryStats
	err := dm.QueryRowWithHealthCheck(context.Background(), query, startOfToday, sevenDaysAgo).Scan(
		&stats.Total, &stats.Today, &stats.PastWeek)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
