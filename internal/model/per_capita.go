package model

import "time"

// PerCapitaRecord is a daily waste-weight entry logged by a citizen.
// The (UserID, RecordDate) pair is unique: one entry per user per day.
type PerCapitaRecord struct {
	ID         uint64    // per_capita_records.id
	UserID     uint64    // per_capita_records.idUsuario
	WeightKg   float64   // per_capita_records.weight_kg
	RecordDate string    // per_capita_records.record_date (YYYY-MM-DD)
	CreatedAt  time.Time // per_capita_records.created_at
}
