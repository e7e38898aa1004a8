package model

import "time"

// Location is the last known position of a collector. One row per
// collector; pushes overwrite the previous position.
type Location struct {
	ID        uint64    // locations.id
	UserID    uint64    // locations.idUsuario
	Latitude  float64   // locations.latitude
	Longitude float64   // locations.longitude
	UpdatedAt time.Time // locations.updated_at
}
