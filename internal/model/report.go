package model

import "time"

// Report lifecycle statuses stored in reports.status.
const (
	ReportPending  = 0
	ReportAccepted = 1
	ReportResolved = 2
	ReportRejected = 3
)

// Report is a geolocated citizen report of uncollected trash. The
// photo is stored on disk and referenced by ImageURL; Fecha/Hora are
// the submission date and time as separate columns, matching the
// reports table layout.
type Report struct {
	ID          uint64    // reports.id
	UserID      uint64    // reports.idUsuario
	Description string    // reports.description
	ImageURL    string    // reports.image_url
	Latitude    float64   // reports.latitude
	Longitude   float64   // reports.longitude
	Status      int       // reports.status (0..3)
	Fecha       string    // reports.fecha (YYYY-MM-DD)
	Hora        string    // reports.hora (HH:MM:SS)
	CreatedAt   time.Time // reports.created_at
	UpdatedAt   time.Time // reports.updated_at
}
