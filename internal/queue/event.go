package queue

import "time"

// ReportCreatedEvent is published after a citizen submits a trash
// report. The consumer appends these to the report log for the
// collection team.
type ReportCreatedEvent struct {
	ReportID    uint64    `json:"report_id"`
	UserID      uint64    `json:"user_id"`
	Description string    `json:"description"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	CreatedAt   time.Time `json:"created_at"`
}
