package entities

import "time"

// SearchEvent records one executed search for the monitoring panel.
type SearchEvent struct {
	ID            string    `json:"id" db:"id"`
	Query         string    `json:"query" db:"query"`
	State         string    `json:"state,omitempty" db:"state"`
	City          string    `json:"city,omitempty" db:"city"`
	ResultCount   int       `json:"result_count" db:"result_count"`
	LatencyMs     int64     `json:"latency_ms" db:"latency_ms"`
	UserLatitude  float64   `json:"user_latitude,omitempty" db:"user_latitude"`
	UserLongitude float64   `json:"user_longitude,omitempty" db:"user_longitude"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
