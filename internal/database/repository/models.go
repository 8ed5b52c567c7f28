package repository

import "time"

// FocusArea represents a focus_areas row. Identity and creation time are
// assigned once at save time; only the title may change afterwards.
type FocusArea struct {
	ID        string
	Title     string
	Latitude  float64
	Longitude float64
	Address   string
	CreatedAt time.Time
}
