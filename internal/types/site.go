package types

import "github.com/google/uuid"

// HeritageSite is a curated UNESCO heritage destination shown on the
// explore surface.
type HeritageSite struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Location        string    `json:"location"`
	Country         string    `json:"country"`
	Description     string    `json:"description"`
	ImageURL        string    `json:"image"`
	YearEstablished int       `json:"year_established"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
}
