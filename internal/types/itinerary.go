package types

import (
	"time"

	"github.com/google/uuid"
)

// Itinerary is a saved trip plan with dated, costed activities.
// Budget is stored in the display currency (INR).
type Itinerary struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Destination string     `json:"destination"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     time.Time  `json:"end_date"`
	Budget      float64    `json:"budget"`
	GroupSize   int        `json:"group_size"`
	Activities  []Activity `json:"activities"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Activity is a single scheduled item within an itinerary.
// Time is the start slot in 24-hour HH:MM form.
type Activity struct {
	ID          uuid.UUID `json:"id"`
	ItineraryID uuid.UUID `json:"itinerary_id,omitempty"`
	Day         int       `json:"day"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Time        string    `json:"time"`
	Cost        float64   `json:"cost"`
}
