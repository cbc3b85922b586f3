package types

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus is the lifecycle state of a cart/booking record.
// Normal flow is one-directional: cart -> booked via confirm, or
// cart -> deleted via removal. booked is terminal in this interface.
type BookingStatus string

const (
	BookingStatusCart      BookingStatus = "cart"
	BookingStatusBooked    BookingStatus = "booked"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is a cart/booking record owned by exactly one user.
type Booking struct {
	ID        uuid.UUID     `json:"id"`
	UserID    uuid.UUID     `json:"user_id"`
	ItemType  string        `json:"item_type"`
	ItemName  string        `json:"item_name"`
	StartDate time.Time     `json:"start_date"`
	EndDate   *time.Time    `json:"end_date,omitempty"`
	Price     float64       `json:"price"`
	Status    BookingStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

// BookingQRPayload is the JSON object encoded into a booking's QR code.
type BookingQRPayload struct {
	ID     string `json:"id"`
	Item   string `json:"item"`
	Status string `json:"status"`
}
