package models

import "time"

// Booking lifecycle statuses. Created active, then completed or cancelled
// (both terminal).
const (
	BookingStatusActive    = "active"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// Booking is a confirmed charging reservation.
type Booking struct {
	ID            string     `json:"id"`
	ChargerID     string     `json:"chargerId"`
	UserID        string     `json:"userId"`
	StartTime     time.Time  `json:"startTime"`
	EndTime       *time.Time `json:"endTime,omitempty"`
	Status        string     `json:"status"`
	DurationHours float64    `json:"duration"`
	GreenPoints   int        `json:"greenPoints"`
}

// CountsTowardOwnerTotal reports whether the booking is included in owner
// aggregate counts (everything except cancelled).
func (b Booking) CountsTowardOwnerTotal() bool {
	return b.Status != BookingStatusCancelled
}
