package models

import "time"

// Booking-request statuses. The approval workflow is owned by the backend;
// this layer only displays requests and asks for transitions.
const (
	RequestStatusPending       = "pending"
	RequestStatusApproved      = "approved"
	RequestStatusRejected      = "rejected"
	RequestStatusSessionActive = "session_active"
	RequestStatusSessionEnded  = "session_ended"
	RequestStatusCancelled     = "cancelled"
)

// BookingRequest is an approval-gated reservation, distinct from a confirmed
// Booking until the owner approves it.
type BookingRequest struct {
	ID            string     `json:"id"`
	ChargerID     string     `json:"chargerId"`
	UserID        string     `json:"userId"`
	StartTime     time.Time  `json:"startTime"`
	DurationHours float64    `json:"duration"`
	Status        string     `json:"status"`
	ApprovedAt    *time.Time `json:"approvedAt,omitempty"`
	BookingID     string     `json:"bookingId,omitempty"`
}

// Accepted reports whether the request should show up in the user's
// "accepted" list (approved or already charging).
func (r BookingRequest) Accepted() bool {
	return r.Status == RequestStatusApproved || r.Status == RequestStatusSessionActive
}
