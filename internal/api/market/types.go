package market

import (
	"time"

	"github.com/plugspot/plugspot/internal/models"
)

// Credentials login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest signup payload. Role selects the portal being registered
// against.
type RegisterRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

// AuthResponse is returned by /auth/login and /auth/register.
type AuthResponse struct {
	Token string             `json:"token"`
	User  models.UserProfile `json:"user"`
}

// StationInput create/update payload for owner station CRUD.
type StationInput struct {
	Name           string  `json:"name"`
	Address        string  `json:"address"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	ConnectorType  string  `json:"connectorType"`
	TotalSlots     int     `json:"totalSlots"`
	AvailableSlots int     `json:"availableSlots"`
	Description    string  `json:"description,omitempty"`
}

// BookingInput create payload for POST /bookings.
type BookingInput struct {
	ChargerID     string    `json:"chargerId"`
	StartTime     time.Time `json:"startTime"`
	DurationHours float64   `json:"duration"`
}

// BookingRequestInput create payload for POST /booking-requests.
type BookingRequestInput struct {
	ChargerID     string    `json:"chargerId"`
	StartTime     time.Time `json:"startTime"`
	DurationHours float64   `json:"duration"`
}
