package market

import (
	"context"
	"net/http"

	"github.com/plugspot/plugspot/internal/models"
)

// Auth

// Login exchanges credentials for {token, user}.
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account and returns {token, user}.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stations

// ListChargers returns all public stations. On any transport failure the
// built-in demo dataset is returned instead; callers cannot tell a network
// error from a timeout from a 500 here.
func (c *Client) ListChargers(ctx context.Context) ([]models.ChargingStation, error) {
	var stations []models.ChargingStation
	if err := c.do(ctx, http.MethodGet, "/chargers", nil, &stations); err != nil {
		if IsOffline(err) {
			c.logger.Info("charger list unavailable, serving demo dataset")
			return DemoChargers(), nil
		}
		return nil, err
	}
	return stations, nil
}

// GetCharger fetches one station by id.
func (c *Client) GetCharger(ctx context.Context, id string) (*models.ChargingStation, error) {
	var station models.ChargingStation
	if err := c.do(ctx, http.MethodGet, "/chargers/"+id, nil, &station); err != nil {
		return nil, err
	}
	return &station, nil
}

// OwnerChargers lists the authenticated owner's stations.
func (c *Client) OwnerChargers(ctx context.Context) ([]models.ChargingStation, error) {
	var stations []models.ChargingStation
	if err := c.do(ctx, http.MethodGet, "/chargers/owner/list", nil, &stations); err != nil {
		return nil, err
	}
	return stations, nil
}

// CreateCharger registers a new station for the owner.
func (c *Client) CreateCharger(ctx context.Context, input StationInput) (*models.ChargingStation, error) {
	var station models.ChargingStation
	if err := c.do(ctx, http.MethodPost, "/chargers", input, &station); err != nil {
		return nil, err
	}
	return &station, nil
}

// UpdateCharger edits an owned station.
func (c *Client) UpdateCharger(ctx context.Context, id string, input StationInput) (*models.ChargingStation, error) {
	var station models.ChargingStation
	if err := c.do(ctx, http.MethodPut, "/chargers/"+id, input, &station); err != nil {
		return nil, err
	}
	return &station, nil
}

// DeleteCharger removes an owned station.
func (c *Client) DeleteCharger(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/chargers/"+id, nil, nil)
}

// Bookings

// CreateBooking creates a confirmed booking.
func (c *Client) CreateBooking(ctx context.Context, input BookingInput) (*models.Booking, error) {
	var booking models.Booking
	if err := c.do(ctx, http.MethodPost, "/bookings", input, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// UserBookings lists the authenticated user's bookings.
func (c *Client) UserBookings(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := c.do(ctx, http.MethodGet, "/bookings/user/list", nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// ChargerBookings lists bookings for one station (owner view).
func (c *Client) ChargerBookings(ctx context.Context, chargerID string) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := c.do(ctx, http.MethodGet, "/bookings/charger/"+chargerID, nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// CompleteBooking transitions a booking to completed.
func (c *Client) CompleteBooking(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "/bookings/"+id+"/complete", nil, nil)
}

// CancelBooking transitions a booking to cancelled.
func (c *Client) CancelBooking(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "/bookings/"+id+"/cancel", nil, nil)
}

// Booking requests

// CreateBookingRequest files an approval-gated reservation.
func (c *Client) CreateBookingRequest(ctx context.Context, input BookingRequestInput) (*models.BookingRequest, error) {
	var req models.BookingRequest
	if err := c.do(ctx, http.MethodPost, "/booking-requests", input, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// UserBookingRequests lists the user's requests.
func (c *Client) UserBookingRequests(ctx context.Context) ([]models.BookingRequest, error) {
	var reqs []models.BookingRequest
	if err := c.do(ctx, http.MethodGet, "/booking-requests/user/list", nil, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

// OwnerBookingRequests lists requests against the owner's stations.
func (c *Client) OwnerBookingRequests(ctx context.Context) ([]models.BookingRequest, error) {
	var reqs []models.BookingRequest
	if err := c.do(ctx, http.MethodGet, "/booking-requests/owner/list", nil, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

// ApproveBookingRequest owner approves a pending request.
func (c *Client) ApproveBookingRequest(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "/booking-requests/"+id+"/approve", nil, nil)
}

// RejectBookingRequest owner rejects a pending request.
func (c *Client) RejectBookingRequest(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "/booking-requests/"+id+"/reject", nil, nil)
}

// CancelBookingRequest user cancels a pending or approved request.
func (c *Client) CancelBookingRequest(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "/booking-requests/"+id+"/cancel", nil, nil)
}

// StartSession begins charging against an approved request.
func (c *Client) StartSession(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "/booking-requests/"+id+"/session/start", nil, nil)
}

// EndSession finishes an active charging session.
func (c *Client) EndSession(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "/booking-requests/"+id+"/session/end", nil, nil)
}

// CancelSession aborts an active charging session.
func (c *Client) CancelSession(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "/booking-requests/"+id+"/session/cancel", nil, nil)
}

// Profile & impact

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := c.do(ctx, http.MethodGet, "/users/profile", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Impact fetches the public aggregate eco metrics.
func (c *Client) Impact(ctx context.Context) (*models.ImpactStats, error) {
	var impact models.ImpactStats
	if err := c.do(ctx, http.MethodGet, "/users/impact", nil, &impact); err != nil {
		return nil, err
	}
	return &impact, nil
}

// Leaderboard fetches the green-score ranking, degrading to the demo dataset
// on transport failure exactly like ListChargers.
func (c *Client) Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	if err := c.do(ctx, http.MethodGet, "/users/leaderboard", nil, &entries); err != nil {
		if IsOffline(err) {
			c.logger.Info("leaderboard unavailable, serving demo dataset")
			return DemoLeaderboard(), nil
		}
		return nil, err
	}
	return entries, nil
}
