package service

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/plugspot/plugspot/internal/api/market"
	"github.com/plugspot/plugspot/internal/config"
	"github.com/plugspot/plugspot/internal/models"
	"github.com/plugspot/plugspot/internal/session"
	"github.com/plugspot/plugspot/internal/state"
)

// ErrNotOwner is returned when the owner console is opened by a non-owner
// session; the caller must force a logout.
var ErrNotOwner = errors.New("owner console requires an owner account")

// BookingCountPlaceholder is rendered for a station whose booking fetch
// failed. The row stays visible, it just shows no number.
const BookingCountPlaceholder = "—"

// OwnerStationRow one station in the owner console.
type OwnerStationRow struct {
	Station      models.ChargingStation `json:"station"`
	Status       models.Status          `json:"status"`
	BookingCount int                    `json:"bookingCount"`
	BookingLabel string                 `json:"bookingLabel"`
	FetchFailed  bool                   `json:"fetchFailed"`
}

// OwnerStats per-station rows plus the aggregate counters and the booking
// requests filed against the owner's stations.
type OwnerStats struct {
	TotalStations int                     `json:"totalStations"`
	TotalBookings int                     `json:"totalBookings"`
	SlotsInUse    int                     `json:"slotsInUse"`
	Stations      []OwnerStationRow       `json:"stations"`
	Requests      []models.BookingRequest `json:"requests"`
}

// OwnerService loads the station-management console data.
type OwnerService struct {
	cfg      *config.Config
	logger   *zap.Logger
	api      *market.Client
	store    *session.Store
	requests *state.Manager
}

// NewOwnerService builds the service.
func NewOwnerService(cfg *config.Config, logger *zap.Logger, api *market.Client, store *session.Store, requests *state.Manager) *OwnerService {
	return &OwnerService{cfg: cfg, logger: logger, api: api, store: store, requests: requests}
}

// RequireOwner checks the cached session role. A mismatch clears the session
// (forced logout) and returns ErrNotOwner.
func (s *OwnerService) RequireOwner() error {
	user, ok := s.store.User()
	if !ok {
		return ErrNotOwner
	}
	if user.Role != models.RoleOwner {
		s.logger.Warn("non-owner session on owner console, forcing logout",
			zap.String("role", string(user.Role)))
		s.store.Clear()
		return ErrNotOwner
	}
	return nil
}

// LoadStats fetches the owner's stations, then their bookings with a bounded
// fan-out. One station's fetch failure never voids the rest: the failed row
// renders a placeholder and contributes zero to the booking total. The
// booking requests against those stations are loaded last, seeding their
// lifecycle machines so approve/reject transitions are guarded.
func (s *OwnerService) LoadStats(ctx context.Context) (*OwnerStats, error) {
	if err := s.RequireOwner(); err != nil {
		return nil, err
	}

	stations, err := s.api.OwnerChargers(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]OwnerStationRow, len(stations))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.OwnerFetchConcurrency)

	for i, station := range stations {
		i, station := i, station
		g.Go(func() error {
			row := OwnerStationRow{
				Station: station,
				Status:  station.Status(),
			}

			bookings, err := s.api.ChargerBookings(gctx, station.ID)
			if err != nil {
				// isolated: this row shows the placeholder, others proceed
				s.logger.Warn("booking fetch failed for station",
					zap.String("station_id", station.ID), zap.Error(err))
				row.FetchFailed = true
				row.BookingLabel = BookingCountPlaceholder
				rows[i] = row
				return nil
			}

			for _, b := range bookings {
				if b.CountsTowardOwnerTotal() {
					row.BookingCount++
				}
			}
			row.BookingLabel = strconv.Itoa(row.BookingCount)
			rows[i] = row
			return nil
		})
	}
	// Workers only record failures, they never return them.
	_ = g.Wait()

	stats := &OwnerStats{
		TotalStations: len(rows),
		Stations:      rows,
	}
	for _, row := range rows {
		stats.TotalBookings += row.BookingCount
		stats.SlotsInUse += row.Station.SlotsInUse()
	}

	requests, err := s.api.OwnerBookingRequests(ctx)
	if err != nil {
		// the console still renders; the request list just stays empty
		s.logger.Warn("owner booking requests fetch failed", zap.Error(err))
		return stats, nil
	}
	for _, r := range requests {
		s.requests.GetOrCreate(r.ID, r.Status)
	}
	stats.Requests = requests
	return stats, nil
}
