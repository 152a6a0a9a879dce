package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/plugspot/plugspot/internal/api/market"
	"github.com/plugspot/plugspot/internal/config"
	"github.com/plugspot/plugspot/internal/geomap"
	"github.com/plugspot/plugspot/internal/models"
	"github.com/plugspot/plugspot/internal/session"
	"github.com/plugspot/plugspot/internal/state"
	"github.com/plugspot/plugspot/pkg/ws"
)

// StationView is one charger prepared for rendering: the raw record plus the
// status derivation and the pre-built fragments, recomputed on every refresh.
type StationView struct {
	models.ChargingStation
	Status      models.Status `json:"status"`
	StatusLabel string        `json:"statusLabel"`
	StatusColor string        `json:"statusColor"`
	MarkerIcon  string        `json:"markerIcon"`
	PopupHTML   string        `json:"popupHtml"`
	CardHTML    string        `json:"cardHtml"`
}

// Snapshot is everything the user dashboard shows. Public fields are always
// populated; the authenticated block is nil for anonymous visitors.
type Snapshot struct {
	Stations    []StationView             `json:"stations"`
	Viewport    geomap.Viewport           `json:"viewport"`
	Leaderboard []models.LeaderboardEntry `json:"leaderboard"`
	Impact      *models.ImpactStats       `json:"impact,omitempty"`

	Profile          *models.UserProfile     `json:"profile,omitempty"`
	RecentBookings   []models.Booking        `json:"recentBookings,omitempty"`
	AcceptedRequests []models.BookingRequest `json:"acceptedRequests,omitempty"`

	RefreshedAt time.Time `json:"refreshedAt"`
}

// DashboardService owns the user-dashboard snapshot and its periodic refresh.
type DashboardService struct {
	cfg      *config.Config
	logger   *zap.Logger
	api      *market.Client
	store    *session.Store
	hub      *ws.Hub
	requests *state.Manager

	mu       sync.RWMutex
	snapshot *Snapshot
	cron     *cron.Cron
	running  bool
}

// NewDashboardService builds the service.
func NewDashboardService(
	cfg *config.Config,
	logger *zap.Logger,
	api *market.Client,
	store *session.Store,
	hub *ws.Hub,
	requests *state.Manager,
) *DashboardService {
	return &DashboardService{
		cfg:      cfg,
		logger:   logger,
		api:      api,
		store:    store,
		hub:      hub,
		requests: requests,
	}
}

// Start runs an initial refresh and schedules the periodic one. The interval
// is fixed and independent of request latency; a tick that lands while the
// previous refresh is still in flight is skipped, not queued.
func (s *DashboardService) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("initial dashboard refresh failed", zap.Error(err))
	}

	cronLog := zapCronLogger{s.logger}
	s.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLog)))
	_, err := s.cron.AddFunc("@every "+s.cfg.RefreshInterval.String(), func() {
		refreshCtx, cancel := context.WithTimeout(context.Background(), s.cfg.RefreshInterval)
		defer cancel()
		if err := s.Refresh(refreshCtx); err != nil {
			s.logger.Warn("periodic dashboard refresh failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()

	s.logger.Info("dashboard refresh scheduled", zap.Duration("interval", s.cfg.RefreshInterval))
	return nil
}

// Stop tears the refresh schedule down.
func (s *DashboardService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	if s.cron != nil {
		s.cron.Stop()
	}
	s.logger.Info("dashboard refresh stopped")
}

// Snapshot returns the latest snapshot, nil before the first refresh.
func (s *DashboardService) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Refresh rebuilds the snapshot from the API and broadcasts it. Public data
// is loaded for everyone; profile, recent sessions and accepted requests only
// when a session exists. Each section degrades independently; only a charger
// list failure with no fallback is reported to the caller, since the map is
// the one section with nothing to show without it.
func (s *DashboardService) Refresh(ctx context.Context) error {
	snap := &Snapshot{RefreshedAt: time.Now().UTC()}

	var refreshErr error
	stations, err := s.api.ListChargers(ctx)
	if err != nil {
		refreshErr = err
		// Non-offline failure with no fallback; keep the previous station
		// list rather than blanking the map.
		s.logger.Warn("charger list refresh failed", zap.Error(err))
		if prev := s.Snapshot(); prev != nil {
			snap.Stations = prev.Stations
			snap.Viewport = prev.Viewport
		} else {
			snap.Viewport = geomap.DefaultViewport
		}
	} else {
		snap.Stations, snap.Viewport = s.buildStationViews(stations)
	}

	if leaderboard, err := s.api.Leaderboard(ctx); err != nil {
		s.logger.Warn("leaderboard refresh failed", zap.Error(err))
	} else {
		snap.Leaderboard = leaderboard
	}

	if impact, err := s.api.Impact(ctx); err != nil {
		s.logger.Warn("impact refresh failed", zap.Error(err))
	} else {
		snap.Impact = impact
	}

	if s.store.IsAuthenticated() {
		s.loadAuthenticated(ctx, snap)
	}

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()

	s.hub.BroadcastSnapshot(snap)
	return refreshErr
}

// Station returns one rendered station view. Snapshot entries are served
// as-is; an id the snapshot does not carry yet is fetched live and rendered
// the same way.
func (s *DashboardService) Station(ctx context.Context, id string) (*StationView, error) {
	if snap := s.Snapshot(); snap != nil {
		for i := range snap.Stations {
			if snap.Stations[i].ID == id {
				return &snap.Stations[i], nil
			}
		}
	}

	station, err := s.api.GetCharger(ctx, id)
	if err != nil {
		return nil, err
	}
	views, _ := s.buildStationViews([]models.ChargingStation{*station})
	if len(views) == 0 {
		return nil, errors.New("station not renderable")
	}
	return &views[0], nil
}

func (s *DashboardService) loadAuthenticated(ctx context.Context, snap *Snapshot) {
	if profile, err := s.api.Profile(ctx); err != nil {
		s.logger.Warn("profile refresh failed", zap.Error(err))
	} else {
		snap.Profile = profile
	}

	if bookings, err := s.api.UserBookings(ctx); err != nil {
		s.logger.Warn("user bookings refresh failed", zap.Error(err))
	} else {
		snap.RecentBookings = bookings
	}

	requests, err := s.api.UserBookingRequests(ctx)
	if err != nil {
		s.logger.Warn("booking requests refresh failed", zap.Error(err))
		return
	}
	for _, r := range requests {
		s.requests.GetOrCreate(r.ID, r.Status)
		if r.Accepted() {
			snap.AcceptedRequests = append(snap.AcceptedRequests, r)
		}
	}
}

// buildStationViews derives status and fragments per station. A station whose
// fragments fail to render is logged and skipped; one bad record must not
// take the map down.
func (s *DashboardService) buildStationViews(stations []models.ChargingStation) ([]StationView, geomap.Viewport) {
	views := make([]StationView, 0, len(stations))
	points := make([]geomap.LatLng, 0, len(stations))

	for _, st := range stations {
		status := st.Status()
		style := status.Style()

		popup, err := geomap.PopupHTML(st)
		if err != nil {
			s.logger.Warn("skipping station with unrenderable popup",
				zap.String("station_id", st.ID), zap.Error(err))
			continue
		}
		card, err := geomap.CardHTML(st)
		if err != nil {
			s.logger.Warn("skipping station with unrenderable card",
				zap.String("station_id", st.ID), zap.Error(err))
			continue
		}

		views = append(views, StationView{
			ChargingStation: st,
			Status:          status,
			StatusLabel:     style.Label,
			StatusColor:     style.Color,
			MarkerIcon:      geomap.MarkerDataURI(status),
			PopupHTML:       popup,
			CardHTML:        card,
		})
		points = append(points, geomap.LatLng{Lat: st.Latitude, Lng: st.Longitude})
	}

	viewport := geomap.FitBounds(points, geomap.DefaultPaddingFraction, geomap.MaxZoom)
	return views, viewport
}

// zapCronLogger adapts zap to cron's logger interface.
type zapCronLogger struct {
	l *zap.Logger
}

func (z zapCronLogger) Info(msg string, keysAndValues ...interface{}) {
	z.l.Sugar().Debugw("cron: "+msg, keysAndValues...)
}

func (z zapCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	z.l.Sugar().Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
