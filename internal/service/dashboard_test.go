package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/plugspot/plugspot/internal/api/market"
	"github.com/plugspot/plugspot/internal/config"
	"github.com/plugspot/plugspot/internal/models"
	"github.com/plugspot/plugspot/internal/session"
	"github.com/plugspot/plugspot/internal/state"
	"github.com/plugspot/plugspot/pkg/ws"
)

func dashboardFixture(t *testing.T, authed bool, handler http.Handler) (*DashboardService, *state.Manager) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"), zap.NewNop())
	if authed {
		if err := store.Set("tok", models.UserProfile{Name: "Asha", Role: models.RoleUser}); err != nil {
			t.Fatal(err)
		}
	}

	cfg := &config.Config{RefreshInterval: 30 * time.Second, OwnerFetchConcurrency: 4}
	client := market.NewClient(srv.URL, time.Second, store, zap.NewNop())
	requests := state.NewManager(nil)
	hub := ws.NewHub(zap.NewNop())
	return NewDashboardService(cfg, zap.NewNop(), client, store, hub, requests), requests
}

func publicMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/chargers", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id":"s1","name":"Busy <One>","address":"1 Road","latitude":12.9,"longitude":77.6,"connectorType":"DC Fast","totalSlots":4,"availableSlots":0},
			{"id":"s2","name":"Open One","address":"2 Road","latitude":12.95,"longitude":77.65,"connectorType":"Level 2","totalSlots":8,"availableSlots":6}
		]`))
	})
	mux.HandleFunc("/users/leaderboard", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"rank":1,"name":"Asha","greenScore":90}]`))
	})
	mux.HandleFunc("/users/impact", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"totalSessions":12,"co2Saved":34.5}`))
	})
	return mux
}

func TestRefreshBuildsPublicSnapshot(t *testing.T) {
	svc, _ := dashboardFixture(t, false, publicMux())

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh error = %v", err)
	}

	snap := svc.Snapshot()
	if snap == nil {
		t.Fatal("no snapshot after refresh")
	}
	if len(snap.Stations) != 2 {
		t.Fatalf("stations = %d, want 2", len(snap.Stations))
	}

	busy, open := snap.Stations[0], snap.Stations[1]
	if busy.Status != models.StatusBusy {
		t.Errorf("s1 status = %q, want busy", busy.Status)
	}
	if open.Status != models.StatusAvailable {
		t.Errorf("s2 status = %q, want available", open.Status)
	}
	if !strings.Contains(busy.PopupHTML, "&lt;One&gt;") || strings.Contains(busy.PopupHTML, "<One>") {
		t.Errorf("station name not escaped in popup:\n%s", busy.PopupHTML)
	}
	if !strings.HasPrefix(busy.MarkerIcon, "data:image/svg+xml;base64,") {
		t.Errorf("marker icon is not a data URI: %q", busy.MarkerIcon)
	}

	if snap.Viewport.Bounds == nil {
		t.Fatal("no viewport bounds for two stations")
	}
	if len(snap.Leaderboard) != 1 || snap.Leaderboard[0].GreenScore != 90 {
		t.Errorf("leaderboard = %+v", snap.Leaderboard)
	}
	if snap.Impact == nil || snap.Impact.TotalSessions != 12 {
		t.Errorf("impact = %+v", snap.Impact)
	}

	// Anonymous visitor: no private sections.
	if snap.Profile != nil || snap.RecentBookings != nil || snap.AcceptedRequests != nil {
		t.Error("anonymous snapshot carries authenticated data")
	}
}

func TestRefreshLoadsAuthenticatedSections(t *testing.T) {
	mux := publicMux()
	mux.HandleFunc("/users/profile", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"name":"Asha","role":"user","greenScore":77}`))
	})
	mux.HandleFunc("/bookings/user/list", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"b1","chargerId":"s1","status":"active"}]`))
	})
	mux.HandleFunc("/booking-requests/user/list", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id":"r1","chargerId":"s1","status":"approved"},
			{"id":"r2","chargerId":"s2","status":"pending"},
			{"id":"r3","chargerId":"s2","status":"rejected"}
		]`))
	})

	svc, requests := dashboardFixture(t, true, mux)
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh error = %v", err)
	}

	snap := svc.Snapshot()
	if snap.Profile == nil || snap.Profile.GreenScore != 77 {
		t.Errorf("profile = %+v", snap.Profile)
	}
	if len(snap.RecentBookings) != 1 {
		t.Errorf("recent bookings = %+v", snap.RecentBookings)
	}
	// Only approved/session_active requests count as accepted.
	if len(snap.AcceptedRequests) != 1 || snap.AcceptedRequests[0].ID != "r1" {
		t.Errorf("accepted requests = %+v", snap.AcceptedRequests)
	}

	// Machines were seeded from backend statuses.
	if m, ok := requests.Get("r2"); !ok || m.Current() != models.RequestStatusPending {
		t.Error("request machine not seeded for r2")
	}
}

func TestStationFallsBackToLiveFetch(t *testing.T) {
	mux := publicMux()
	mux.HandleFunc("/chargers/s9", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"s9","name":"New <Site>","address":"9 Road","latitude":13.0,"longitude":77.7,"connectorType":"Level 2","totalSlots":5,"availableSlots":5}`))
	})

	svc, _ := dashboardFixture(t, false, mux)
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh error = %v", err)
	}

	// A snapshot hit is served as-is.
	view, err := svc.Station(context.Background(), "s1")
	if err != nil || view.ID != "s1" {
		t.Fatalf("Station(s1) = %+v, err %v", view, err)
	}

	// A miss is fetched live and rendered like any other station.
	view, err = svc.Station(context.Background(), "s9")
	if err != nil {
		t.Fatalf("Station(s9) error = %v", err)
	}
	if view.Status != models.StatusAvailable {
		t.Errorf("live station status = %q, want available", view.Status)
	}
	if !strings.Contains(view.PopupHTML, "&lt;Site&gt;") {
		t.Errorf("live station name not escaped in popup:\n%s", view.PopupHTML)
	}

	if _, err := svc.Station(context.Background(), "nope"); err == nil {
		t.Error("unknown station id did not error")
	}
}

// A charger list failure with no fallback keeps the previous map and is the
// one section failure a refresh reports.
func TestRefreshReportsChargerListFailure(t *testing.T) {
	var failing atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("/chargers", func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			w.Write([]byte(`{"error":"maintenance window"}`))
			return
		}
		w.Write([]byte(`[{"id":"s1","name":"One","address":"1 Road","latitude":12.9,"longitude":77.6,"connectorType":"Level 2","totalSlots":4,"availableSlots":2}]`))
	})
	mux.HandleFunc("/users/leaderboard", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`[]`)) })
	mux.HandleFunc("/users/impact", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{}`)) })

	svc, _ := dashboardFixture(t, false, mux)
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh error = %v", err)
	}

	failing.Store(true)
	if err := svc.Refresh(context.Background()); err == nil {
		t.Fatal("Refresh did not report the charger list failure")
	}
	if snap := svc.Snapshot(); len(snap.Stations) != 1 {
		t.Errorf("previous station list not kept, stations = %d", len(snap.Stations))
	}
}

// The station list endpoint degrading to the demo dataset is the offline
// story; refresh must still produce a renderable snapshot.
func TestRefreshOfflineUsesDemoDataset(t *testing.T) {
	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"), zap.NewNop())
	cfg := &config.Config{RefreshInterval: 30 * time.Second}
	client := market.NewClient("http://127.0.0.1:1", 200*time.Millisecond, store, zap.NewNop())
	svc := NewDashboardService(cfg, zap.NewNop(), client, store, ws.NewHub(zap.NewNop()), state.NewManager(nil))

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh error = %v", err)
	}

	snap := svc.Snapshot()
	if len(snap.Stations) != len(market.DemoChargers()) {
		t.Errorf("offline stations = %d, want demo dataset size %d",
			len(snap.Stations), len(market.DemoChargers()))
	}
	if len(snap.Leaderboard) != len(market.DemoLeaderboard()) {
		t.Errorf("offline leaderboard = %d entries, want demo dataset", len(snap.Leaderboard))
	}
}
