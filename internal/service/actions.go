package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/plugspot/plugspot/internal/api/market"
	"github.com/plugspot/plugspot/internal/state"
)

// Alert is the uniform user-facing failure payload for mutations. Controllers
// surface it; they never re-throw transport errors at the page.
type Alert struct {
	Message string `json:"message"`
}

// Actions runs every booking/station mutation through one pattern: submit,
// branch on the API error kind, alert on failure, full re-fetch on success.
// No optimistic updates, no reconciliation, no automatic retry.
type Actions struct {
	logger    *zap.Logger
	api       *market.Client
	dashboard *DashboardService
	requests  *state.Manager
}

// NewActions builds the mutation runner.
func NewActions(logger *zap.Logger, api *market.Client, dashboard *DashboardService, requests *state.Manager) *Actions {
	return &Actions{logger: logger, api: api, dashboard: dashboard, requests: requests}
}

// run is the shared submit path. A nil return means success and that the
// affected lists have been re-fetched.
func (a *Actions) run(ctx context.Context, name string, call func(context.Context) error) *Alert {
	if err := call(ctx); err != nil {
		a.logger.Warn("action failed", zap.String("action", name), zap.Error(err))
		if apiErr, ok := market.AsAPIError(err); ok {
			if apiErr.Kind == market.KindApplication {
				return &Alert{Message: apiErr.Message}
			}
			return &Alert{Message: "Something went wrong. Please try again."}
		}
		return &Alert{Message: "Something went wrong. Please try again."}
	}

	if err := a.dashboard.Refresh(ctx); err != nil {
		// the mutation landed; a failed re-fetch only delays the next refresh
		a.logger.Warn("post-action refresh failed", zap.String("action", name), zap.Error(err))
	}
	return nil
}

// Bookings

func (a *Actions) CreateBooking(ctx context.Context, input market.BookingInput) *Alert {
	return a.run(ctx, "create_booking", func(ctx context.Context) error {
		_, err := a.api.CreateBooking(ctx, input)
		return err
	})
}

func (a *Actions) CompleteBooking(ctx context.Context, id string) *Alert {
	return a.run(ctx, "complete_booking", func(ctx context.Context) error {
		return a.api.CompleteBooking(ctx, id)
	})
}

func (a *Actions) CancelBooking(ctx context.Context, id string) *Alert {
	return a.run(ctx, "cancel_booking", func(ctx context.Context) error {
		return a.api.CancelBooking(ctx, id)
	})
}

// Stations (owner)

func (a *Actions) CreateStation(ctx context.Context, input market.StationInput) *Alert {
	return a.run(ctx, "create_station", func(ctx context.Context) error {
		_, err := a.api.CreateCharger(ctx, input)
		return err
	})
}

func (a *Actions) UpdateStation(ctx context.Context, id string, input market.StationInput) *Alert {
	return a.run(ctx, "update_station", func(ctx context.Context) error {
		_, err := a.api.UpdateCharger(ctx, id, input)
		return err
	})
}

func (a *Actions) DeleteStation(ctx context.Context, id string) *Alert {
	return a.run(ctx, "delete_station", func(ctx context.Context) error {
		return a.api.DeleteCharger(ctx, id)
	})
}

// Booking requests. Each transition is checked against the local lifecycle
// machine first so the UI cannot ask the backend for an impossible move.

func (a *Actions) CreateBookingRequest(ctx context.Context, input market.BookingRequestInput) *Alert {
	return a.run(ctx, "create_booking_request", func(ctx context.Context) error {
		req, err := a.api.CreateBookingRequest(ctx, input)
		if err != nil {
			return err
		}
		a.requests.GetOrCreate(req.ID, req.Status)
		return nil
	})
}

func (a *Actions) transitionRequest(ctx context.Context, name, id, event string, call func(context.Context, string) error) *Alert {
	if machine, ok := a.requests.Get(id); ok && !machine.Can(event) {
		return &Alert{Message: "This request can no longer be " + name + "."}
	}
	return a.run(ctx, name+"_booking_request", func(ctx context.Context) error {
		if err := call(ctx, id); err != nil {
			return err
		}
		if machine, ok := a.requests.Get(id); ok {
			if err := machine.Trigger(event); err != nil {
				// backend accepted it; local machine resyncs on next refresh
				a.logger.Debug("request machine out of sync", zap.String("request_id", id), zap.Error(err))
			}
		}
		return nil
	})
}

func (a *Actions) ApproveRequest(ctx context.Context, id string) *Alert {
	return a.transitionRequest(ctx, "approved", id, state.EventApprove, a.api.ApproveBookingRequest)
}

func (a *Actions) RejectRequest(ctx context.Context, id string) *Alert {
	return a.transitionRequest(ctx, "rejected", id, state.EventReject, a.api.RejectBookingRequest)
}

func (a *Actions) CancelRequest(ctx context.Context, id string) *Alert {
	return a.transitionRequest(ctx, "cancelled", id, state.EventCancel, a.api.CancelBookingRequest)
}

func (a *Actions) StartSession(ctx context.Context, id string) *Alert {
	return a.transitionRequest(ctx, "started", id, state.EventStartSession, a.api.StartSession)
}

func (a *Actions) EndSession(ctx context.Context, id string) *Alert {
	return a.transitionRequest(ctx, "ended", id, state.EventEndSession, a.api.EndSession)
}

func (a *Actions) CancelSession(ctx context.Context, id string) *Alert {
	return a.transitionRequest(ctx, "aborted", id, state.EventCancelSession, a.api.CancelSession)
}
