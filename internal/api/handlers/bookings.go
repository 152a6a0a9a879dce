package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/plugspot/plugspot/internal/api/market"
)

type bookingRequest struct {
	ChargerID     string    `json:"chargerId" binding:"required"`
	StartTime     time.Time `json:"startTime" binding:"required"`
	DurationHours float64   `json:"duration" binding:"required"`
}

// destructiveConfirm is required on cancel/delete endpoints; the browser-side
// confirm dialog sets it.
type destructiveConfirm struct {
	Confirm bool `json:"confirm"`
}

func requireConfirm(c *gin.Context) bool {
	var body destructiveConfirm
	if err := c.BindJSON(&body); err != nil || !body.Confirm {
		c.JSON(http.StatusBadRequest, gin.H{"error": "confirmation required"})
		return false
	}
	return true
}

// CreateBooking creates a confirmed booking.
func (h *Handler) CreateBooking(c *gin.Context) {
	var req bookingRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if alert := h.actions.CreateBooking(c.Request.Context(), market.BookingInput{
		ChargerID:     req.ChargerID,
		StartTime:     req.StartTime,
		DurationHours: req.DurationHours,
	}); alert != nil {
		respondAlert(c, alert)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CompleteBooking marks a booking completed.
func (h *Handler) CompleteBooking(c *gin.Context) {
	if alert := h.actions.CompleteBooking(c.Request.Context(), c.Param("id")); alert != nil {
		respondAlert(c, alert)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CancelBooking cancels a booking (destructive, needs confirmation).
func (h *Handler) CancelBooking(c *gin.Context) {
	if !requireConfirm(c) {
		return
	}
	if alert := h.actions.CancelBooking(c.Request.Context(), c.Param("id")); alert != nil {
		respondAlert(c, alert)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CreateBookingRequest files an approval-gated reservation.
func (h *Handler) CreateBookingRequest(c *gin.Context) {
	var req bookingRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if alert := h.actions.CreateBookingRequest(c.Request.Context(), market.BookingRequestInput{
		ChargerID:     req.ChargerID,
		StartTime:     req.StartTime,
		DurationHours: req.DurationHours,
	}); alert != nil {
		respondAlert(c, alert)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CancelRequest cancels a pending/approved request (destructive).
func (h *Handler) CancelRequest(c *gin.Context) {
	if !requireConfirm(c) {
		return
	}
	if alert := h.actions.CancelRequest(c.Request.Context(), c.Param("id")); alert != nil {
		respondAlert(c, alert)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// StartSession begins charging on an approved request.
func (h *Handler) StartSession(c *gin.Context) {
	if alert := h.actions.StartSession(c.Request.Context(), c.Param("id")); alert != nil {
		respondAlert(c, alert)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// EndSession finishes an active session.
func (h *Handler) EndSession(c *gin.Context) {
	if alert := h.actions.EndSession(c.Request.Context(), c.Param("id")); alert != nil {
		respondAlert(c, alert)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CancelSession aborts an active session (destructive).
func (h *Handler) CancelSession(c *gin.Context) {
	if !requireConfirm(c) {
		return
	}
	if alert := h.actions.CancelSession(c.Request.Context(), c.Param("id")); alert != nil {
		respondAlert(c, alert)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
