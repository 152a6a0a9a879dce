package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/plugspot/plugspot/internal/api/market"
	"github.com/plugspot/plugspot/internal/service"
)

type stationRequest struct {
	Name           string  `json:"name" binding:"required"`
	Address        string  `json:"address" binding:"required"`
	Latitude       float64 `json:"latitude" binding:"required"`
	Longitude      float64 `json:"longitude" binding:"required"`
	ConnectorType  string  `json:"connectorType" binding:"required"`
	TotalSlots     int     `json:"totalSlots" binding:"required"`
	AvailableSlots int     `json:"availableSlots"`
	Description    string  `json:"description"`
}

func (r stationRequest) toInput() market.StationInput {
	return market.StationInput{
		Name:           r.Name,
		Address:        r.Address,
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
		ConnectorType:  r.ConnectorType,
		TotalSlots:     r.TotalSlots,
		AvailableSlots: r.AvailableSlots,
		Description:    r.Description,
	}
}

// OwnerStats loads the owner console aggregates. A non-owner session gets a
// forced logout and is sent back to the landing page.
func (h *Handler) OwnerStats(c *gin.Context) {
	stats, err := h.owner.LoadStats(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrNotOwner) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error(), "redirect": "/"})
			return
		}
		h.logger.Error("owner stats load failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load owner stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": stats})
}

// CreateStation registers a new station for the owner.
func (h *Handler) CreateStation(c *gin.Context) {
	if err := h.owner.RequireOwner(); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error(), "redirect": "/"})
		return
	}

	var req stationRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if alert := h.actions.CreateStation(c.Request.Context(), req.toInput()); alert != nil {
		respondAlert(c, alert)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// UpdateStation edits an owned station.
func (h *Handler) UpdateStation(c *gin.Context) {
	if err := h.owner.RequireOwner(); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error(), "redirect": "/"})
		return
	}

	var req stationRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if alert := h.actions.UpdateStation(c.Request.Context(), c.Param("id"), req.toInput()); alert != nil {
		respondAlert(c, alert)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// DeleteStation removes an owned station (destructive, needs confirmation).
func (h *Handler) DeleteStation(c *gin.Context) {
	if err := h.owner.RequireOwner(); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error(), "redirect": "/"})
		return
	}
	if !requireConfirm(c) {
		return
	}

	if alert := h.actions.DeleteStation(c.Request.Context(), c.Param("id")); alert != nil {
		respondAlert(c, alert)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ApproveRequest owner approves a pending booking request.
func (h *Handler) ApproveRequest(c *gin.Context) {
	if err := h.owner.RequireOwner(); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error(), "redirect": "/"})
		return
	}

	if alert := h.actions.ApproveRequest(c.Request.Context(), c.Param("id")); alert != nil {
		respondAlert(c, alert)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RejectRequest owner rejects a pending booking request.
func (h *Handler) RejectRequest(c *gin.Context) {
	if err := h.owner.RequireOwner(); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error(), "redirect": "/"})
		return
	}

	if alert := h.actions.RejectRequest(c.Request.Context(), c.Param("id")); alert != nil {
		respondAlert(c, alert)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
