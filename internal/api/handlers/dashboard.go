package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/plugspot/plugspot/internal/geomap"
	"github.com/plugspot/plugspot/internal/models"
)

// GetSnapshot returns the full dashboard snapshot.
func (h *Handler) GetSnapshot(c *gin.Context) {
	snap := h.dashboard.Snapshot()
	if snap == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "dashboard not ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": snap})
}

// ListStations returns the rendered station views.
func (h *Handler) ListStations(c *gin.Context) {
	snap := h.dashboard.Snapshot()
	if snap == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "dashboard not ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": snap.Stations, "viewport": snap.Viewport})
}

// GetStation returns one station view by id, from the snapshot or fetched
// live for ids the snapshot has not picked up yet.
func (h *Handler) GetStation(c *gin.Context) {
	view, err := h.dashboard.Station(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "station not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": view})
}

// StationPopup serves the popup fragment as HTML.
func (h *Handler) StationPopup(c *gin.Context) {
	snap := h.dashboard.Snapshot()
	if snap == nil {
		c.String(http.StatusServiceUnavailable, "dashboard not ready")
		return
	}

	id := c.Param("id")
	for _, st := range snap.Stations {
		if st.ID == id {
			c.Header("Content-Type", "text/html; charset=utf-8")
			c.String(http.StatusOK, st.PopupHTML)
			return
		}
	}
	c.String(http.StatusNotFound, "station not found")
}

// MarkerIcon serves the pin SVG for a status, e.g. /api/markers/busy.
func (h *Handler) MarkerIcon(c *gin.Context) {
	status := models.Status(c.Param("status"))
	switch status {
	case models.StatusAvailable, models.StatusLimited, models.StatusBusy:
	default:
		h.logger.Debug("marker requested for unknown status", zap.String("status", string(status)))
		c.String(http.StatusNotFound, "unknown status")
		return
	}

	c.Header("Content-Type", "image/svg+xml")
	c.String(http.StatusOK, geomap.MarkerSVG(status))
}
