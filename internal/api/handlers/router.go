package handlers

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the dashboard surface.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		// auth
		api.POST("/auth/login", h.Login)
		api.POST("/auth/register", h.Register)
		api.POST("/auth/logout", h.Logout)
		api.GET("/auth/session", h.SessionInfo)

		// public dashboard reads
		api.GET("/dashboard", h.GetSnapshot)
		api.GET("/stations", h.ListStations)
		api.GET("/stations/:id", h.GetStation)
		api.GET("/stations/:id/popup", h.StationPopup)
		api.GET("/markers/:status", h.MarkerIcon)

		// driver actions
		authed := api.Group("", h.RequireAuth())
		{
			authed.POST("/bookings", h.CreateBooking)
			authed.PUT("/bookings/:id/complete", h.CompleteBooking)
			authed.PUT("/bookings/:id/cancel", h.CancelBooking)

			authed.POST("/booking-requests", h.CreateBookingRequest)
			authed.PUT("/booking-requests/:id/cancel", h.CancelRequest)
			authed.PUT("/booking-requests/:id/session/start", h.StartSession)
			authed.PUT("/booking-requests/:id/session/end", h.EndSession)
			authed.PUT("/booking-requests/:id/session/cancel", h.CancelSession)
		}

		// owner console
		owner := api.Group("/owner", h.RequireAuth())
		{
			owner.GET("/stats", h.OwnerStats)
			owner.POST("/stations", h.CreateStation)
			owner.PUT("/stations/:id", h.UpdateStation)
			owner.DELETE("/stations/:id", h.DeleteStation)
			owner.PUT("/booking-requests/:id/approve", h.ApproveRequest)
			owner.PUT("/booking-requests/:id/reject", h.RejectRequest)
		}
	}

	r.GET("/ws", h.HandleWebSocket)
	r.GET("/health", h.HealthCheck)
}
