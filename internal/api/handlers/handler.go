package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/plugspot/plugspot/internal/service"
	"github.com/plugspot/plugspot/internal/session"
	"github.com/plugspot/plugspot/pkg/ws"
)

// Handler wires HTTP routes to the dashboard services.
type Handler struct {
	logger    *zap.Logger
	store     *session.Store
	auth      *session.Authenticator
	dashboard *service.DashboardService
	owner     *service.OwnerService
	actions   *service.Actions
	wsHub     *ws.Hub
	upgrader  websocket.Upgrader
}

// NewHandler builds the handler.
func NewHandler(
	logger *zap.Logger,
	store *session.Store,
	auth *session.Authenticator,
	dashboard *service.DashboardService,
	owner *service.OwnerService,
	actions *service.Actions,
	wsHub *ws.Hub,
) *Handler {
	return &Handler{
		logger:    logger,
		store:     store,
		auth:      auth,
		dashboard: dashboard,
		owner:     owner,
		actions:   actions,
		wsHub:     wsHub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // single-origin demo deployment
			},
		},
	}
}

// HandleWebSocket upgrades the connection and attaches it to the hub.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	client := ws.NewClient(h.wsHub, conn)
	client.Register()

	go client.WritePump()
	go client.ReadPump()
}

// HealthCheck liveness probe.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondAlert maps a mutation failure to the uniform alert payload.
func respondAlert(c *gin.Context, alert *service.Alert) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"alert": alert})
}
