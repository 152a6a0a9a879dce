package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plugspot/plugspot/internal/api/market"
	"github.com/plugspot/plugspot/internal/models"
	"github.com/plugspot/plugspot/internal/session"
)

type loginRequest struct {
	Email    string      `json:"email" binding:"required"`
	Password string      `json:"password" binding:"required"`
	Portal   models.Role `json:"portal"`
}

type registerRequest struct {
	Name     string      `json:"name" binding:"required"`
	Email    string      `json:"email" binding:"required"`
	Password string      `json:"password" binding:"required"`
	Portal   models.Role `json:"portal"`
}

func normalizePortal(role models.Role) models.Role {
	if role == models.RoleOwner {
		return models.RoleOwner
	}
	return models.RoleUser
}

// Login signs into a portal and returns the redirect target.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	redirect, err := h.auth.Login(c.Request.Context(),
		market.Credentials{Email: req.Email, Password: req.Password},
		normalizePortal(req.Portal))
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, session.ErrRoleMismatch) {
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	user, _ := h.store.User()
	c.JSON(http.StatusOK, gin.H{"redirect": redirect, "user": user})
}

// Register creates an account on a portal and signs in.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	redirect, err := h.auth.Register(c.Request.Context(),
		market.RegisterRequest{Name: req.Name, Email: req.Email, Password: req.Password},
		normalizePortal(req.Portal))
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, session.ErrRoleMismatch) {
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	user, _ := h.store.User()
	c.JSON(http.StatusOK, gin.H{"redirect": redirect, "user": user})
}

// Logout clears the session.
func (h *Handler) Logout(c *gin.Context) {
	redirect := h.auth.Logout()
	c.JSON(http.StatusOK, gin.H{"redirect": redirect})
}

// SessionInfo reports the current session for page bootstrap.
func (h *Handler) SessionInfo(c *gin.Context) {
	user, ok := h.store.User()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	resp := gin.H{"authenticated": true, "user": user}
	if exp, ok := h.store.TokenExpiry(); ok {
		resp["tokenExpiresAt"] = exp
	}
	c.JSON(http.StatusOK, resp)
}

// RequireAuth guards protected routes; unauthenticated callers are redirected
// to the landing page.
func (h *Handler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.store.IsAuthenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    "authentication required",
				"redirect": "/",
			})
			return
		}
		c.Next()
	}
}
