package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tracklight-app/tracklight-backend/internal/auth"
	"github.com/tracklight-app/tracklight-backend/internal/store"
	"github.com/tracklight-app/tracklight-backend/internal/users/domain"
	"github.com/tracklight-app/tracklight-backend/internal/users/service"
)

type Handler struct {
	users *service.UserService
}

func NewHandler(users *service.UserService) *Handler {
	return &Handler{users: users}
}

// Register attaches user routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/sync", h.sync)
	rg.GET("/me", h.me)
	rg.PUT("/me/profile", h.completeProfile)
	rg.PUT("/me/dashboard-project", h.setDashboardProject)
}

func (h *Handler) sync(c *gin.Context) {
	p := auth.CurrentPrincipal(c)
	u, err := h.users.Sync(c.Request.Context(), service.SyncInput{
		UID:         p.UID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		PhotoURL:    p.PhotoURL,
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": u})
}

func (h *Handler) me(c *gin.Context) {
	u, err := h.users.Get(c.Request.Context(), auth.UserFirebaseUID(c))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": u})
}

type profileReq struct {
	DisplayName string `json:"displayName"`
}

func (h *Handler) completeProfile(c *gin.Context) {
	var req profileReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.DisplayName) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	uid := auth.UserFirebaseUID(c)
	if err := h.users.CompleteProfile(c.Request.Context(), uid, strings.TrimSpace(req.DisplayName)); err != nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type dashboardReq struct {
	ProjectID string `json:"projectId"`
}

func (h *Handler) setDashboardProject(c *gin.Context) {
	var req dashboardReq
	if err := c.ShouldBindJSON(&req); err != nil || req.ProjectID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	uid := auth.UserFirebaseUID(c)
	if err := h.users.SetDashboardProject(c.Request.Context(), uid, req.ProjectID); err != nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
