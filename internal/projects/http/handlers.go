package http

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tracklight-app/tracklight-backend/internal/auth"
	"github.com/tracklight-app/tracklight-backend/internal/projects/domain"
	"github.com/tracklight-app/tracklight-backend/internal/projects/repository"
	"github.com/tracklight-app/tracklight-backend/internal/projects/service"
	"github.com/tracklight-app/tracklight-backend/internal/store"
	userdomain "github.com/tracklight-app/tracklight-backend/internal/users/domain"
)

type Handler struct {
	projects *service.ProjectService
	team     *service.TeamService
	watchers *service.WatcherManager
	cache    *repository.TeamCache
}

func NewHandler(projects *service.ProjectService, team *service.TeamService, watchers *service.WatcherManager, cache *repository.TeamCache) *Handler {
	return &Handler{projects: projects, team: team, watchers: watchers, cache: cache}
}

// Register attaches project routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.GET("/:id", h.get)
	rg.GET("/:id/team", h.listTeam)
	rg.GET("/:id/activity", h.memberActivity)
}

type createReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	uid := auth.UserFirebaseUID(c)
	p, err := h.projects.Create(c.Request.Context(), uid, strings.TrimSpace(req.Name), req.Description)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p})
}

func (h *Handler) list(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)
	items, err := h.projects.ListMine(c.Request.Context(), uid)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.projects.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) listTeam(c *gin.Context) {
	projectID := c.Param("id")

	// Keep the derived list fresh from here on.
	h.watchers.Ensure(projectID)

	if members, ok, err := h.cache.GetTeam(c.Request.Context(), projectID); err == nil && ok {
		c.JSON(http.StatusOK, gin.H{"ok": true, "team": members})
		return
	} else if err != nil {
		log.Printf("PROJECTS: team cache read failed: %v", err)
	}

	members, err := h.team.ListTeam(c.Request.Context(), projectID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
		return
	}

	if err := h.cache.SetTeam(c.Request.Context(), projectID, members); err != nil {
		log.Printf("PROJECTS: team cache write failed: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "team": members})
}

func (h *Handler) memberActivity(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)
	activity, err := h.team.MemberActivity(c.Request.Context(), c.Param("id"), uid)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "activity": activity})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, userdomain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, store.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
