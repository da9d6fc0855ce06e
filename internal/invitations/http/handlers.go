package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tracklight-app/tracklight-backend/internal/auth"
	"github.com/tracklight-app/tracklight-backend/internal/invitations/domain"
	"github.com/tracklight-app/tracklight-backend/internal/invitations/service"
	projdomain "github.com/tracklight-app/tracklight-backend/internal/projects/domain"
	"github.com/tracklight-app/tracklight-backend/internal/store"
)

type Handler struct {
	invitations *service.InvitationService
}

func NewHandler(invitations *service.InvitationService) *Handler {
	return &Handler{invitations: invitations}
}

// Register attaches invitation routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.listMine)
	rg.POST("/:id/accept", h.accept)
	rg.POST("/:id/reject", h.reject)
}

// RegisterProjectSubroutes attaches the invite endpoint under the projects
// group.
func (h *Handler) RegisterProjectSubroutes(rg *gin.RouterGroup) {
	rg.POST("/:id/invitations", h.invite)
}

type inviteReq struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h *Handler) invite(c *gin.Context) {
	var req inviteReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	actor := actorFrom(c)
	id, err := h.invitations.Invite(c.Request.Context(), c.Param("id"), req.Email, req.Role, actor)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "invitationId": id})
}

func (h *Handler) listMine(c *gin.Context) {
	items, err := h.invitations.ListMine(c.Request.Context(), actorFrom(c))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "invitations": items})
}

func (h *Handler) accept(c *gin.Context) {
	if err := h.invitations.Accept(c.Request.Context(), c.Param("id"), actorFrom(c)); err != nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) reject(c *gin.Context) {
	if err := h.invitations.Reject(c.Request.Context(), c.Param("id"), actorFrom(c)); err != nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func actorFrom(c *gin.Context) service.Actor {
	p := auth.CurrentPrincipal(c)
	return service.Actor{UID: p.UID, Email: p.Email, DisplayName: p.DisplayName}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, projdomain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrAlreadyMember),
		errors.Is(err, domain.ErrDuplicateInvitation),
		errors.Is(err, domain.ErrAlreadyProcessed):
		return http.StatusConflict
	case errors.Is(err, store.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
