package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	sessionapp "github.com/nhom-do-an/ocm-admin-sub002/internal/application/session"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/domain/audit"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/interfaces/http/dto"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/interfaces/http/middleware"
)

// AuthEventReader lists the auth events of a store host
type AuthEventReader interface {
	Recent(ctx context.Context, input sessionapp.RecentInput) ([]audit.AuthEvent, error)
}

// AuthEventHandler serves the auth event log of the current store
type AuthEventHandler struct {
	BaseHandler
	events AuthEventReader
}

// NewAuthEventHandler creates an AuthEventHandler
func NewAuthEventHandler(events AuthEventReader) *AuthEventHandler {
	return &AuthEventHandler{events: events}
}

// List returns the newest events recorded on the request host, optionally
// filtered by kind
func (h *AuthEventHandler) List(c *gin.Context) {
	var req dto.AuthEventListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		if details := middleware.ValidationDetails(err); details != nil {
			h.ValidationError(c, details)
			return
		}
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	events, err := h.events.Recent(c.Request.Context(), sessionapp.RecentInput{
		Host:  c.Request.Host,
		Kind:  req.Kind,
		Limit: req.Limit,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	limit := audit.Filter{Limit: req.Limit}.Normalize().Limit
	h.SuccessList(c, dto.ToAuthEventResponses(events), len(events), limit)
}
