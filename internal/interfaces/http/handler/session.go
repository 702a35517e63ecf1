package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/nhom-do-an/ocm-admin-sub002/internal/interfaces/http/dto"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/interfaces/http/middleware"
)

// SessionHandler exposes the mounted session to the client-side dashboard
type SessionHandler struct {
	BaseHandler
}

// NewSessionHandler creates a SessionHandler
func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

// Get returns the snapshot of the session mounted for this request. A
// session still loading after the render wait is reported as such.
func (h *SessionHandler) Get(c *gin.Context) {
	h.Success(c, dto.ToSessionResponse(middleware.GetSnapshot(c)))
}
