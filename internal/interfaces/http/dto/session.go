package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/nhom-do-an/ocm-admin-sub002/internal/domain/audit"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/domain/session"
)

// Navigation modes sent to client-side navigations
const (
	NavigateSoft = "soft"
	NavigateHard = "hard"
)

// Navigation tells a client-side router where to go instead of a redirect
type Navigation struct {
	Mode string `json:"mode"`
	Path string `json:"path,omitempty"`
	URL  string `json:"url,omitempty"`
}

// NavigationResponse is sent to client-side navigations in place of a
// redirect or the loading page
type NavigationResponse struct {
	Loading  bool        `json:"loading,omitempty"`
	Navigate *Navigation `json:"navigate,omitempty"`
}

// UserResponse is the signed-in user as exposed to the dashboard
type UserResponse struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar,omitempty"`
	StoreID     int64  `json:"store_id,omitempty"`
	DomainStore string `json:"domain_store"`
}

// PublicationResponse is one sales channel of the store
type PublicationResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ChannelID int64  `json:"channel_id"`
	Channel   string `json:"channel,omitempty"`
}

// SessionResponse is the session snapshot of the current mount
type SessionResponse struct {
	Loading       bool                  `json:"loading"`
	Authenticated bool                  `json:"authenticated"`
	StoreExists   bool                  `json:"store_exists"`
	User          *UserResponse         `json:"user"`
	Publications  []PublicationResponse `json:"publications"`
	Navigate      *Navigation           `json:"navigate,omitempty"`
}

// ToSessionResponse converts a snapshot
func ToSessionResponse(s session.Snapshot) SessionResponse {
	resp := SessionResponse{
		Loading:      s.Loading,
		StoreExists:  s.StoreExists,
		Publications: make([]PublicationResponse, 0, len(s.Publications)),
	}
	if s.User != nil {
		resp.Authenticated = true
		resp.User = &UserResponse{
			ID:          s.User.ID,
			Email:       s.User.Email,
			DisplayName: s.User.DisplayName(),
			Avatar:      s.User.Avatar,
			StoreID:     s.User.StoreID,
			DomainStore: s.User.DomainStore,
		}
	}
	for _, p := range s.Publications {
		resp.Publications = append(resp.Publications, PublicationResponse(p))
	}
	return resp
}

// AuthEventResponse is one entry of the auth event log
type AuthEventResponse struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"`
	Host      string    `json:"host"`
	StoreSlug string    `json:"store_slug,omitempty"`
	Email     string    `json:"email,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthEventListRequest holds the query of the auth event list
type AuthEventListRequest struct {
	Kind  string `form:"kind" binding:"omitempty,oneof=bootstrap_failed login_succeeded login_failed logout"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=500"`
}

// ToAuthEventResponses converts domain events
func ToAuthEventResponses(events []audit.AuthEvent) []AuthEventResponse {
	out := make([]AuthEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, AuthEventResponse{
			ID:        e.ID,
			Kind:      string(e.Kind),
			Host:      e.Host,
			StoreSlug: e.StoreSlug,
			Email:     e.Email,
			RequestID: e.RequestID,
			Detail:    e.Detail,
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}
