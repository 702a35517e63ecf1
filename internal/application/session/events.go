package session

import (
	"context"
	"fmt"

	"github.com/nhom-do-an/ocm-admin-sub002/internal/domain/audit"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/domain/shared"
)

// EventQuery reads the auth event log of a store host
type EventQuery struct {
	repo audit.Repository
}

// NewEventQuery creates an EventQuery
func NewEventQuery(repo audit.Repository) *EventQuery {
	return &EventQuery{repo: repo}
}

// RecentInput selects events for Recent
type RecentInput struct {
	Host  string
	Kind  string
	Limit int
}

// Recent returns the newest events recorded on input.Host
func (q *EventQuery) Recent(ctx context.Context, input RecentInput) ([]audit.AuthEvent, error) {
	if input.Host == "" {
		return nil, shared.ErrInvalidInput.WithMessage("host is required")
	}
	kind := audit.Kind(input.Kind)
	if kind != "" && !kind.Valid() {
		return nil, shared.ErrInvalidInput.WithMessage(fmt.Sprintf("unknown event kind %q", input.Kind))
	}

	events, err := q.repo.FindRecent(ctx, audit.Filter{Host: input.Host, Kind: kind, Limit: input.Limit}.Normalize())
	if err != nil {
		return nil, fmt.Errorf("find recent auth events: %w", err)
	}
	return events, nil
}
