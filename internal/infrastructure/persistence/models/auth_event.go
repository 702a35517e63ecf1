package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/domain/audit"
)

// AuthEventModel is the persistence model for audit.AuthEvent.
// Rows are append-only.
type AuthEventModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Kind      audit.Kind `gorm:"type:varchar(32);not null;index"`
	Host      string     `gorm:"type:varchar(255);not null;index:idx_auth_events_host_created_at,priority:1"`
	StoreSlug string     `gorm:"type:varchar(100);not null"`
	Email     string     `gorm:"type:varchar(255);not null"`
	RequestID string     `gorm:"type:varchar(64);not null"`
	Detail    string     `gorm:"type:text;not null"`
	CreatedAt time.Time  `gorm:"not null;index:idx_auth_events_host_created_at,priority:2"`
}

// TableName returns the table name for GORM
func (AuthEventModel) TableName() string {
	return "auth_events"
}

// ToDomain converts the model to a domain AuthEvent
func (m *AuthEventModel) ToDomain() audit.AuthEvent {
	return audit.AuthEvent{
		ID:        m.ID,
		Kind:      m.Kind,
		Host:      m.Host,
		StoreSlug: m.StoreSlug,
		Email:     m.Email,
		RequestID: m.RequestID,
		Detail:    m.Detail,
		CreatedAt: m.CreatedAt.UTC(),
	}
}

// AuthEventModelFromDomain creates a model from a domain AuthEvent
func AuthEventModelFromDomain(e *audit.AuthEvent) *AuthEventModel {
	return &AuthEventModel{
		ID:        e.ID,
		Kind:      e.Kind,
		Host:      e.Host,
		StoreSlug: e.StoreSlug,
		Email:     e.Email,
		RequestID: e.RequestID,
		Detail:    e.Detail,
		CreatedAt: e.CreatedAt,
	}
}
