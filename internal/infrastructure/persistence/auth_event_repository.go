package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/domain/audit"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/domain/shared"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAuthEventRepository implements audit.Repository using GORM
type GormAuthEventRepository struct {
	db *gorm.DB
}

var _ audit.Repository = (*GormAuthEventRepository)(nil)

// NewGormAuthEventRepository creates a new GormAuthEventRepository
func NewGormAuthEventRepository(db *gorm.DB) *GormAuthEventRepository {
	return &GormAuthEventRepository{db: db}
}

// Record appends an event. Missing ids and timestamps are filled in.
func (r *GormAuthEventRepository) Record(ctx context.Context, event *audit.AuthEvent) error {
	if event == nil {
		return errors.New("auth event cannot be nil")
	}
	if !event.Kind.Valid() {
		return shared.ErrInvalidInput.WithMessage(fmt.Sprintf("unknown auth event kind %q", event.Kind))
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}

	model := models.AuthEventModelFromDomain(event)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to record auth event: %w", err)
	}
	event.CreatedAt = model.CreatedAt
	return nil
}

// FindRecent returns the newest events of one host, newest first
func (r *GormAuthEventRepository) FindRecent(ctx context.Context, filter audit.Filter) ([]audit.AuthEvent, error) {
	filter = filter.Normalize()
	if filter.Host == "" {
		return nil, shared.ErrInvalidInput.WithMessage("host is required")
	}

	query := r.db.WithContext(ctx).Model(&models.AuthEventModel{}).Where("host = ?", filter.Host)
	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}

	var rows []models.AuthEventModel
	if err := query.Order("created_at DESC").Limit(filter.Limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find auth events: %w", err)
	}

	events := make([]audit.AuthEvent, len(rows))
	for i := range rows {
		events[i] = rows[i].ToDomain()
	}
	return events, nil
}
