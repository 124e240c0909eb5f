package repositories

import (
	"context"
	"time"

	"payments-api/internal/adapters/persistence/models"
	"payments-api/internal/core/domain"

	"gorm.io/gorm"
)

const maxErrorLength = 500

// outboxRepository implements OutboxRepository interface
type outboxRepository struct {
	db *gorm.DB
}

// NewOutboxRepository creates a new outbox repository
func NewOutboxRepository(db *gorm.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

// ListDeliverable returns unsent events that still have attempts left, oldest first
func (r *outboxRepository) ListDeliverable(ctx context.Context, limit, maxAttempts int) ([]*domain.OutboxEvent, error) {
	var rows []*models.OutboxEvent
	err := r.db.WithContext(ctx).
		Where("status <> ? AND attempts < ?", string(domain.OutboxSent), maxAttempts).
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	events := make([]*domain.OutboxEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, row.ToDomain())
	}
	return events, nil
}

// MarkSent records a successful delivery
func (r *outboxRepository) MarkSent(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     string(domain.OutboxSent),
			"sent_at":    at,
			"last_error": "",
		}).Error
}

// MarkFailed records a failed delivery attempt
func (r *outboxRepository) MarkFailed(ctx context.Context, id uint, reason string) error {
	if len(reason) > maxErrorLength {
		reason = reason[:maxErrorLength]
	}
	return r.db.WithContext(ctx).Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     string(domain.OutboxFailed),
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": reason,
		}).Error
}

// PurgeSent deletes delivered events older than before
func (r *outboxRepository) PurgeSent(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("status = ? AND sent_at < ?", string(domain.OutboxSent), before).
		Delete(&models.OutboxEvent{})
	return res.RowsAffected, res.Error
}

// insertEvents writes outbox rows inside the caller's transaction
func insertEvents(tx *gorm.DB, events []*domain.OutboxEvent) error {
	if len(events) == 0 {
		return nil
	}

	rows := make([]*models.OutboxEvent, 0, len(events))
	for _, e := range events {
		rows = append(rows, models.OutboxEventFromDomain(e))
	}
	return tx.Create(&rows).Error
}
