package models

import (
	"time"

	"payments-api/internal/core/domain"
)

// OutboxEvent represents outbox_events table
type OutboxEvent struct {
	ID          uint       `gorm:"primaryKey"`
	Key         string     `gorm:"column:event_key;size:36;uniqueIndex;not null"`
	Kind        string     `gorm:"size:40;not null"`
	AggregateID uint       `gorm:"index"`
	Recipient   string     `gorm:"size:100;not null"`
	Subject     string     `gorm:"size:200"`
	Body        string     `gorm:"type:text"`
	Status      string     `gorm:"size:20;not null;index;default:'PENDING'"`
	Attempts    int        `gorm:"not null;default:0"`
	LastError   string     `gorm:"size:500"`
	CreatedAt   time.Time  `gorm:"autoCreateTime;index"`
	SentAt      *time.Time `gorm:"index"`
}

func (OutboxEvent) TableName() string {
	return "outbox_events"
}

// ToDomain converts the row into a domain event
func (e *OutboxEvent) ToDomain() *domain.OutboxEvent {
	return &domain.OutboxEvent{
		ID:          e.ID,
		Key:         e.Key,
		Kind:        domain.OutboxKind(e.Kind),
		AggregateID: e.AggregateID,
		Recipient:   e.Recipient,
		Subject:     e.Subject,
		Body:        e.Body,
		Status:      domain.OutboxStatus(e.Status),
		Attempts:    e.Attempts,
		LastError:   e.LastError,
		CreatedAt:   e.CreatedAt,
		SentAt:      e.SentAt,
	}
}

// OutboxEventFromDomain builds a row from a domain event
func OutboxEventFromDomain(e *domain.OutboxEvent) *OutboxEvent {
	status := string(e.Status)
	if status == "" {
		status = string(domain.OutboxPending)
	}
	return &OutboxEvent{
		ID:          e.ID,
		Key:         e.Key,
		Kind:        string(e.Kind),
		AggregateID: e.AggregateID,
		Recipient:   e.Recipient,
		Subject:     e.Subject,
		Body:        e.Body,
		Status:      status,
		Attempts:    e.Attempts,
		LastError:   e.LastError,
		CreatedAt:   e.CreatedAt,
		SentAt:      e.SentAt,
	}
}
