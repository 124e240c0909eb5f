package repositories

import (
	"context"
	"time"

	"payments-api/internal/core/domain"
)

// UserEvents builds the outbox events recorded with a new user
type UserEvents func(u *domain.User) []*domain.OutboxEvent

// PaymentEvents builds the outbox events recorded with a payment change
type PaymentEvents func(p *domain.Payment) []*domain.OutboxEvent

// UserRepository defines user repository interface
type UserRepository interface {
	// Create inserts the user and the events in one transaction
	Create(ctx context.Context, user *domain.User, events UserEvents) (*domain.User, error)
	GetByID(ctx context.Context, id uint) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// PaymentRepository defines payment repository interface
type PaymentRepository interface {
	// Create inserts the payment and the events in one transaction
	Create(ctx context.Context, payment *domain.Payment, events PaymentEvents) (*domain.Payment, error)
	GetByID(ctx context.Context, id uint) (*domain.Payment, error)
	GetByIDForOwner(ctx context.Context, id, ownerID uint) (*domain.Payment, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]*domain.Payment, error)
	// Transition stores next only while the row is still PENDING.
	// It reports false with the committed row when another writer won.
	Transition(ctx context.Context, next *domain.Payment, events PaymentEvents) (*domain.Payment, bool, error)
	Delete(ctx context.Context, id uint) (int64, error)
	DeleteForOwner(ctx context.Context, id, ownerID uint) (int64, error)
}

// OutboxRepository defines outbox repository interface
type OutboxRepository interface {
	ListDeliverable(ctx context.Context, limit, maxAttempts int) ([]*domain.OutboxEvent, error)
	MarkSent(ctx context.Context, id uint, at time.Time) error
	MarkFailed(ctx context.Context, id uint, reason string) error
	PurgeSent(ctx context.Context, before time.Time) (int64, error)
}
