package services

import (
	"context"
	"errors"
	"log"
	"time"

	"payments-api/internal/adapters/persistence/repositories"
	"payments-api/internal/config"
	"payments-api/internal/core/domain"

	"github.com/shopspring/decimal"
)

// CreatePaymentInput represents payment creation input
type CreatePaymentInput struct {
	Amount   decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Currency string          `json:"currency" validate:"required"`
	Method   string          `json:"method" validate:"required"`
}

// PaymentService owns the payment lifecycle: PENDING -> APPROVED | REJECTED.
// Callers pass the acting user explicitly.
type PaymentService struct {
	paymentRepo       repositories.PaymentRepository
	userRepo          repositories.UserRepository
	gateway           Gateway
	cache             PaymentListCache
	outbox            Kicker
	locks             *keyedMutex
	ownerScopedDelete bool
	now               func() time.Time
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo repositories.PaymentRepository,
	userRepo repositories.UserRepository,
	gateway Gateway,
	cache PaymentListCache,
	outbox Kicker,
	cfg config.PaymentsConfig,
) *PaymentService {
	if cache == nil {
		cache = NopCache{}
	}
	if outbox == nil {
		outbox = nopKicker{}
	}
	return &PaymentService{
		paymentRepo:       paymentRepo,
		userRepo:          userRepo,
		gateway:           gateway,
		cache:             cache,
		outbox:            outbox,
		locks:             newKeyedMutex(),
		ownerScopedDelete: cfg.OwnerScopedDelete,
		now:               time.Now,
	}
}

// Create validates and stores a new PENDING payment. ownerID may be nil
// for records created without an authenticated owner.
func (s *PaymentService) Create(ctx context.Context, input *CreatePaymentInput, ownerID *uint) (*domain.Payment, error) {
	// 1. Validate and build the record
	payment, err := domain.NewPayment(input.Amount, input.Currency, input.Method, ownerID, s.now())
	if err != nil {
		return nil, err
	}

	// 2. Resolve the owner for the confirmation
	owner, err := s.owner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	var events repositories.PaymentEvents
	if owner != nil {
		events = func(p *domain.Payment) []*domain.OutboxEvent {
			return []*domain.OutboxEvent{PaymentCreatedNotification(owner, p)}
		}
	}

	// 3. Persist payment and notification together
	created, err := s.paymentRepo.Create(ctx, payment, events)
	if err != nil {
		return nil, err
	}

	// 4. Post-commit
	s.afterCommit(ctx, created.OwnerID, events != nil)

	log.Printf("✅ Payment created: #%d %s %s (%s)", created.ID, created.Amount.StringFixed(2), created.Currency, created.Method)
	return created, nil
}

// Process runs a PENDING payment through the gateway. A payment that is
// already APPROVED or REJECTED is returned as is and the gateway is not
// called again.
func (s *PaymentService) Process(ctx context.Context, id uint) (*domain.Payment, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	// 1. Load current state
	current, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status.IsTerminal() {
		return current, nil
	}

	// 2. Ask the gateway
	approved, err := s.gateway.Evaluate(ctx, current.Amount, current.Method)
	if err != nil {
		log.Printf("❌ Gateway failed for payment #%d: %v", id, err)
		return nil, domain.UpstreamError("gateway", err)
	}

	next, err := current.Resolve(approved, s.now())
	if err != nil {
		return nil, err
	}

	// 3. Resolve the owner for the result notification
	owner, err := s.owner(ctx, current.OwnerID)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	var events repositories.PaymentEvents
	if owner != nil {
		events = func(p *domain.Payment) []*domain.OutboxEvent {
			return []*domain.OutboxEvent{PaymentProcessedNotification(owner, p)}
		}
	}

	// 4. Guarded transition: only a PENDING row is updated
	result, applied, err := s.paymentRepo.Transition(ctx, next, events)
	if err != nil {
		return nil, err
	}
	if !applied {
		log.Printf("⚠️ Payment #%d already processed elsewhere (%s)", id, result.Status)
		return result, nil
	}

	// 5. Post-commit
	s.afterCommit(ctx, result.OwnerID, events != nil)

	log.Printf("✅ Payment processed: #%d -> %s", result.ID, result.Status)
	return result, nil
}

// ProcessForOwner processes a payment only when ownerID owns it
func (s *PaymentService) ProcessForOwner(ctx context.Context, id, ownerID uint) (*domain.Payment, error) {
	if _, err := s.paymentRepo.GetByIDForOwner(ctx, id, ownerID); err != nil {
		return nil, err
	}
	return s.Process(ctx, id)
}

// GetByID gets a payment regardless of owner
func (s *PaymentService) GetByID(ctx context.Context, id uint) (*domain.Payment, error) {
	return s.paymentRepo.GetByID(ctx, id)
}

// GetByIDForOwner gets a payment owned by ownerID. Foreign payments are
// reported as not found.
func (s *PaymentService) GetByIDForOwner(ctx context.Context, id, ownerID uint) (*domain.Payment, error) {
	return s.paymentRepo.GetByIDForOwner(ctx, id, ownerID)
}

// ListForOwner lists the owner's payments, newest first. The cache
// generation is read before the store so that a write committed in
// between invalidates the listing stored here.
func (s *PaymentService) ListForOwner(ctx context.Context, ownerID uint) ([]*domain.Payment, error) {
	cached, gen, ok := s.cache.Get(ctx, ownerID)
	if ok {
		return cached, nil
	}

	payments, err := s.paymentRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, ownerID, gen, payments)
	return payments, nil
}

// Delete removes a payment. Deleting an unknown id is not an error.
// With owner-scoped deletes, a payment owned by someone else is left
// untouched and the call still succeeds.
func (s *PaymentService) Delete(ctx context.Context, id, ownerID uint) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	if s.ownerScopedDelete {
		n, err := s.paymentRepo.DeleteForOwner(ctx, id, ownerID)
		if err != nil {
			return err
		}
		if n > 0 {
			s.cache.Invalidate(ctx, ownerID)
			log.Printf("🗑️ Payment deleted: #%d", id)
		}
		return nil
	}

	existing, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	n, err := s.paymentRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		if existing.OwnerID != nil {
			s.cache.Invalidate(ctx, *existing.OwnerID)
		}
		log.Printf("🗑️ Payment deleted: #%d (unscoped, by user %d)", id, ownerID)
	}
	return nil
}

// owner loads the user behind ownerID; nil ownerID yields nil
func (s *PaymentService) owner(ctx context.Context, ownerID *uint) (*domain.User, error) {
	if ownerID == nil {
		return nil, nil
	}
	return s.userRepo.GetByID(ctx, *ownerID)
}

// afterCommit runs once the store transaction is durable
func (s *PaymentService) afterCommit(ctx context.Context, ownerID *uint, notified bool) {
	if ownerID != nil {
		s.cache.Invalidate(ctx, *ownerID)
	}
	if notified {
		s.outbox.Kick()
	}
}
