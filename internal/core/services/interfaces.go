package services

import (
	"context"

	"payments-api/internal/core/domain"

	"github.com/shopspring/decimal"
)

// Gateway decides the outcome of a payment
type Gateway interface {
	Evaluate(ctx context.Context, amount decimal.Decimal, method string) (bool, error)
}

// Notifier delivers a message to an address. Delivery is best-effort.
type Notifier interface {
	Notify(ctx context.Context, msg domain.Notification) error
}

// PaymentListCache caches an owner's payment listing. Get reports the
// listing generation it looked at and Set stores under that generation
// only, so a listing read before an Invalidate is never served after it.
// A negative generation means unknown and makes Set a no-op.
type PaymentListCache interface {
	Get(ctx context.Context, ownerID uint) (payments []*domain.Payment, gen int64, ok bool)
	Set(ctx context.Context, ownerID uint, gen int64, payments []*domain.Payment)
	Invalidate(ctx context.Context, ownerID uint)
}

// Kicker is signalled after a commit that recorded outbox events
type Kicker interface {
	Kick()
}

// NopCache is a PaymentListCache that never hits
type NopCache struct{}

func (NopCache) Get(context.Context, uint) ([]*domain.Payment, int64, bool) { return nil, -1, false }
func (NopCache) Set(context.Context, uint, int64, []*domain.Payment)        {}
func (NopCache) Invalidate(context.Context, uint)                           {}

type nopKicker struct{}

func (nopKicker) Kick() {}
