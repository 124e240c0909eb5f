package repositories_test

import (
	"context"
	"testing"
	"time"

	"payments-api/internal/adapters/persistence/models"
	"payments-api/internal/adapters/persistence/repositories"
	"payments-api/internal/core/domain"
	"payments-api/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()
	repo := repositories.NewUserRepository(db)
	u, err := repo.Create(context.Background(), &domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		Role:         domain.RoleUser,
	}, nil)
	require.NoError(t, err)
	return u
}

func newPayment(t *testing.T, owner *uint, created time.Time) *domain.Payment {
	t.Helper()
	p, err := domain.NewPayment(decimal.RequireFromString("50.00"), "USD", "card", owner, created)
	require.NoError(t, err)
	return p
}

func TestPaymentCreateAndLookup(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := repositories.NewPaymentRepository(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	created, err := repo.Create(ctx, newPayment(t, &alice.ID, time.Now()), func(p *domain.Payment) []*domain.OutboxEvent {
		return []*domain.OutboxEvent{{Key: "k-1", Kind: domain.KindPaymentCreated, AggregateID: p.ID, Recipient: "alice@example.com"}}
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := repo.GetByIDForOwner(ctx, created.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("50")))
	assert.Equal(t, domain.StatusPending, got.Status)

	_, err = repo.GetByIDForOwner(ctx, created.ID, bob.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrPaymentNotFound)

	var events []models.OutboxEvent
	require.NoError(t, db.Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, created.ID, events[0].AggregateID)
	assert.Equal(t, string(domain.OutboxPending), events[0].Status)
}

func TestPaymentListByOwnerNewestFirst(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := repositories.NewPaymentRepository(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	base := time.Now().Add(-time.Hour)
	first, err := repo.Create(ctx, newPayment(t, &alice.ID, base), nil)
	require.NoError(t, err)
	second, err := repo.Create(ctx, newPayment(t, &alice.ID, base.Add(time.Minute)), nil)
	require.NoError(t, err)
	_, err = repo.Create(ctx, newPayment(t, &bob.ID, base), nil)
	require.NoError(t, err)

	list, err := repo.ListByOwner(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	empty, err := repo.ListByOwner(ctx, 12345)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestPaymentTransitionIsCompareAndSwap(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := repositories.NewPaymentRepository(db)

	created, err := repo.Create(ctx, newPayment(t, nil, time.Now()), nil)
	require.NoError(t, err)

	approved, err := created.Resolve(true, time.Now())
	require.NoError(t, err)

	calls := 0
	events := func(p *domain.Payment) []*domain.OutboxEvent {
		calls++
		return []*domain.OutboxEvent{{Key: "evt-" + string(p.Status), Kind: domain.KindPaymentProcessed, AggregateID: p.ID, Recipient: "x@example.com"}}
	}

	got, applied, err := repo.Transition(ctx, approved, events)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, domain.StatusApproved, got.Status)

	// A stale writer loses and sees the committed row.
	rejected, err := created.Resolve(false, time.Now())
	require.NoError(t, err)
	got, applied, err = repo.Transition(ctx, rejected, events)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, domain.StatusApproved, got.Status)
	assert.NotNil(t, got.ProcessedAt)

	assert.Equal(t, 1, calls)

	var count int64
	require.NoError(t, db.Model(&models.OutboxEvent{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestPaymentTransitionMissingRow(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repositories.NewPaymentRepository(db)

	p := newPayment(t, nil, time.Now())
	p.ID = 404
	next, err := p.Resolve(true, time.Now())
	require.NoError(t, err)

	_, _, err = repo.Transition(context.Background(), next, nil)
	assert.ErrorIs(t, err, domain.ErrPaymentNotFound)
}

func TestPaymentDelete(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := repositories.NewPaymentRepository(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	created, err := repo.Create(ctx, newPayment(t, &alice.ID, time.Now()), nil)
	require.NoError(t, err)

	n, err := repo.DeleteForOwner(ctx, created.ID, bob.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = repo.DeleteForOwner(ctx, created.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}
