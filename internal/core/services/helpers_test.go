package services

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"payments-api/internal/adapters/persistence/repositories"
	"payments-api/internal/config"
	"payments-api/internal/core/domain"
	"payments-api/internal/pkg/password"
	"payments-api/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	password.Cost = bcrypt.MinCost
	os.Exit(m.Run())
}

type mockGateway struct {
	mu           sync.Mutex
	EvaluateFunc func(ctx context.Context, amount decimal.Decimal, method string) (bool, error)
	calls        int
}

func (m *mockGateway) Evaluate(ctx context.Context, amount decimal.Decimal, method string) (bool, error) {
	m.mu.Lock()
	m.calls++
	fn := m.EvaluateFunc
	m.mu.Unlock()

	if fn == nil {
		return true, nil
	}
	return fn(ctx, amount, method)
}

func (m *mockGateway) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockNotifier struct {
	mu         sync.Mutex
	NotifyFunc func(ctx context.Context, msg domain.Notification) error
	sent       []domain.Notification
}

func (m *mockNotifier) Notify(ctx context.Context, msg domain.Notification) error {
	m.mu.Lock()
	fn := m.NotifyFunc
	m.mu.Unlock()

	if fn != nil {
		if err := fn(ctx, msg); err != nil {
			return err
		}
	}

	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()
	return nil
}

func (m *mockNotifier) Sent() []domain.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Notification(nil), m.sent...)
}

type kickCounter struct {
	n atomic.Int32
}

func (k *kickCounter) Kick() { k.n.Add(1) }

type countingCache struct {
	mu          sync.Mutex
	data        map[uint][]*domain.Payment
	gens        map[uint]int64
	hits        int
	invalidated []uint
}

func newCountingCache() *countingCache {
	return &countingCache{
		data: make(map[uint][]*domain.Payment),
		gens: make(map[uint]int64),
	}
}

func (c *countingCache) Get(_ context.Context, ownerID uint) ([]*domain.Payment, int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	gen := c.gens[ownerID]
	v, ok := c.data[ownerID]
	if ok {
		c.hits++
	}
	return v, gen, ok
}

func (c *countingCache) Set(_ context.Context, ownerID uint, gen int64, payments []*domain.Payment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gens[ownerID] {
		return
	}
	c.data[ownerID] = payments
}

func (c *countingCache) Invalidate(_ context.Context, ownerID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, ownerID)
	c.gens[ownerID]++
	c.invalidated = append(c.invalidated, ownerID)
}

type fixture struct {
	db       *gorm.DB
	users    repositories.UserRepository
	payments repositories.PaymentRepository
	outbox   repositories.OutboxRepository
	gateway  *mockGateway
	kicks    *kickCounter
	cache    *countingCache
	svc      *PaymentService
}

func newFixture(t *testing.T, ownerScopedDelete bool) *fixture {
	t.Helper()
	db := testutil.NewDB(t)

	f := &fixture{
		db:       db,
		users:    repositories.NewUserRepository(db),
		payments: repositories.NewPaymentRepository(db),
		outbox:   repositories.NewOutboxRepository(db),
		gateway:  &mockGateway{},
		kicks:    &kickCounter{},
		cache:    newCountingCache(),
	}
	f.svc = NewPaymentService(f.payments, f.users, f.gateway, f.cache, f.kicks,
		config.PaymentsConfig{OwnerScopedDelete: ownerScopedDelete})
	return f
}

func (f *fixture) user(t *testing.T, username string) *domain.User {
	t.Helper()
	u, err := f.users.Create(context.Background(), &domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         domain.RoleUser,
	}, nil)
	require.NoError(t, err)
	return u
}

func (f *fixture) create(t *testing.T, owner *domain.User) *domain.Payment {
	t.Helper()
	var ownerID *uint
	if owner != nil {
		ownerID = &owner.ID
	}
	p, err := f.svc.Create(context.Background(), &CreatePaymentInput{
		Amount:   decimal.RequireFromString("100.50"),
		Currency: "USD",
		Method:   "CREDIT_CARD",
	}, ownerID)
	require.NoError(t, err)
	return p
}

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
