package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"payments-api/internal/config"
	"payments-api/internal/core/domain"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// store is the subset of redis.Cmdable the cache uses
type store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

const defaultTTL = 5 * time.Minute

// cachedPayment is the JSON form of a payment held in redis
type cachedPayment struct {
	ID          uint            `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Method      string          `json:"method"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	ProcessedAt *time.Time      `json:"processed_at"`
	OwnerID     *uint           `json:"owner_id"`
}

// PaymentListCache caches owner listings in redis. Each owner has a
// generation counter; listings are stored under the generation they were
// read at and Invalidate bumps the counter. Redis errors are logged and
// treated as misses; the database stays authoritative.
type PaymentListCache struct {
	rdb store
	ttl time.Duration
}

// NewRedisClient connects to redis and verifies the connection
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

// NewPaymentListCache creates a cache over rdb. Superseded listings are
// left to expire, so a non-positive ttl falls back to the default.
func NewPaymentListCache(rdb store, ttl time.Duration) *PaymentListCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &PaymentListCache{rdb: rdb, ttl: ttl}
}

func genKey(ownerID uint) string {
	return fmt.Sprintf("payments:%d:gen", ownerID)
}

func listKey(ownerID uint, gen int64) string {
	return fmt.Sprintf("payments:%d:%d", ownerID, gen)
}

// Get returns the cached listing for ownerID and the generation it belongs to
func (c *PaymentListCache) Get(ctx context.Context, ownerID uint) ([]*domain.Payment, int64, bool) {
	gen, err := c.rdb.Get(ctx, genKey(ownerID)).Int64()
	switch {
	case errors.Is(err, redis.Nil):
		gen = 0
	case err != nil:
		log.Printf("⚠️ Redis get %s failed: %v", genKey(ownerID), err)
		return nil, -1, false
	}

	key := listKey(ownerID, gen)
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("⚠️ Redis get %s failed: %v", key, err)
		}
		return nil, gen, false
	}

	var rows []cachedPayment
	if err := json.Unmarshal(raw, &rows); err != nil {
		log.Printf("⚠️ Redis payload %s is corrupt: %v", key, err)
		return nil, gen, false
	}

	payments := make([]*domain.Payment, 0, len(rows))
	for _, r := range rows {
		p := &domain.Payment{
			ID:          r.ID,
			Amount:      r.Amount,
			Currency:    r.Currency,
			Method:      r.Method,
			Status:      domain.PaymentStatus(r.Status),
			CreatedAt:   r.CreatedAt,
			ProcessedAt: r.ProcessedAt,
			OwnerID:     r.OwnerID,
		}
		if !p.Status.Valid() || !p.OwnedBy(ownerID) {
			log.Printf("⚠️ Redis payload %s holds a foreign or unknown payment #%d", key, r.ID)
			return nil, gen, false
		}
		payments = append(payments, p)
	}
	return payments, gen, true
}

// Set stores the listing for ownerID under gen. A listing from an older
// generation lands under a key that is never read again.
func (c *PaymentListCache) Set(ctx context.Context, ownerID uint, gen int64, payments []*domain.Payment) {
	if gen < 0 {
		return
	}

	rows := make([]cachedPayment, 0, len(payments))
	for _, p := range payments {
		rows = append(rows, cachedPayment{
			ID:          p.ID,
			Amount:      p.Amount,
			Currency:    p.Currency,
			Method:      p.Method,
			Status:      string(p.Status),
			CreatedAt:   p.CreatedAt,
			ProcessedAt: p.ProcessedAt,
			OwnerID:     p.OwnerID,
		})
	}

	key := listKey(ownerID, gen)
	data, err := json.Marshal(rows)
	if err != nil {
		log.Printf("⚠️ Redis encode %s failed: %v", key, err)
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("⚠️ Redis set %s failed: %v", key, err)
	}
}

// Invalidate moves ownerID to a new generation
func (c *PaymentListCache) Invalidate(ctx context.Context, ownerID uint) {
	if err := c.rdb.Incr(ctx, genKey(ownerID)).Err(); err != nil {
		log.Printf("⚠️ Redis incr %s failed: %v", genKey(ownerID), err)
	}
}
