package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

// DefaultTTL keeps a claim well past any reminder window.
const DefaultTTL = 72 * time.Hour

// RedisLedger claims with SET NX. Keys expire, so it only deduplicates within
// the TTL; use it when several API replicas run the reminder job.
type RedisLedger struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisLedger(rdb *redis.Client, ttl time.Duration) *RedisLedger {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisLedger{rdb: rdb, ttl: ttl}
}

// NewRedisClient parses a redis:// URL.
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

func Key(e Entry) string {
	return fmt.Sprintf("agenda:automation:%s:%s", e.AutomationType, e.AppointmentID)
}

func (l *RedisLedger) Claim(ctx context.Context, e Entry) (bool, error) {
	return l.rdb.SetNX(ctx, Key(e), models.AutomationStatusClaimed, l.ttl).Result()
}

func (l *RedisLedger) MarkSent(ctx context.Context, e Entry) error {
	return l.rdb.Set(ctx, Key(e), models.AutomationStatusSent, l.ttl).Err()
}

// MarkFailed keeps the key: a failed reminder is not retried.
func (l *RedisLedger) MarkFailed(ctx context.Context, e Entry, _ string) error {
	return l.rdb.Set(ctx, Key(e), models.AutomationStatusFailed, l.ttl).Err()
}

// Compile-time check
var _ Ledger = (*RedisLedger)(nil)
