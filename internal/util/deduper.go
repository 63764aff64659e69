package util

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Deduper screens MQ redeliveries so one notification never produces two
// emails. Backed by Redis SETNX with a TTL.
type Deduper struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewDeduper(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Deduper {
	return &Deduper{rdb: rdb, ttl: ttl, logger: logger}
}

// AcquireOnce reports whether this is the first time the given handler
// sees the given notification. When Redis is unavailable it fails open
// and allows processing.
func (d *Deduper) AcquireOnce(ctx context.Context, handler string, notificationID int) bool {
	key := fmt.Sprintf("dedup:%s:%d", handler, notificationID)

	ok, err := d.rdb.SetNX(ctx, key, 1, d.ttl).Result()
	if err != nil {
		if d.logger != nil {
			d.logger.Warn("Redis dedup check failed, allowing processing",
				zap.String("handler", handler),
				zap.Int("notification_id", notificationID),
				zap.Error(err),
			)
		}
		return true
	}

	if !ok && d.logger != nil {
		d.logger.Info("Skipped duplicated event",
			zap.String("handler", handler),
			zap.Int("notification_id", notificationID),
			zap.String("dedup_key", key),
		)
	}

	return ok
}
