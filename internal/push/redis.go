package push

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisChannel publishes events on a per-user Redis pub/sub channel
// ("user.<id>"). Connected frontends subscribe to their own channel, the
// equivalent of joining a per-user room.
type RedisChannel struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewRedisChannel(rdb *redis.Client, logger *zap.Logger) *RedisChannel {
	return &RedisChannel{rdb: rdb, logger: logger}
}

type envelope struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

func (c *RedisChannel) Publish(ctx context.Context, userID int, event string, payload any) error {
	body, err := json.Marshal(envelope{Event: event, Payload: payload})
	if err != nil {
		return err
	}

	channel := fmt.Sprintf("user.%d", userID)
	if err := c.rdb.Publish(ctx, channel, body).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", channel, err)
	}

	c.logger.Debug("Push event published",
		zap.Int("user_id", userID),
		zap.String("event", event),
	)
	return nil
}
