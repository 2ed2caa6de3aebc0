package channel

import (
	"context"
	"encoding/json"
	"fmt"

	"santai/models"

	"github.com/go-redis/redis/v8"
)

// RedisChannel publishes operator alerts on a pub/sub channel consumed by
// the admin dashboard's live feed. Second path next to FCM: either one
// alone is enough to surface the alert.
type RedisChannel struct {
	Client      *redis.Client
	ChannelName string
}

func NewRedisChannel(client *redis.Client, channelName string) (*RedisChannel, error) {
	if client == nil {
		return nil, fmt.Errorf("redis channel initialization error: client is nil")
	}
	if channelName == "" {
		channelName = "ops:alerts"
	}
	return &RedisChannel{Client: client, ChannelName: channelName}, nil
}

func (c *RedisChannel) Name() string { return "redis" }

// Send publishes the alert as JSON.
func (c *RedisChannel) Send(ctx context.Context, n models.AdminNotification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("RedisChannel: failed to marshal alert %s: %w", n.ID, err)
	}
	if err := c.Client.Publish(ctx, c.ChannelName, payload).Err(); err != nil {
		return fmt.Errorf("RedisChannel: failed to publish alert %s: %w", n.ID, err)
	}
	return nil
}
