package pipeline

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisFeed publishes enriched records to a Redis channel so external
// consumers can follow the live stream without a websocket.
type RedisFeed struct {
	client  *redis.Client
	channel string
}

// NewRedisFeed connects to Redis at the given URL and verifies the
// connection.
func NewRedisFeed(ctx context.Context, url, channel string) (*RedisFeed, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisFeed{client: client, channel: channel}, nil
}

// PublishLive sends one serialized record to the feed channel.
func (f *RedisFeed) PublishLive(ctx context.Context, payload []byte) error {
	return f.client.Publish(ctx, f.channel, payload).Err()
}

// Close releases the Redis connection.
func (f *RedisFeed) Close() error {
	return f.client.Close()
}
