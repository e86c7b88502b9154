package realtime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/spendwise/backend/internal/application/adapter"
)

const redisChannelPrefix = "expenses:changed:"

// RedisNotifier fans out change signals through Redis pub/sub so that every
// API instance sees writes made by the others.
type RedisNotifier struct {
	client *redis.Client
}

// NewRedisNotifier creates a notifier on top of an existing client.
func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

var _ adapter.ChangeNotifier = (*RedisNotifier)(nil)

func redisChannel(userID string) string {
	return redisChannelPrefix + userID
}

// Publish signals every subscriber of userID on any instance.
func (n *RedisNotifier) Publish(ctx context.Context, userID string) error {
	if err := n.client.Publish(ctx, redisChannel(userID), "changed").Err(); err != nil {
		return fmt.Errorf("publish expense change: %w", err)
	}
	return nil
}

// Listen subscribes to the user's channel. It returns once Redis has
// confirmed the subscription, so a Publish issued afterwards is observed.
func (n *RedisNotifier) Listen(ctx context.Context, userID string) (<-chan struct{}, func(), error) {
	sub := n.client.Subscribe(ctx, redisChannel(userID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("subscribe to expense changes: %w", err)
	}

	listenCtx, cancel := context.WithCancel(ctx)
	out := make(chan struct{}, 1)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer close(out)
		defer func() {
			if err := sub.Close(); err != nil {
				slog.Warn("Failed to close redis subscription", "error", err, "user_id", userID)
			}
		}()

		msgs := sub.Channel()
		for {
			select {
			case <-listenCtx.Done():
				return
			case _, ok := <-msgs:
				if !ok {
					return
				}
				signal(out)
			}
		}
	}()

	stop := func() {
		cancel()
		<-done
	}

	return out, stop, nil
}

// Ping checks the Redis connection.
func (n *RedisNotifier) Ping(ctx context.Context) error {
	return n.client.Ping(ctx).Err()
}
