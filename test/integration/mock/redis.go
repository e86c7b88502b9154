package mock

import (
	"context"
	"fmt"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// Redis is an in-process Redis for the realtime notifier. Pub/sub behaves
// like a real server, so streams and publishers talk through it as they
// would across API instances.
type Redis struct {
	server *miniredis.Miniredis
	client *redis.Client
}

// NewRedis starts a miniredis server and connects a client to it.
func NewRedis() *Redis {
	server, err := miniredis.Run()
	if err != nil {
		panic(fmt.Sprintf("start miniredis: %v", err))
	}
	return &Redis{
		server: server,
		client: redis.NewClient(&redis.Options{Addr: server.Addr()}),
	}
}

// Client is shared by the server under test.
func (r *Redis) Client() *redis.Client {
	return r.client
}

// Flush drops every key. Subscriptions are left alone.
func (r *Redis) Flush(ctx context.Context) error {
	return r.client.FlushAll(ctx).Err()
}

// WaitForSubscribers polls until the channels ending in suffix have want
// subscribers in total.
func (r *Redis) WaitForSubscribers(suffix string, want int, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		got := 0
		channels := r.server.PubSubChannels("*" + suffix)
		for _, n := range r.server.PubSubNumSub(channels...) {
			got += n
		}
		if got == want {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("expected %d subscribers on *%s, got %d", want, suffix, got)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

// Close disconnects the client and stops the server.
func (r *Redis) Close() {
	_ = r.client.Close()
	r.server.Close()
}
