package realtime

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisNotifier_PublishAndListen(t *testing.T) {
	ctx := context.Background()
	client := newTestRedis(t)

	// two notifiers on one server stand in for two API instances
	writer := NewRedisNotifier(client)
	reader := NewRedisNotifier(client)

	alice, stopAlice, err := reader.Listen(ctx, "alice")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer stopAlice()
	bob, stopBob, err := reader.Listen(ctx, "bob")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer stopBob()

	if err := writer.Publish(ctx, "alice"); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	waitSignal(t, alice)
	expectNoSignal(t, bob)
}

func TestRedisNotifier_StopClosesChannel(t *testing.T) {
	ctx := context.Background()
	n := NewRedisNotifier(newTestRedis(t))

	ch, stop, err := n.Listen(ctx, "alice")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}

	stop()

	if _, ok := <-ch; ok {
		t.Error("expected channel to be closed after stop")
	}
}

func TestRedisNotifier_ChannelName(t *testing.T) {
	if got := redisChannel("user-42"); got != "expenses:changed:user-42" {
		t.Errorf("unexpected channel name %q", got)
	}
}

func TestRedisNotifier_Ping(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	n := NewRedisNotifier(client)

	if err := n.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	server.Close()
	if err := n.Ping(context.Background()); err == nil {
		t.Error("expected ping to fail once the server is gone")
	}
}
