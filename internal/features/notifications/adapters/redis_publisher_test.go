package adapter

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBus(t *testing.T) *RedisEventBus {
	t.Helper()
	mr := miniredis.RunT(t)
	opts, err := redis.ParseURL("redis://" + mr.Addr())
	require.NoError(t, err)
	return NewRedisEventBus(redis.NewClient(opts))
}

func TestRedisEventBus_PublishReachesSubscriber(t *testing.T) {
	bus := newTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, unsubscribe, err := bus.Subscribe(ctx, "shipments.tracking.STTEST01")
	require.NoError(t, err)
	defer unsubscribe()

	require.NoError(t, bus.Publish(ctx, "shipments.tracking.STTEST01", []byte(`{"status":"Delivered"}`)))

	select {
	case payload := <-ch:
		assert.JSONEq(t, `{"status":"Delivered"}`, string(payload))
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber never received the event")
	}
}

func TestRedisEventBus_TopicsAreIsolated(t *testing.T) {
	bus := newTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, unsubscribe, err := bus.Subscribe(ctx, "shipments.tracking.STAAA")
	require.NoError(t, err)
	defer unsubscribe()

	require.NoError(t, bus.Publish(ctx, "shipments.tracking.STBBB", []byte("other")))

	select {
	case payload := <-ch:
		t.Fatalf("received event for a different topic: %s", payload)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestRedisEventBus_CancelClosesChannel(t *testing.T) {
	bus := newTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, unsubscribe, err := bus.Subscribe(ctx, "shipments.tracking.STCCC")
	require.NoError(t, err)

	unsubscribe()
	// Calling cancel twice is harmless.
	unsubscribe()

	select {
	case _, open := <-ch:
		assert.False(t, open, "channel must close after unsubscribe")
	case <-time.After(2 * time.Second):
		t.Fatal("channel never closed")
	}
}

func TestRedisEventBus_PublishWithoutSubscribersSucceeds(t *testing.T) {
	bus := newTestBus(t)

	err := bus.Publish(context.Background(), "shipments.tracking.STDDD", []byte("nobody listening"))
	assert.NoError(t, err)
}
