package adapter

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// RedisEventBus implements EventPublisher and EventSubscriber over Redis
// pub/sub. Delivery is fire-and-forget: nothing is persisted and subscribers
// that are not connected when an event fires never see it.
type RedisEventBus struct {
	client *redis.Client
}

// NewRedisEventBus creates the bus over an existing client.
func NewRedisEventBus(client *redis.Client) *RedisEventBus {
	return &RedisEventBus{client: client}
}

// Publish emits the payload on the topic without awaiting acknowledgment.
func (b *RedisEventBus) Publish(ctx context.Context, topic string, payload []byte) error {
	if err := b.client.Publish(ctx, topic, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish on %s: %w", topic, err)
	}
	return nil
}

// Subscribe attaches to a topic and pumps messages into the returned channel
// until the context ends or cancel is called.
func (b *RedisEventBus) Subscribe(ctx context.Context, topic string) (<-chan []byte, func(), error) {
	sub := b.client.Subscribe(ctx, topic)

	// Force the subscription onto the wire before returning so events
	// published right after Subscribe are not lost.
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	out := make(chan []byte)
	done := make(chan struct{})

	go func() {
		defer close(out)
		ch := sub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				case <-done:
					return
				}
			case <-ctx.Done():
				return
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			sub.Close()
		})
	}

	return out, cancel, nil
}
