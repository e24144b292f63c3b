package notify

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const changedPayload = "changed"

// RedisFeed fans signals out over Redis pub/sub so every replica of the
// service sees changes written by any other.
type RedisFeed struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

func NewRedisFeed(client *redis.Client, prefix string, logger *zap.Logger) *RedisFeed {
	return &RedisFeed{
		client: client,
		prefix: prefix,
		logger: logger,
	}
}

func (f *RedisFeed) channel(customerUID string) string {
	return fmt.Sprintf("%s:orders:%s", f.prefix, customerUID)
}

func (f *RedisFeed) Publish(ctx context.Context, customerUID string) error {
	if err := f.client.Publish(ctx, f.channel(customerUID), changedPayload).Err(); err != nil {
		return fmt.Errorf("publishing order change: %w", err)
	}
	return nil
}

func (f *RedisFeed) Subscribe(ctx context.Context, customerUID string) (<-chan struct{}, func(), error) {
	channel := f.channel(customerUID)
	subCtx, cancel := context.WithCancel(ctx)

	pubsub := f.client.Subscribe(subCtx, channel)
	if _, err := pubsub.Receive(subCtx); err != nil {
		cancel()
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("subscribing to %s: %w", channel, err)
	}

	out := make(chan struct{}, 1)

	go func() {
		defer func() {
			_ = pubsub.Close()
			close(out)
		}()

		msgs := pubsub.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case _, ok := <-msgs:
				if !ok {
					return
				}
				signal(out)
			}
		}
	}()

	f.logger.Debug("subscribed to order feed", zap.String("channel", channel))

	return out, cancel, nil
}
