package broker

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const redisChannelPrefix = "realestate:events:"

// RedisPublisher implements EventPublisher using Redis pub/sub.
// Each event type gets its own channel.
type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(redisURL string) (*RedisPublisher, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &RedisPublisher{client: client}, nil
}

// RedisChannel returns the channel an event type is published on
func RedisChannel(eventType string) string {
	return redisChannelPrefix + eventType
}

func (r *RedisPublisher) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return r.client.Publish(ctx, RedisChannel(event.Type), data).Err()
}

// Subscribe streams events of the given types until ctx is cancelled
func (r *RedisPublisher) Subscribe(ctx context.Context, eventTypes ...string) (<-chan Event, error) {
	channels := make([]string, 0, len(eventTypes))
	for _, t := range eventTypes {
		channels = append(channels, RedisChannel(t))
	}

	pubsub := r.client.Subscribe(ctx, channels...)
	// Wait for the subscription to be confirmed so no event is missed
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}

	events := make(chan Event, 100)

	go func() {
		defer close(events)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case redisMsg, ok := <-ch:
				if !ok {
					return
				}

				var event Event
				if err := json.Unmarshal([]byte(redisMsg.Payload), &event); err != nil {
					continue
				}

				select {
				case events <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events, nil
}

func (r *RedisPublisher) Close() error {
	return r.client.Close()
}
