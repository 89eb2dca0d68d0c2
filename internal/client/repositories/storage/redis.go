package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the session of one profile in a Redis hash and publishes
// every change on a channel, so other processes using the same profile see
// logouts and profile updates.
type RedisStore struct {
	client  *redis.Client
	hashKey string
	channel string
}

// NewRedisStore builds a store for profile on an existing client. Close
// closes the client.
func NewRedisStore(client *redis.Client, profile string) *RedisStore {
	return &RedisStore{
		client:  client,
		hashKey: profile + ":session",
		channel: profile + ":session:events",
	}
}

// OpenRedis parses url, connects and pings.
func OpenRedis(ctx context.Context, url, profile string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedisStore(client, profile), nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.HGet(ctx, s.hashKey, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %s[%s]: %w", s.hashKey, key, err)
	}
	return v, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	return s.SetMany(ctx, map[string]string{key: value})
}

// SetMany writes all values with one HSET inside MULTI, followed by the
// change notifications.
func (s *RedisStore) SetMany(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	events := setEvents(values)
	fields := make([]any, 0, 2*len(events))
	for _, e := range events {
		fields = append(fields, e.Key, e.Value)
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.hashKey, fields...)
		return s.queuePublish(ctx, pipe, events)
	})
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", s.hashKey, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.DeleteMany(ctx, key)
}

func (s *RedisStore) DeleteMany(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, s.hashKey, keys...)
		return s.queuePublish(ctx, pipe, deleteEvents(keys))
	})
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", s.hashKey, err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.hashKey)
		return s.queuePublish(ctx, pipe, []Event{{Deleted: true}})
	})
	if err != nil {
		return fmt.Errorf("failed to clear %s: %w", s.hashKey, err)
	}
	return nil
}

func (s *RedisStore) queuePublish(ctx context.Context, pipe redis.Pipeliner, events []Event) error {
	for _, e := range events {
		payload, err := json.Marshal(e)
		if err != nil {
			return err
		}
		pipe.Publish(ctx, s.channel, payload)
	}
	return nil
}

// Subscribe relays the profile's change channel. Messages that fail to decode
// are skipped.
func (s *RedisStore) Subscribe(ctx context.Context) (<-chan Event, error) {
	pubsub := s.client.Subscribe(ctx, s.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", s.channel, err)
	}

	out := make(chan Event, subscriberBuffer)
	go func() {
		defer close(out)
		defer pubsub.Close()

		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var e Event
				if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
					continue
				}
				select {
				case out <- e:
				default:
				}
			}
		}
	}()
	return out, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
