// Package redis is a Redis-backed Ledger for deployments where push streams
// must survive a process restart. Each stream keeps a list of JSON-encoded
// events under a prefixed key plus an INCR counter for id assignment.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/searchhub/websearch-mcp-go/eventlog"
)

// Config for the Redis-backed ledger.
type Config struct {
	// Addr like "localhost:6379". ENV: REDIS_ADDR
	Addr string `env:"REDIS_ADDR,default=localhost:6379"`
	// KeyPrefix for all keys. ENV: EVENTLOG_KEY_PREFIX
	KeyPrefix string `env:"EVENTLOG_KEY_PREFIX,default=websearch:eventlog:"`
}

type storedEvent struct {
	ID      string `json:"id"`
	Payload []byte `json:"payload"`
}

// Ledger is a Redis-backed eventlog.Ledger.
type Ledger struct {
	client    *redis.Client
	keyPrefix string
}

func New(cfg Config) (*Ledger, error) {
	addr := cfg.Addr
	if addr == "" {
		addr = "localhost:6379"
	}
	cl := redis.NewClient(&redis.Options{Addr: addr})
	if err := cl.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "websearch:eventlog:"
	}
	return &Ledger{client: cl, keyPrefix: prefix}, nil
}

// NewWithClient wraps an existing client; used by tests.
func NewWithClient(cl *redis.Client, keyPrefix string) *Ledger {
	if keyPrefix == "" {
		keyPrefix = "websearch:eventlog:"
	}
	return &Ledger{client: cl, keyPrefix: keyPrefix}
}

// Close closes the Redis client.
func (l *Ledger) Close() error { return l.client.Close() }

func (l *Ledger) eventsKey(streamID string) string  { return l.keyPrefix + "events:" + streamID }
func (l *Ledger) counterKey(streamID string) string { return l.keyPrefix + "counter:" + streamID }

func (l *Ledger) Append(ctx context.Context, streamID string, payload []byte) (string, error) {
	n, err := l.client.Incr(ctx, l.counterKey(streamID)).Result()
	if err != nil {
		return "", fmt.Errorf("incr counter: %w", err)
	}
	id := eventlog.FormatEventID(streamID, uint64(n))
	b, err := json.Marshal(storedEvent{ID: id, Payload: payload})
	if err != nil {
		return "", fmt.Errorf("encode event: %w", err)
	}
	if err := l.client.RPush(ctx, l.eventsKey(streamID), b).Err(); err != nil {
		return "", fmt.Errorf("rpush event: %w", err)
	}
	return id, nil
}

func (l *Ledger) ReplayAfter(ctx context.Context, lastEventID string, sink eventlog.SinkFunc) error {
	streamID, ok := eventlog.SplitEventID(lastEventID)
	if !ok {
		return nil
	}
	raw, err := l.client.LRange(ctx, l.eventsKey(streamID), 0, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return nil
		}
		return fmt.Errorf("lrange events: %w", err)
	}
	found := false
	for _, item := range raw {
		var ev storedEvent
		if err := json.Unmarshal([]byte(item), &ev); err != nil {
			return fmt.Errorf("decode event: %w", err)
		}
		if found {
			if err := sink(ctx, ev.ID, ev.Payload); err != nil {
				return err
			}
			continue
		}
		if ev.ID == lastEventID {
			found = true
		}
	}
	return nil
}

func (l *Ledger) DropStream(ctx context.Context, streamID string) error {
	// Teardown must proceed even when the inbound context is already canceled.
	c := context.WithoutCancel(ctx)
	if err := l.client.Del(c, l.eventsKey(streamID), l.counterKey(streamID)).Err(); err != nil {
		return fmt.Errorf("del stream keys: %w", err)
	}
	return nil
}

var _ eventlog.Ledger = (*Ledger)(nil)
