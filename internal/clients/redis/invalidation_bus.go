package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/lesson-admin/internal/platform/logger"
)

const DefaultInvalidationChannel = "admin:qc:invalidate"

// Invalidation is one cache change broadcast between BFF instances.
type Invalidation struct {
	Origin string   `json:"origin"`
	Key    []string `json:"key"`
	Remove bool     `json:"remove,omitempty"`
}

type InvalidationBus interface {
	Publish(ctx context.Context, key []string, remove bool) error
	// StartForwarder delivers messages from other instances until ctx is done.
	StartForwarder(ctx context.Context, onMsg func(m Invalidation)) error
}

type invalidationBus struct {
	log     *logger.Logger
	rdb     goredis.UniversalClient
	channel string
	origin  string
}

func NewInvalidationBus(log *logger.Logger, rdb goredis.UniversalClient, channel string) (InvalidationBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if rdb == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if channel == "" {
		channel = DefaultInvalidationChannel
	}
	return &invalidationBus{
		log:     log.With("service", "RedisInvalidationBus"),
		rdb:     rdb,
		channel: channel,
		origin:  uuid.NewString(),
	}, nil
}

func (b *invalidationBus) Publish(ctx context.Context, key []string, remove bool) error {
	raw, err := json.Marshal(Invalidation{Origin: b.origin, Key: key, Remove: remove})
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *invalidationBus) StartForwarder(ctx context.Context, onMsg func(m Invalidation)) error {
	if onMsg == nil {
		return fmt.Errorf("onMsg callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)

	// ensures subscription actually started
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					_ = sub.Close()
					return
				}
				msg, ok := b.decode(m.Payload)
				if !ok {
					continue
				}
				onMsg(msg)
			}
		}
	}()

	return nil
}

// decode drops malformed payloads and this instance's own messages.
func (b *invalidationBus) decode(payload string) (Invalidation, bool) {
	var msg Invalidation
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		b.log.Warn("bad invalidation payload", "error", err)
		return Invalidation{}, false
	}
	if msg.Origin == b.origin || len(msg.Key) == 0 {
		return Invalidation{}, false
	}
	return msg, true
}
