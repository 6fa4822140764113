package querycache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	fieldData        = "data"
	fieldUpdatedAt   = "updatedAt"
	fieldInvalidated = "invalidated"
)

// RedisStore shares entries between BFF instances. Each entry is a hash whose
// TTL is refreshed on every read, so Redis does the GC work itself.
type RedisStore struct {
	rdb    goredis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedisStore(rdb goredis.UniversalClient, prefix string, ttl time.Duration) (*RedisStore, error) {
	if rdb == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisStore{rdb: rdb, prefix: prefix, ttl: ttl}, nil
}

func (s *RedisStore) redisKey(k Key) string { return s.prefix + k.String() }

func (s *RedisStore) Get(ctx context.Context, key Key) (Entry, bool, error) {
	rk := s.redisKey(key)
	vals, err := s.rdb.HGetAll(ctx, rk).Result()
	if err != nil {
		return Entry{}, false, fmt.Errorf("redis hgetall: %w", err)
	}
	data, ok := vals[fieldData]
	if !ok {
		return Entry{}, false, nil
	}
	e := Entry{Data: []byte(data), Invalidated: vals[fieldInvalidated] == "1"}
	if ts, err := time.Parse(time.RFC3339Nano, vals[fieldUpdatedAt]); err == nil {
		e.UpdatedAt = ts
	}
	if s.ttl > 0 {
		if err := s.rdb.Expire(ctx, rk, s.ttl).Err(); err != nil {
			return Entry{}, false, fmt.Errorf("redis expire: %w", err)
		}
	}
	return e, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key Key, e Entry) error {
	rk := s.redisKey(key)
	inv := "0"
	if e.Invalidated {
		inv = "1"
	}
	_, err := s.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.HSet(ctx, rk,
			fieldData, string(e.Data),
			fieldUpdatedAt, e.UpdatedAt.UTC().Format(time.RFC3339Nano),
			fieldInvalidated, inv,
		)
		if s.ttl > 0 {
			p.Expire(ctx, rk, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// markScript flags one entry as invalidated only if it still exists, so a key
// that expired after the scan is not recreated without a TTL.
var markScript = goredis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
  redis.call('HSET', KEYS[1], ARGV[1], '1')
  return 1
end
return 0
`)

func (s *RedisStore) Invalidate(ctx context.Context, prefix Key) (int, error) {
	keys, err := s.scan(ctx, prefix)
	if err != nil {
		return 0, err
	}
	return s.markInvalidated(ctx, keys)
}

func (s *RedisStore) markInvalidated(ctx context.Context, keys []string) (int, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	cmds := make([]*goredis.Cmd, len(keys))
	_, err := s.rdb.Pipelined(ctx, func(p goredis.Pipeliner) error {
		for i, k := range keys {
			cmds[i] = markScript.Eval(ctx, p, []string{k}, fieldInvalidated)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("redis invalidate: %w", err)
	}
	n := 0
	for _, cmd := range cmds {
		if v, err := cmd.Int(); err == nil && v == 1 {
			n++
		}
	}
	return n, nil
}

func (s *RedisStore) Remove(ctx context.Context, prefix Key) (int, error) {
	keys, err := s.scan(ctx, prefix)
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	n, err := s.rdb.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("redis del: %w", err)
	}
	return int(n), nil
}

// Sweep is a no-op; entries expire through their TTL.
func (s *RedisStore) Sweep(context.Context, time.Time) (int, error) { return 0, nil }

// scan returns the redis keys at or under prefix. The glob only narrows the
// scan; segment boundaries are checked here.
func (s *RedisStore) scan(ctx context.Context, prefix Key) ([]string, error) {
	base := s.redisKey(prefix)
	var out []string
	iter := s.rdb.Scan(ctx, 0, escapeGlob(base)+"*", 200).Iterator()
	for iter.Next(ctx) {
		rk := iter.Val()
		if len(prefix) == 0 || rk == base || strings.HasPrefix(rk, base+keySep) {
			out = append(out, rk)
		}
	}
	if err := iter.Err(); err != nil {
		if errors.Is(err, goredis.Nil) {
			return out, nil
		}
		return nil, fmt.Errorf("redis scan: %w", err)
	}
	return out, nil
}

func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\', '^':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
