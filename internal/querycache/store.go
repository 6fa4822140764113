package querycache

import (
	"context"
	"encoding/json"
	"time"
)

// Entry is one cached query result.
type Entry struct {
	Data        json.RawMessage `json:"data"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Invalidated bool            `json:"invalidated"`
}

// Store persists entries. Implementations serialize their own writes.
type Store interface {
	Get(ctx context.Context, key Key) (Entry, bool, error)
	Set(ctx context.Context, key Key, e Entry) error
	// Invalidate marks every entry under prefix as stale and returns how many it touched.
	Invalidate(ctx context.Context, prefix Key) (int, error)
	// Remove deletes every entry under prefix.
	Remove(ctx context.Context, prefix Key) (int, error)
	// Sweep evicts entries not read or written since before cutoff.
	Sweep(ctx context.Context, cutoff time.Time) (int, error)
}
