package querycache

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	key      Key
	entry    Entry
	lastUsed time.Time
}

// MemoryStore keeps entries in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]*memEntry{}, now: time.Now}
}

// SetClock replaces the time source used for GC bookkeeping.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *MemoryStore) Get(_ context.Context, key Key) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	me, ok := s.entries[key.String()]
	if !ok {
		return Entry{}, false, nil
	}
	me.lastUsed = s.now()
	return me.entry, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key Key, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key.String()] = &memEntry{key: key, entry: e, lastUsed: s.now()}
	return nil
}

func (s *MemoryStore) Invalidate(_ context.Context, prefix Key) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, me := range s.entries {
		if me.key.HasPrefix(prefix) {
			me.entry.Invalidated = true
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) Remove(_ context.Context, prefix Key) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k, me := range s.entries {
		if me.key.HasPrefix(prefix) {
			delete(s.entries, k)
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) Sweep(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k, me := range s.entries {
		if me.lastUsed.Before(cutoff) {
			delete(s.entries, k)
			n++
		}
	}
	return n, nil
}

// Len is the number of live entries.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
