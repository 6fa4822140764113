package querycache

import (
	"encoding/json"
	"fmt"
	"strings"
)

// keySep separates canonical segments in the flat string form of a Key.
const keySep = "\x1f"

// Key is an ordered list of canonical segments. Each segment is the JSON
// encoding of the value it was built from, so maps with the same entries give
// the same segment regardless of insertion order.
type Key []string

// NewKey canonicalizes segs into a Key.
func NewKey(segs ...any) Key {
	out := make(Key, 0, len(segs))
	for _, s := range segs {
		out = append(out, canonical(s))
	}
	return out
}

func canonical(v any) string {
	if s, ok := v.(fmt.Stringer); ok {
		v = s.String()
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%q", fmt.Sprint(v))
	}
	return string(b)
}

func (k Key) String() string { return strings.Join(k, keySep) }

// Append returns a new Key with segs added after k.
func (k Key) Append(segs ...any) Key {
	out := make(Key, len(k), len(k)+len(segs))
	copy(out, k)
	return append(out, NewKey(segs...)...)
}

// HasPrefix reports whether p is a segment prefix of k. Every key has the
// empty key as a prefix.
func (k Key) HasPrefix(p Key) bool {
	if len(p) > len(k) {
		return false
	}
	for i := range p {
		if k[i] != p[i] {
			return false
		}
	}
	return true
}

func (k Key) Equal(o Key) bool { return len(k) == len(o) && k.HasPrefix(o) }

// ParseKey reverses Key.String.
func ParseKey(s string) Key {
	if s == "" {
		return Key{}
	}
	return Key(strings.Split(s, keySep))
}

// KeyFactory builds the hierarchical keys of one entity.
type KeyFactory struct {
	entity string
}

func Keys(entity string) KeyFactory { return KeyFactory{entity: entity} }

func (f KeyFactory) Entity() string { return f.entity }

func (f KeyFactory) All() Key { return NewKey(f.entity) }
func (f KeyFactory) Lists() Key { return NewKey(f.entity, "list") }
func (f KeyFactory) List(params any) Key { return NewKey(f.entity, "list", params) }
func (f KeyFactory) Details() Key { return NewKey(f.entity, "detail") }
func (f KeyFactory) Detail(id any) Key { return NewKey(f.entity, "detail", id) }
func (f KeyFactory) ByParent(parentID any) Key {
	return NewKey(f.entity, "byParent", parentID)
}
func (f KeyFactory) ByParentPage(parentID, params any) Key {
	return NewKey(f.entity, "byParent", parentID, params)
}
