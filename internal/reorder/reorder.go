package reorder

import (
	"fmt"

	"github.com/yungbote/lesson-admin/internal/domain"
)

// List is a locally reordered sequence of IDs. Moves are not sent to the backend.
type List struct {
	ids []domain.ID
}

func New(ids []domain.ID) *List {
	cp := make([]domain.ID, len(ids))
	copy(cp, ids)
	return &List{ids: cp}
}

// Move takes the item at index from and inserts it at index to.
func (l *List) Move(from, to int) error {
	n := len(l.ids)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("move %d->%d out of range [0,%d)", from, to, n)
	}
	if from == to {
		return nil
	}
	id := l.ids[from]
	l.ids = append(l.ids[:from], l.ids[from+1:]...)
	l.ids = append(l.ids[:to], append([]domain.ID{id}, l.ids[to:]...)...)
	return nil
}

// MoveID moves id to index to.
func (l *List) MoveID(id domain.ID, to int) error {
	for i, v := range l.ids {
		if v == id {
			return l.Move(i, to)
		}
	}
	return fmt.Errorf("id %s not in list", id)
}

func (l *List) IDs() []domain.ID {
	cp := make([]domain.ID, len(l.ids))
	copy(cp, l.ids)
	return cp
}

type Position struct {
	ID    domain.ID `json:"id"`
	Order int       `json:"order"`
}

// Order returns each ID with its 1-based position.
func (l *List) Order() []Position {
	out := make([]Position, len(l.ids))
	for i, id := range l.ids {
		out[i] = Position{ID: id, Order: i + 1}
	}
	return out
}
