package reorder

import (
	"testing"

	"github.com/yungbote/lesson-admin/internal/domain"
)

func ids(l *List) string {
	s := ""
	for _, id := range l.IDs() {
		s += id.String()
	}
	return s
}

func TestMove(t *testing.T) {
	l := New([]domain.ID{"a", "b", "c", "d"})
	if err := l.Move(0, 2); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if got := ids(l); got != "bcad" {
		t.Fatalf("after 0->2: %s", got)
	}
	if err := l.Move(3, 0); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if got := ids(l); got != "dbca" {
		t.Fatalf("after 3->0: %s", got)
	}
	if err := l.Move(0, 4); err == nil {
		t.Fatalf("expected range error")
	}
}

func TestOrderIsOneBased(t *testing.T) {
	l := New([]domain.ID{"x", "y"})
	_ = l.MoveID("y", 0)
	o := l.Order()
	if o[0].ID != "y" || o[0].Order != 1 || o[1].ID != "x" || o[1].Order != 2 {
		t.Fatalf("order=%+v", o)
	}
}

func TestNewCopiesInput(t *testing.T) {
	in := []domain.ID{"a", "b"}
	l := New(in)
	_ = l.Move(0, 1)
	if in[0] != "a" {
		t.Fatalf("input mutated: %v", in)
	}
}
