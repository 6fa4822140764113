package envutil

import (
	"testing"
	"time"
)

func TestDuration(t *testing.T) {
	t.Setenv("X_DUR", "45s")
	if got := Duration("X_DUR", time.Second); got != 45*time.Second {
		t.Fatalf("got=%v", got)
	}
	t.Setenv("X_DUR", "12")
	if got := Duration("X_DUR", time.Second); got != 12*time.Second {
		t.Fatalf("got=%v", got)
	}
	t.Setenv("X_DUR", "nope")
	if got := Duration("X_DUR", time.Second); got != time.Second {
		t.Fatalf("got=%v", got)
	}
}

func TestBoolAndInt(t *testing.T) {
	t.Setenv("X_BOOL", "yes")
	if !Bool("X_BOOL", false) {
		t.Fatalf("expected true")
	}
	if !Bool("X_BOOL_UNSET", true) {
		t.Fatalf("expected default")
	}
	t.Setenv("X_INT", "7")
	if Int("X_INT", 1) != 7 {
		t.Fatalf("expected 7")
	}
	t.Setenv("X_INT", "seven")
	if Int("X_INT", 1) != 1 {
		t.Fatalf("expected default")
	}
}
