package querycache

import (
	"testing"

	"github.com/yungbote/lesson-admin/internal/domain"
)

func TestKeyFactoryShapes(t *testing.T) {
	k := Keys("lessons")
	if got := k.All().String(); got != `"lessons"` {
		t.Fatalf("All=%q", got)
	}
	if !k.List(map[string]any{"page": 1}).HasPrefix(k.Lists()) {
		t.Fatalf("list not under lists")
	}
	if !k.Detail(domain.ID("7")).HasPrefix(k.Details()) || !k.Detail("7").HasPrefix(k.All()) {
		t.Fatalf("detail not under details/all")
	}
	if k.Detail("7").HasPrefix(k.Lists()) {
		t.Fatalf("detail must not be under lists")
	}
	if !k.ByParentPage("3", map[string]any{"page": 2}).HasPrefix(k.ByParent("3")) {
		t.Fatalf("by-parent page not under by-parent")
	}
}

func TestKeyParamsCanonical(t *testing.T) {
	a := Keys("lessons").List(map[string]any{"page": 2, "levelId": "3", "search": "x"})
	b := Keys("lessons").List(map[string]any{"search": "x", "levelId": "3", "page": 2})
	if !a.Equal(b) {
		t.Fatalf("equal params gave different keys: %v vs %v", a, b)
	}
	c := Keys("lessons").List(map[string]any{"page": 3})
	if a.Equal(c) {
		t.Fatalf("different params gave equal keys")
	}
}

func TestKeyPrefixRespectsSegmentBoundary(t *testing.T) {
	if Keys("lessons2").All().HasPrefix(Keys("lessons").All()) {
		t.Fatalf("lessons must not prefix lessons2")
	}
	if Keys("options").ByParent("12").HasPrefix(Keys("options").ByParent("1")) {
		t.Fatalf("parent 1 must not prefix parent 12")
	}
}

func TestParseKeyRoundTrip(t *testing.T) {
	k := Keys("options").ByParent(domain.ID("9"))
	if !ParseKey(k.String()).Equal(k) {
		t.Fatalf("round trip mismatch")
	}
	if len(ParseKey("")) != 0 {
		t.Fatalf("empty key should parse to no segments")
	}
}

func TestAppendDoesNotAlias(t *testing.T) {
	base := make(Key, 1, 4)
	base[0] = `"a"`
	x := base.Append("x")
	y := base.Append("y")
	if x.Equal(y) {
		t.Fatalf("appended keys alias each other: %v %v", x, y)
	}
}
