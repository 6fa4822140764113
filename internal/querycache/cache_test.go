package querycache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestCache(t *testing.T) (*Cache, *MemoryStore, *fakeClock) {
	t.Helper()
	clk := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := NewMemoryStore()
	store.SetClock(clk.Now)
	c := New(store, Options{StaleTime: time.Minute, GCTime: 10 * time.Minute, Now: clk.Now})
	return c, store, clk
}

func countingQuery(key Key, calls *int32, val []string) Query[[]string] {
	return Query[[]string]{
		Key: key,
		Fn: func(ctx context.Context) ([]string, error) {
			atomic.AddInt32(calls, 1)
			return val, nil
		},
	}
}

func TestFetchCachesWhileFresh(t *testing.T) {
	c, _, clk := newTestCache(t)
	ctx := context.Background()
	var calls int32
	q := countingQuery(Keys("lessons").Lists(), &calls, []string{"a"})

	for i := 0; i < 3; i++ {
		got, err := Fetch(ctx, c, q)
		if err != nil {
			t.Fatalf("Fetch: %v", err)
		}
		if len(got) != 1 || got[0] != "a" {
			t.Fatalf("got=%v", got)
		}
	}
	if calls != 1 {
		t.Fatalf("calls=%d want 1", calls)
	}

	clk.Advance(2 * time.Minute)
	if _, err := Fetch(ctx, c, q); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if calls != 2 {
		t.Fatalf("calls=%d want 2 after stale", calls)
	}
}

func TestQueryStaleTimeOverridesDefault(t *testing.T) {
	c, _, clk := newTestCache(t)
	var calls int32
	q := countingQuery(Keys("levels").All(), &calls, []string{"A1"})
	q.StaleTime = time.Hour

	_, _ = Fetch(context.Background(), c, q)
	clk.Advance(30 * time.Minute)
	_, _ = Fetch(context.Background(), c, q)
	if calls != 1 {
		t.Fatalf("calls=%d want 1", calls)
	}
}

func TestInvalidateSubtreeOnly(t *testing.T) {
	c, _, _ := newTestCache(t)
	ctx := context.Background()
	var q1, q2, lists int32
	opts := Keys("options")
	a := countingQuery(opts.ByParent("1"), &q1, []string{"o1"})
	b := countingQuery(opts.ByParent("2"), &q2, []string{"o2"})
	l := countingQuery(Keys("questions").ByParent("9"), &lists, []string{"q"})

	for _, q := range []Query[[]string]{a, b, l} {
		if _, err := Fetch(ctx, c, q); err != nil {
			t.Fatalf("Fetch: %v", err)
		}
	}
	if err := c.Invalidate(ctx, opts.ByParent("1")); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	for _, q := range []Query[[]string]{a, b, l} {
		_, _ = Fetch(ctx, c, q)
	}
	if q1 != 2 || q2 != 1 || lists != 1 {
		t.Fatalf("q1=%d q2=%d lists=%d", q1, q2, lists)
	}

	if err := c.Invalidate(ctx, opts.All()); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	_, _ = Fetch(ctx, c, a)
	_, _ = Fetch(ctx, c, b)
	if q1 != 3 || q2 != 2 {
		t.Fatalf("after all: q1=%d q2=%d", q1, q2)
	}
}

func TestFetchDeduplicatesConcurrentCalls(t *testing.T) {
	c, _, _ := newTestCache(t)
	var calls int32
	release := make(chan struct{})
	q := Query[int]{
		Key: Keys("lessons").Detail("1"),
		Fn: func(ctx context.Context) (int, error) {
			atomic.AddInt32(&calls, 1)
			<-release
			return 42, nil
		},
	}

	const n = 8
	var wg sync.WaitGroup
	results := make([]int, n)
	started := make(chan struct{}, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			started <- struct{}{}
			v, err := Fetch(context.Background(), c, q)
			if err != nil {
				t.Errorf("Fetch: %v", err)
			}
			results[i] = v
		}(i)
	}
	for i := 0; i < n; i++ {
		<-started
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls != 1 {
		t.Fatalf("calls=%d want 1", calls)
	}
	for i, v := range results {
		if v != 42 {
			t.Fatalf("results[%d]=%d", i, v)
		}
	}
}

func TestFetchErrorIsNotCached(t *testing.T) {
	c, _, _ := newTestCache(t)
	var calls int32
	boom := errors.New("boom")
	q := Query[int]{
		Key: Keys("lessons").Detail("2"),
		Fn: func(ctx context.Context) (int, error) {
			if atomic.AddInt32(&calls, 1) == 1 {
				return 0, boom
			}
			return 7, nil
		},
	}
	if _, err := Fetch(context.Background(), c, q); !errors.Is(err, boom) {
		t.Fatalf("err=%v", err)
	}
	v, err := Fetch(context.Background(), c, q)
	if err != nil || v != 7 {
		t.Fatalf("v=%d err=%v", v, err)
	}
}

func TestSetDataPrimesAndRemoveDrops(t *testing.T) {
	c, store, _ := newTestCache(t)
	ctx := context.Background()
	key := Keys("lessons").Detail("5")
	if err := c.SetData(ctx, key, map[string]string{"title": "primed"}); err != nil {
		t.Fatalf("SetData: %v", err)
	}
	got, err := Fetch(ctx, c, Query[map[string]string]{
		Key: key,
		Fn: func(ctx context.Context) (map[string]string, error) {
			t.Fatalf("fetch should not run for primed key")
			return nil, nil
		},
	})
	if err != nil || got["title"] != "primed" {
		t.Fatalf("got=%v err=%v", got, err)
	}
	if err := c.Remove(ctx, Keys("lessons").Details()); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("len=%d want 0", store.Len())
	}
}

func TestSweepEvictsUnusedEntries(t *testing.T) {
	c, store, clk := newTestCache(t)
	ctx := context.Background()
	_ = c.SetData(ctx, Keys("a").All(), 1)
	_ = c.SetData(ctx, Keys("b").All(), 2)

	clk.Advance(6 * time.Minute)
	if _, _, err := store.Get(ctx, Keys("b").All()); err != nil {
		t.Fatalf("Get: %v", err)
	}
	clk.Advance(6 * time.Minute)

	n, err := c.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if n != 1 || store.Len() != 1 {
		t.Fatalf("evicted=%d len=%d", n, store.Len())
	}
	if _, ok, _ := store.Get(ctx, Keys("b").All()); !ok {
		t.Fatalf("recently used entry evicted")
	}
}

type lookupRecorder struct {
	mu      sync.Mutex
	results []string
}

func (r *lookupRecorder) ObserveCacheLookup(result string) {
	r.mu.Lock()
	r.results = append(r.results, result)
	r.mu.Unlock()
}

func TestObserverSeesHitMissStale(t *testing.T) {
	clk := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	rec := &lookupRecorder{}
	c := New(NewMemoryStore(), Options{StaleTime: time.Minute, Now: clk.Now, Observer: rec})
	var calls int32
	q := countingQuery(Keys("lessons").Detail("1"), &calls, []string{"a"})
	ctx := context.Background()

	_, _ = Fetch(ctx, c, q)
	_, _ = Fetch(ctx, c, q)
	clk.Advance(2 * time.Minute)
	_, _ = Fetch(ctx, c, q)

	want := []string{"miss", "hit", "stale"}
	if len(rec.results) != len(want) {
		t.Fatalf("results=%v want %v", rec.results, want)
	}
	for i := range want {
		if rec.results[i] != want[i] {
			t.Fatalf("results=%v want %v", rec.results, want)
		}
	}
}

func TestOnChangeSkipsRemoteApply(t *testing.T) {
	var got []string
	c := New(NewMemoryStore(), Options{OnChange: func(_ context.Context, prefix Key, remove bool) {
		op := "invalidate"
		if remove {
			op = "remove"
		}
		got = append(got, op+" "+prefix.String())
	}})
	ctx := context.Background()
	_ = c.SetData(ctx, Keys("lessons").Detail("1"), "x")

	if err := c.Invalidate(ctx, Keys("lessons").Lists()); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if err := c.Remove(ctx, Keys("lessons").Detail("1")); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := c.ApplyRemote(ctx, Keys("lessons").All(), false); err != nil {
		t.Fatalf("ApplyRemote: %v", err)
	}
	if len(got) != 2 || got[0] != "invalidate "+Keys("lessons").Lists().String() || got[1] != "remove "+Keys("lessons").Detail("1").String() {
		t.Fatalf("onChange calls=%v", got)
	}
}

func TestInvalidateDuringFetchStartsNewCall(t *testing.T) {
	c, _, _ := newTestCache(t)
	ctx := context.Background()
	key := NewKey("lessons", "detail", "7")

	var server atomic.Int32
	server.Store(1)
	var calls int32
	entered := make(chan struct{})
	release := make(chan struct{})
	q := Query[int32]{
		Key: key,
		Fn: func(ctx context.Context) (int32, error) {
			v := server.Load()
			if atomic.AddInt32(&calls, 1) == 1 {
				close(entered)
				<-release
			}
			return v, nil
		},
	}

	first := make(chan int32, 1)
	go func() {
		v, err := Fetch(ctx, c, q)
		if err != nil {
			t.Errorf("first fetch: %v", err)
		}
		first <- v
	}()
	<-entered

	server.Store(2)
	if err := c.Invalidate(ctx, NewKey("lessons")); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	got, err := Fetch(ctx, c, q)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if got != 2 {
		t.Fatalf("fetch after invalidate=%d, want 2", got)
	}

	close(release)
	if v := <-first; v != 1 {
		t.Fatalf("first fetch=%d, want 1", v)
	}

	got, err = Fetch(ctx, c, q)
	if err != nil {
		t.Fatalf("third fetch: %v", err)
	}
	if got != 2 {
		t.Fatalf("cached value=%d, want 2", got)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Fatalf("calls=%d, want 2", n)
	}
}

func TestSetDataWinsOverRunningFetch(t *testing.T) {
	c, _, _ := newTestCache(t)
	ctx := context.Background()
	key := NewKey("lessons", "detail", "8")

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = Fetch(ctx, c, Query[string]{Key: key, Fn: func(ctx context.Context) (string, error) {
			close(entered)
			<-release
			return "old", nil
		}})
	}()
	<-entered
	if err := c.SetData(ctx, key, "primed"); err != nil {
		t.Fatalf("SetData: %v", err)
	}
	close(release)
	<-done

	got, err := Fetch(ctx, c, Query[string]{Key: key, Fn: func(ctx context.Context) (string, error) {
		t.Fatalf("primed entry should be served from cache")
		return "", nil
	}})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got != "primed" {
		t.Fatalf("got %q, want primed", got)
	}
}

func TestInvalidateRootOvertakesRunningFetch(t *testing.T) {
	c, _, _ := newTestCache(t)
	ctx := context.Background()
	key := Keys("levels").All()

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = Fetch(ctx, c, Query[string]{Key: key, Fn: func(ctx context.Context) (string, error) {
			close(entered)
			<-release
			return "old", nil
		}})
	}()
	<-entered
	if err := c.Invalidate(ctx, Key{}); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	close(release)
	<-done

	var calls int32
	got, err := Fetch(ctx, c, countingQuery(key, &calls, []string{"new"}))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) != 1 || got[0] != "new" || calls != 1 {
		t.Fatalf("got %v calls=%d, want refetched value", got, calls)
	}
}
