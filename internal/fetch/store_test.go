package fetch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

// testStore returns a store whose clock the test controls.
func testStore(ttl time.Duration) (*Store, *time.Time) {
	s := New(ttl, zap.NewNop())
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestKey_String(t *testing.T) {
	if got := Collection("claims").String(); got != "claims" {
		t.Errorf("collection key = %q, want %q", got, "claims")
	}
	if got := Item("claims", "42").String(); got != "claims/42" {
		t.Errorf("item key = %q, want %q", got, "claims/42")
	}
}

func TestStore_GetServesFreshEntry(t *testing.T) {
	s, _ := testStore(30 * time.Second)
	key := Collection("claims")

	var calls int32
	load := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		return "v1", nil
	}

	for i := 0; i < 3; i++ {
		v, err := s.Get(context.Background(), key, load)
		if err != nil {
			t.Fatalf("Get() failed: %v", err)
		}
		if v != "v1" {
			t.Fatalf("Get() = %v, want v1", v)
		}
	}

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("loader called %d times within window, want 1", got)
	}
}

func TestStore_GetReloadsStaleEntry(t *testing.T) {
	s, now := testStore(30 * time.Second)
	key := Collection("claims")

	var calls int32
	load := func(ctx context.Context) (any, error) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			return "v1", nil
		}
		return "v2", nil
	}

	if _, err := s.Get(context.Background(), key, load); err != nil {
		t.Fatalf("Get() failed: %v", err)
	}

	*now = now.Add(31 * time.Second)

	v, err := s.Get(context.Background(), key, load)
	if err != nil {
		t.Fatalf("Get() after staleness failed: %v", err)
	}
	if v != "v2" {
		t.Errorf("Get() = %v, want v2 after window elapsed", v)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("loader called %d times, want 2", got)
	}
}

func TestStore_GetWithin_Override(t *testing.T) {
	s, now := testStore(30 * time.Second)
	key := Collection("dashboard")

	var calls int32
	load := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		return "v", nil
	}

	if _, err := s.Get(context.Background(), key, load); err != nil {
		t.Fatalf("Get() failed: %v", err)
	}

	// 5s later the entry is fresh for the store window but stale for a
	// caller demanding a 2s window.
	*now = now.Add(5 * time.Second)

	if _, err := s.GetWithin(context.Background(), key, 2*time.Second, load); err != nil {
		t.Fatalf("GetWithin() failed: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("loader called %d times, want 2 (override forces reload)", got)
	}

	if _, err := s.GetWithin(context.Background(), key, 0, load); err != nil {
		t.Fatalf("GetWithin(0) failed: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("loader called %d times, want 2 (zero window uses store window)", got)
	}
}

func TestStore_ConcurrentGetsDeduplicate(t *testing.T) {
	s, _ := testStore(30 * time.Second)
	key := Collection("employees")

	var calls int32
	gate := make(chan struct{})
	load := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		<-gate
		return "shared", nil
	}

	const n = 8
	var wg sync.WaitGroup
	results := make([]any, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = s.Get(context.Background(), key, load)
		}(i)
	}

	// Let the goroutines pile onto the single flight, then release it.
	time.Sleep(20 * time.Millisecond)
	close(gate)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("loader called %d times for %d concurrent gets, want 1", got, n)
	}
	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("goroutine %d: %v", i, errs[i])
		}
		if results[i] != "shared" {
			t.Errorf("goroutine %d got %v, want shared", i, results[i])
		}
	}
}

func TestStore_FailedLoadKeepsPreviousEntry(t *testing.T) {
	s, now := testStore(30 * time.Second)
	key := Item("claims", "7")
	boom := errors.New("backend down")

	if _, err := s.Get(context.Background(), key, func(ctx context.Context) (any, error) {
		return "v1", nil
	}); err != nil {
		t.Fatalf("priming Get() failed: %v", err)
	}

	*now = now.Add(time.Minute)

	_, err := s.Get(context.Background(), key, func(ctx context.Context) (any, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Get() error = %v, want backend error", err)
	}

	// The stale value is still there for a later successful refresh.
	if v, ok := s.Peek(key); !ok || v != "v1" {
		t.Errorf("Peek() = %v, %v; want v1, true (failure must not evict)", v, ok)
	}

	v, err := s.Get(context.Background(), key, func(ctx context.Context) (any, error) {
		return "v2", nil
	})
	if err != nil {
		t.Fatalf("recovery Get() failed: %v", err)
	}
	if v != "v2" {
		t.Errorf("recovery Get() = %v, want v2", v)
	}
}

func TestStore_Invalidate(t *testing.T) {
	s, _ := testStore(30 * time.Second)
	key := Item("claims", "7")

	var calls int32
	load := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		return "v", nil
	}

	if _, err := s.Get(context.Background(), key, load); err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	s.Invalidate(key)
	if _, ok := s.Peek(key); ok {
		t.Error("Peek() found entry after Invalidate()")
	}
	if _, err := s.Get(context.Background(), key, load); err != nil {
		t.Fatalf("Get() after invalidate failed: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("loader called %d times, want 2 (invalidate forces reload)", got)
	}
}

func TestStore_InvalidateResource(t *testing.T) {
	s, _ := testStore(30 * time.Second)

	prime := func(key Key, v any) {
		t.Helper()
		if _, err := s.Get(context.Background(), key, func(ctx context.Context) (any, error) {
			return v, nil
		}); err != nil {
			t.Fatalf("priming %s failed: %v", key, err)
		}
	}

	prime(Collection("claims"), "list")
	prime(Item("claims", "1"), "one")
	prime(Item("claims", "2"), "two")
	prime(Collection("allowances"), "other")

	s.InvalidateResource("claims")

	for _, key := range []Key{Collection("claims"), Item("claims", "1"), Item("claims", "2")} {
		if _, ok := s.Peek(key); ok {
			t.Errorf("entry %s survived InvalidateResource", key)
		}
	}
	if _, ok := s.Peek(Collection("allowances")); !ok {
		t.Error("unrelated resource was invalidated")
	}
}

func TestStore_Clear(t *testing.T) {
	s, _ := testStore(30 * time.Second)
	if _, err := s.Get(context.Background(), Collection("claims"), func(ctx context.Context) (any, error) {
		return "v", nil
	}); err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	s.Clear()
	if _, ok := s.Peek(Collection("claims")); ok {
		t.Error("entry survived Clear()")
	}
}

func TestFetch_Typed(t *testing.T) {
	s, _ := testStore(30 * time.Second)

	type claimPage struct{ Total int }

	got, err := Fetch(context.Background(), s, Collection("claims"), func(ctx context.Context) (claimPage, error) {
		return claimPage{Total: 3}, nil
	})
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	if got.Total != 3 {
		t.Errorf("Fetch() = %+v, want Total 3", got)
	}

	// A second typed fetch hits the cache, not the loader.
	got, err = Fetch(context.Background(), s, Collection("claims"), func(ctx context.Context) (claimPage, error) {
		t.Fatal("loader must not run for a fresh entry")
		return claimPage{}, nil
	})
	if err != nil {
		t.Fatalf("cached Fetch() failed: %v", err)
	}
	if got.Total != 3 {
		t.Errorf("cached Fetch() = %+v, want Total 3", got)
	}
}

func TestFetch_TypeMismatch(t *testing.T) {
	s, _ := testStore(30 * time.Second)
	key := Collection("claims")

	if _, err := s.Get(context.Background(), key, func(ctx context.Context) (any, error) {
		return "a string", nil
	}); err != nil {
		t.Fatalf("Get() failed: %v", err)
	}

	_, err := Fetch(context.Background(), s, key, func(ctx context.Context) (int, error) {
		return 0, nil
	})
	if err == nil {
		t.Fatal("Fetch() with mismatched type should fail")
	}
}

func TestStore_LoadErrorPropagatesToAllWaiters(t *testing.T) {
	s, _ := testStore(30 * time.Second)
	key := Collection("projects")
	boom := errors.New("timeout")

	gate := make(chan struct{})
	var calls int32
	load := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		<-gate
		return nil, boom
	}

	const n = 4
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.Get(context.Background(), key, load)
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(gate)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("loader called %d times, want 1", got)
	}
	for i, err := range errs {
		if !errors.Is(err, boom) {
			t.Errorf("goroutine %d error = %v, want shared load error", i, err)
		}
	}
	if _, ok := s.Peek(key); ok {
		t.Error("failed load must not cache anything")
	}
}
