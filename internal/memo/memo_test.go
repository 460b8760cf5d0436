package memo

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestKey(t *testing.T) {
	if Key("posts") == Key("posts", "") {
		t.Error("arity should change the key")
	}
	if Key("posts", "a") == Key("posts", "b") {
		t.Error("different args should produce different keys")
	}
	if Key("posts", "a") != Key("posts", "a") {
		t.Error("identical calls should produce identical keys")
	}
	if Key("a", "b") == Key("ab") {
		t.Error("op and arg must not concatenate ambiguously")
	}
}

func TestDo_ComputesOncePerKey(t *testing.T) {
	p := NewPass()
	ctx := WithContext(context.Background(), p)

	var calls atomic.Int32
	fn := func() (string, error) {
		calls.Add(1)
		return "value", nil
	}

	for i := 0; i < 5; i++ {
		got, err := Do(ctx, Key("op", "arg"), fn)
		if err != nil {
			t.Fatalf("Do: %v", err)
		}
		if got != "value" {
			t.Fatalf("got %q, want %q", got, "value")
		}
	}

	if n := calls.Load(); n != 1 {
		t.Fatalf("fn called %d times, want 1", n)
	}
}

func TestDo_DistinctKeysComputeSeparately(t *testing.T) {
	p := NewPass()
	ctx := WithContext(context.Background(), p)

	var calls atomic.Int32
	fn := func() (int, error) {
		return int(calls.Add(1)), nil
	}

	a, _ := Do(ctx, Key("op", "a"), fn)
	b, _ := Do(ctx, Key("op", "b"), fn)

	if a == b {
		t.Fatalf("distinct keys shared a computation: %d == %d", a, b)
	}
}

func TestDo_ErrorsAreCached(t *testing.T) {
	p := NewPass()
	ctx := WithContext(context.Background(), p)

	sentinel := errors.New("fetch failed")
	var calls atomic.Int32
	fn := func() (string, error) {
		calls.Add(1)
		return "", sentinel
	}

	for i := 0; i < 3; i++ {
		_, err := Do(ctx, Key("op"), fn)
		if !errors.Is(err, sentinel) {
			t.Fatalf("err = %v, want sentinel", err)
		}
	}

	// no retries within a pass
	if n := calls.Load(); n != 1 {
		t.Fatalf("fn called %d times, want 1", n)
	}
}

func TestDo_NoPassComputesDirectly(t *testing.T) {
	var calls atomic.Int32
	fn := func() (string, error) {
		calls.Add(1)
		return "direct", nil
	}

	for i := 0; i < 3; i++ {
		got, err := Do(context.Background(), Key("op"), fn)
		if err != nil || got != "direct" {
			t.Fatalf("got %q, %v", got, err)
		}
	}

	if n := calls.Load(); n != 3 {
		t.Fatalf("fn called %d times, want 3 (no memoization without a pass)", n)
	}
}

func TestDo_SeparatePassesDoNotShare(t *testing.T) {
	var calls atomic.Int32
	fn := func() (string, error) {
		calls.Add(1)
		return "v", nil
	}

	ctx1 := WithContext(context.Background(), NewPass())
	ctx2 := WithContext(context.Background(), NewPass())

	Do(ctx1, Key("op"), fn)
	Do(ctx2, Key("op"), fn)

	if n := calls.Load(); n != 2 {
		t.Fatalf("fn called %d times, want 2 (one per pass)", n)
	}
}

func TestDo_ConcurrentCallsCollapse(t *testing.T) {
	p := NewPass()
	ctx := WithContext(context.Background(), p)

	var calls atomic.Int32
	gate := make(chan struct{})
	fn := func() (string, error) {
		calls.Add(1)
		<-gate
		return "slow", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := Do(ctx, Key("op"), fn)
			if err != nil || got != "slow" {
				t.Errorf("got %q, %v", got, err)
			}
		}()
	}

	close(gate)
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Fatalf("fn called %d times, want 1 (in-flight collapse)", n)
	}
}

func TestDo_HitMissCounters(t *testing.T) {
	p := NewPass()
	var hits, misses atomic.Int32
	p.OnHit = func() { hits.Add(1) }
	p.OnMiss = func() { misses.Add(1) }
	ctx := WithContext(context.Background(), p)

	fn := func() (string, error) { return "v", nil }

	Do(ctx, Key("op"), fn)
	Do(ctx, Key("op"), fn)
	Do(ctx, Key("op"), fn)

	if got := misses.Load(); got != 1 {
		t.Fatalf("misses = %d, want 1", got)
	}
	if got := hits.Load(); got != 2 {
		t.Fatalf("hits = %d, want 2", got)
	}
}

func TestFromContext_Absent(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Fatal("FromContext on bare context should report absent")
	}
}
