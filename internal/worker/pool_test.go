package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestMap_PreservesOrder(t *testing.T) {
	items := []int{5, 4, 3, 2, 1, 0}

	// Earlier items sleep longer so they finish last
	results, err := Map(context.Background(), 3, items, func(_ context.Context, n int) int {
		time.Sleep(time.Duration(n) * 2 * time.Millisecond)
		return n * 10
	})
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}

	for i, n := range items {
		if results[i] != n*10 {
			t.Errorf("index %d: expected %d, got %d", i, n*10, results[i])
		}
	}
}

func TestMap_BoundsConcurrency(t *testing.T) {
	var active, peak int32
	items := make([]int, 20)

	_, err := Map(context.Background(), 4, items, func(_ context.Context, _ int) struct{} {
		cur := atomic.AddInt32(&active, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		return struct{}{}
	})
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}

	if peak > 4 {
		t.Errorf("expected at most 4 concurrent calls, saw %d", peak)
	}
}

func TestMap_Empty(t *testing.T) {
	results, err := Map(context.Background(), 4, []string{}, func(_ context.Context, s string) string { return s })
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestMap_NonPositiveWorkers(t *testing.T) {
	results, err := Map(context.Background(), 0, []int{1, 2}, func(_ context.Context, n int) int { return n + 1 })
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}
	if results[0] != 2 || results[1] != 3 {
		t.Errorf("unexpected results: %v", results)
	}
}

func TestMap_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int32
	_, err := Map(ctx, 2, []int{1, 2, 3, 4}, func(_ context.Context, n int) int {
		atomic.AddInt32(&calls, 1)
		return n
	})
	if err == nil {
		t.Error("expected context error")
	}
	if calls != 0 {
		t.Errorf("expected no calls after cancellation, got %d", calls)
	}
}
