package task

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
)

func TestTick_FixedOrder(t *testing.T) {
	s := NewScheduler(clock.NewMock())
	var order []string
	s.Add("a", func(*Context) { order = append(order, "a") })
	s.Add("b", func(*Context) { order = append(order, "b") })
	s.Add("c", func(*Context) { order = append(order, "c") })

	s.Tick()
	s.Tick()

	want := []string{"a", "b", "c", "a", "b", "c"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestTick_ContextPersistsPerTask(t *testing.T) {
	s := NewScheduler(clock.NewMock())
	var aPhases, bPhases []int
	s.Add("a", func(tc *Context) {
		aPhases = append(aPhases, tc.Phase)
		tc.Phase++
	})
	s.Add("b", func(tc *Context) {
		bPhases = append(bPhases, tc.Phase)
		// b stays in phase 0 forever
	})

	for i := 0; i < 3; i++ {
		s.Tick()
	}

	for i, p := range aPhases {
		if p != i {
			t.Errorf("a saw phase %d on tick %d, want %d", p, i, i)
		}
	}
	for i, p := range bPhases {
		if p != 0 {
			t.Errorf("b saw phase %d on tick %d, contexts must not be shared", p, i)
		}
	}
}

func TestRun_TicksUntilCancelled(t *testing.T) {
	clk := clock.NewMock()
	s := NewScheduler(clk)
	ticks := 0
	s.Add("count", func(*Context) { ticks++ })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, 10*time.Millisecond) }()

	// Let the goroutine reach the ticker before advancing the mock clock.
	time.Sleep(10 * time.Millisecond)
	clk.Add(35 * time.Millisecond)
	time.Sleep(10 * time.Millisecond)

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ticks < 3 {
		t.Errorf("got %d ticks after advancing 35ms at 10ms interval, want >= 3", ticks)
	}
}
