// Package task provides the cooperative multitasking primitive used by the
// control loop: small resumable state machines that each do one bounded unit
// of work per tick and remember their progress in a per-task context owned
// by the scheduler. Nothing here blocks; "waiting" is expressed by a task
// doing nothing until a later tick.
package task

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/Carlo47/DCmotor-control/internal/debug"
)

// Context holds one task's resumable state between ticks. Phase is the
// task's own state-machine position; the task advances it when a step of
// its sequence reports completion.
type Context struct {
	Phase int
}

// Func advances a task by one bounded unit of work. It must not block or
// sleep; all progress that spans ticks lives in tc.
type Func func(tc *Context)

type entry struct {
	name string
	fn   Func
	tc   Context
}

// Scheduler ticks a fixed-order list of cooperative tasks on a single
// goroutine. Within one tick, tasks run in the order they were added.
type Scheduler struct {
	clk   clock.Clock
	tasks []entry
}

// NewScheduler creates an empty scheduler. A nil clk selects the wall clock.
func NewScheduler(clk clock.Clock) *Scheduler {
	if clk == nil {
		clk = clock.New()
	}
	return &Scheduler{clk: clk}
}

// Add appends a task. The scheduler owns the task's Context and passes it
// into fn on every tick.
func (s *Scheduler) Add(name string, fn Func) {
	debug.Verbose("Scheduler: task %q added at position %d", name, len(s.tasks))
	s.tasks = append(s.tasks, entry{name: name, fn: fn})
}

// Tick runs every task once, in registration order.
func (s *Scheduler) Tick() {
	for i := range s.tasks {
		s.tasks[i].fn(&s.tasks[i].tc)
	}
}

// Run ticks all tasks at the given interval until ctx is done.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) error {
	debug.Info("Scheduler: running %d tasks every %v", len(s.tasks), interval)
	ticker := s.clk.Ticker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			debug.Info("Scheduler: stopped")
			return nil
		case <-ticker.C:
			s.Tick()
		}
	}
}
