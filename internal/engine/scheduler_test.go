package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"newsagent/internal/config"
	"newsagent/internal/types"
)

func TestSchedulerRunsImmediatelyAndStops(t *testing.T) {
	srv := newsSite(t)
	o := testOrchestrator(t, srv)

	sched := NewScheduler(config.SchedulerConfig{
		Interval:     time.Hour,
		PollInterval: 10 * time.Millisecond,
		MaxRuns:      1,
	}, o, testLogger)

	results := make(chan *types.CycleResult, 1)
	sched.OnCycle = func(r *types.CycleResult) { results <- r }

	if err := sched.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	select {
	case r := <-results:
		if r.TotalNewArticles != 2 {
			t.Errorf("immediate run new = %d, want 2", r.TotalNewArticles)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("first cycle did not run immediately")
	}

	// MaxRuns reached: the loop winds down on its own.
	deadline := time.Now().Add(5 * time.Second)
	for sched.Running() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if sched.Running() {
		t.Fatal("scheduler did not stop after max runs")
	}
}

func TestSchedulerRejectsDoubleStart(t *testing.T) {
	srv := newsSite(t)
	o := testOrchestrator(t, srv)

	sched := NewScheduler(config.SchedulerConfig{
		Interval:     time.Hour,
		PollInterval: 10 * time.Millisecond,
	}, o, testLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := sched.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := sched.Start(ctx); !errors.Is(err, types.ErrSchedulerRunning) {
		t.Errorf("second start should be rejected, got %v", err)
	}

	sched.Stop()
	if sched.Running() {
		t.Error("scheduler still running after stop")
	}
}

func TestSchedulerStopIsIdempotent(t *testing.T) {
	srv := newsSite(t)
	o := testOrchestrator(t, srv)

	sched := NewScheduler(config.SchedulerConfig{
		Interval:     time.Hour,
		PollInterval: 10 * time.Millisecond,
	}, o, testLogger)

	if err := sched.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	sched.Stop()
	sched.Stop() // second stop must not block or panic
}
