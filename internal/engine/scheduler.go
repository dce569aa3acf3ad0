package engine

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"newsagent/internal/config"
	"newsagent/internal/types"
)

// Scheduler re-runs cycles at a fixed interval. It runs one cycle
// immediately on start, then wakes on a coarse poll to decide whether the
// interval has elapsed. Stop never interrupts an in-flight cycle.
type Scheduler struct {
	cfg    config.SchedulerConfig
	orch   *Orchestrator
	logger *slog.Logger

	running atomic.Bool
	done    chan struct{}

	// OnCycle, when set, observes every completed cycle result.
	OnCycle func(*types.CycleResult)
}

// NewScheduler creates a scheduler around the orchestrator.
func NewScheduler(cfg config.SchedulerConfig, orch *Orchestrator, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cfg:    cfg,
		orch:   orch,
		logger: logger.With("component", "scheduler"),
	}
}

// Running reports whether the scheduler loop is active.
func (s *Scheduler) Running() bool {
	return s.running.Load()
}

// Start launches the scheduling loop in its own goroutine. Returns
// ErrSchedulerRunning if the loop is already active.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return types.ErrSchedulerRunning
	}
	s.done = make(chan struct{})

	s.logger.Info("scheduler starting",
		"interval", s.cfg.Interval,
		"max_runs", s.cfg.MaxRuns,
	)

	go s.loop(ctx)
	return nil
}

// Stop asks the loop to exit after its current poll. It does not cancel an
// in-flight cycle and returns once the loop has exited.
func (s *Scheduler) Stop() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}
	<-s.done
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)
	defer s.running.Store(false)

	poll := s.cfg.PollInterval
	if poll <= 0 {
		poll = time.Minute
	}

	// The first run happens immediately; the interval gates every run after.
	runs := s.runOnce(ctx)
	lastRun := time.Now()

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		if s.cfg.MaxRuns > 0 && runs >= s.cfg.MaxRuns {
			s.logger.Info("scheduler reached max runs", "runs", runs)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.running.Load() {
				return
			}
			if time.Since(lastRun) < s.cfg.Interval {
				continue
			}
			runs += s.runOnce(ctx)
			lastRun = time.Now()
		}
	}
}

// runOnce executes one cycle and returns 1 if it ran, 0 if it was rejected.
func (s *Scheduler) runOnce(ctx context.Context) int {
	result, err := s.orch.RunCycle(ctx)
	if err != nil {
		s.logger.Warn("scheduled cycle rejected", "error", err)
		return 0
	}
	s.logger.Info("scheduled cycle complete",
		"new_articles", result.TotalNewArticles,
		"status", string(result.Status),
	)
	if s.OnCycle != nil {
		s.OnCycle(result)
	}
	return 1
}
