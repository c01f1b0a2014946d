package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/wardwatch/wardwatch/apps/backend/internal/service"
	"go.uber.org/zap"
)

// SweepFunc runs one sweep
type SweepFunc func(ctx context.Context) (*service.SweepReport, error)

type job struct {
	name     string
	interval time.Duration
	run      SweepFunc
}

// Scheduler runs each registered sweep on its own ticker. A sweep that
// outlasts its interval delays the next tick instead of overlapping it.
type Scheduler struct {
	jobs     []job
	logger   *zap.Logger
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates an empty Scheduler
func New(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Add registers a sweep. Non-positive intervals are ignored.
func (s *Scheduler) Add(name string, interval time.Duration, run SweepFunc) {
	if interval <= 0 || run == nil {
		s.logger.Warn("sweep not scheduled", zap.String("sweep", name), zap.Duration("interval", interval))
		return
	}
	s.jobs = append(s.jobs, job{name: name, interval: interval, run: run})
}

// Start launches one goroutine per sweep. They stop when ctx is cancelled
// or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	for _, j := range s.jobs {
		s.wg.Add(1)
		go s.loop(ctx, j)
	}
	s.logger.Info("scheduler started", zap.Int("sweeps", len(s.jobs)))
}

// Stop ends every loop and waits for running sweeps to return
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, j job) {
	defer s.wg.Done()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.runOnce(ctx, j)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, j job) {
	// a sweep may not run past its next tick
	runCtx, cancel := context.WithTimeout(ctx, j.interval)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("sweep panicked", zap.String("sweep", j.name), zap.Any("panic", r))
		}
	}()

	start := time.Now()
	report, err := j.run(runCtx)
	if err != nil {
		s.logger.Error("sweep failed",
			zap.String("sweep", j.name),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return
	}
	if report == nil {
		return
	}

	fields := []zap.Field{
		zap.String("sweep", j.name),
		zap.Int("patients", report.Patients),
		zap.Int("processed", report.Processed),
		zap.Int("alerts", report.Alerts),
		zap.Int("notifications", report.Notifications),
		zap.Int("failed", report.Failed),
		zap.Duration("duration", time.Since(start)),
	}
	if report.Failed > 0 {
		s.logger.Warn("sweep finished with failures", fields...)
		return
	}
	s.logger.Debug("sweep finished", fields...)
}
