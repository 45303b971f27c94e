package server

import (
	"context"
	"fmt"
	"time"

	"github.com/gorhill/cronexpr"
	"go.uber.org/zap"
)

// Scheduler runs a job on a cron schedule ("@hourly", "@daily" or a
// standard cron expression). Runs never overlap: the next fire time is
// computed only after the previous job returns.
type Scheduler struct {
	spec   string
	expr   *cronexpr.Expression
	Logger *zap.Logger
	Now    func() time.Time
	After  func(time.Duration) <-chan time.Time
}

func NewScheduler(spec string, logger *zap.Logger) (*Scheduler, error) {
	expr, err := cronexpr.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", spec, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{spec: spec, expr: expr, Logger: logger, Now: time.Now, After: time.After}, nil
}

// Next returns the first fire time strictly after from, or the zero time
// when the expression never fires again.
func (s *Scheduler) Next(from time.Time) time.Time {
	return s.expr.Next(from)
}

// Run blocks until ctx is cancelled. A job already in progress is allowed to
// finish; its context is detached from ctx. Job errors are logged and the
// schedule continues.
func (s *Scheduler) Run(ctx context.Context, job func(context.Context) error) error {
	log := s.Logger.With(zap.String("schedule", s.spec))
	for {
		now := s.Now()
		next := s.Next(now)
		if next.IsZero() {
			return fmt.Errorf("schedule %q has no future runs", s.spec)
		}
		log.Info("next run scheduled", zap.Time("at", next))
		select {
		case <-ctx.Done():
			return nil
		case <-s.After(next.Sub(now)):
		}

		start := s.Now()
		if err := job(context.WithoutCancel(ctx)); err != nil {
			log.Error("scheduled run failed", zap.Error(err), zap.Duration("took", s.Now().Sub(start)))
		} else {
			log.Info("scheduled run finished", zap.Duration("took", s.Now().Sub(start)))
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}
