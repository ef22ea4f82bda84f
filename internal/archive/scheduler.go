package archive

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DailyScheduler runs a job once at start and then at every UTC midnight
// until its context is cancelled. SkipInitial drops the run at start.
type DailyScheduler struct {
	Job         func(ctx context.Context)
	Logger      *zap.Logger
	SkipInitial bool
}

// Start blocks until ctx is done.
func (s *DailyScheduler) Start(ctx context.Context) {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	run := !s.SkipInitial
	for {
		if run {
			s.Job(ctx)
		}
		run = true

		next := NextMidnight(time.Now())
		logger.Info("next scheduled run", zap.Time("at", next))
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// NextMidnight returns the first UTC midnight strictly after t.
func NextMidnight(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
}
