// Package jobs runs periodic maintenance on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tikbook/internal/logging"
	"github.com/robfig/cron/v3"
)

// ActivityPruner drops activity items older than a cutoff.
type ActivityPruner interface {
	PruneActivities(ctx context.Context, before time.Time) (int, error)
}

// Scheduler manages the cron jobs.
type Scheduler struct {
	cron   *cron.Cron
	logger logging.Logger
	now    func() time.Time
}

func NewScheduler(logger logging.Logger) *Scheduler {
	c := cron.New(cron.WithChain(cron.Recover(cronLogger{logger})))
	return &Scheduler{cron: c, logger: logger, now: time.Now}
}

// RegisterActivityRetention schedules a job that prunes activity items
// older than retention. A non-positive retention registers nothing.
func (s *Scheduler) RegisterActivityRetention(spec string, retention time.Duration, p ActivityPruner) error {
	if retention <= 0 {
		s.logger.Info(context.Background(), "activity retention disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(spec, func() { s.pruneActivities(p, retention) }); err != nil {
		return fmt.Errorf("failed to schedule activity retention job [%s]: %w", spec, err)
	}
	s.logger.Info(context.Background(), "scheduled activity retention job", "schedule", spec, "retention", retention)
	return nil
}

func (s *Scheduler) pruneActivities(p ActivityPruner, retention time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := s.now().Add(-retention)
	removed, err := p.PruneActivities(ctx, cutoff)
	if err != nil {
		s.logger.Error(ctx, "activity retention job failed", "error", err)
		return
	}
	s.logger.Debug(ctx, "activity retention job finished", "removed", removed, "cutoff", cutoff)
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and returns a context that is done once
// running jobs have completed.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// cronLogger adapts logging.Logger to cron.Logger.
type cronLogger struct {
	l logging.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug(context.Background(), "cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error(context.Background(), "cron: "+msg, append(keysAndValues, "error", err)...)
}
