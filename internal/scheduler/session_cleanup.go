// Package scheduler runs periodic maintenance jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"

	"github.com/readnwin/reader/internal/logger"
	"github.com/readnwin/reader/internal/tasks"
)

// TaskQueue enqueues background tasks. *tasks.Client implements it.
type TaskQueue interface {
	Add(tasks ...backlite.Task) *backlite.TaskAddOp
}

// SessionCleanupScheduler periodically deletes old reading sessions. When a
// task queue is configured the purge is enqueued, otherwise it runs inline.
type SessionCleanupScheduler struct {
	purger        tasks.SessionPurger
	queue         TaskQueue
	retentionDays int
	schedule      string
	log           logger.Logger

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool
	isPurging bool
}

func NewSessionCleanupScheduler(purger tasks.SessionPurger, queue TaskQueue, retentionDays int, schedule string, log logger.Logger) *SessionCleanupScheduler {
	return &SessionCleanupScheduler{
		purger:        purger,
		queue:         queue,
		retentionDays: retentionDays,
		schedule:      schedule,
		log:           log,
		cron:          cron.New(cron.WithParser(cronParser)),
	}
}

// Start schedules the cleanup job. Zero retention disables it. The scheduler
// stops when ctx is cancelled.
func (s *SessionCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if s.retentionDays <= 0 {
		s.log.Info("session cleanup scheduler: disabled (retention not set)")
		return nil
	}
	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.RunNow()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule session cleanup: %w", err)
	}
	s.entryID = entryID
	s.cron.Start()
	s.isRunning = true

	next, _ := GetNextRunTime(s.schedule, time.Now())
	s.log.Info("session cleanup scheduler: started",
		logger.String("schedule", s.schedule),
		logger.String("description", GetCronDescription(s.schedule)),
		logger.Int("retention_days", s.retentionDays),
		logger.String("next_run", next.Format(time.RFC3339)))

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop waits for a running job and stops the scheduler.
func (s *SessionCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}
	<-s.cron.Stop().Done()
	s.isRunning = false
	s.log.Info("session cleanup scheduler: stopped")
}

func (s *SessionCleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the job fires next, or nil when not running.
func (s *SessionCleanupScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	entry := s.cron.Entry(s.entryID)
	if !entry.Valid() {
		return nil
	}
	return &entry.Next
}

// RunNow performs one cleanup. Overlapping runs are skipped.
func (s *SessionCleanupScheduler) RunNow() error {
	s.mu.Lock()
	if s.isPurging {
		s.mu.Unlock()
		s.log.Info("session cleanup: skipped (already running)")
		return nil
	}
	s.isPurging = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isPurging = false
		s.mu.Unlock()
	}()

	if s.queue != nil {
		if _, err := s.queue.Add(tasks.PurgeSessionsTask{RetentionDays: s.retentionDays}).Save(); err != nil {
			s.log.Error("session cleanup: failed to enqueue purge", logger.Error(err))
			return err
		}
		return nil
	}

	if _, err := tasks.PurgeSessions(s.purger, s.log, s.retentionDays, time.Now()); err != nil {
		s.log.Error("session cleanup failed", logger.Error(err))
		return err
	}
	return nil
}
