package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/readnwin/reader/internal/logger"
)

// SessionFolder adds a finished session's duration to the reading progress.
type SessionFolder interface {
	AddSessionTime(userID, bookID string, seconds int64) error
}

// SessionPurger deletes reading sessions that started before a cutoff.
type SessionPurger interface {
	DeleteSessionsBefore(cutoff time.Time) (int64, error)
}

// FoldSessionTask folds one recorded reading session into the progress
// counters of its (user, book) pair.
type FoldSessionTask struct {
	SessionID       string `json:"session_id"`
	UserID          string `json:"user_id"`
	BookID          string `json:"book_id"`
	DurationSeconds int64  `json:"duration_seconds"`
}

// Config returns the queue configuration for session folding. A fold is not
// idempotent, so it runs at most once.
func (t FoldSessionTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "fold_reading_session",
		MaxAttempts: 1,
		Backoff:     time.Second,
		Timeout:     30 * time.Second,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// FoldSessionProcessor creates a processor function for FoldSessionTask.
func FoldSessionProcessor(folder SessionFolder, log logger.Logger) backlite.QueueProcessor[FoldSessionTask] {
	return func(ctx context.Context, task FoldSessionTask) error {
		if folder == nil {
			return fmt.Errorf("session folder not configured")
		}
		if err := folder.AddSessionTime(task.UserID, task.BookID, task.DurationSeconds); err != nil {
			return fmt.Errorf("fold session %s: %w", task.SessionID, err)
		}
		log.Debug("folded reading session",
			logger.String("session_id", task.SessionID),
			logger.String("book_id", task.BookID),
			logger.Int64("duration_seconds", task.DurationSeconds))
		return nil
	}
}

func NewFoldSessionQueue(folder SessionFolder, log logger.Logger) backlite.Queue {
	return backlite.NewQueue(FoldSessionProcessor(folder, log))
}

// PurgeSessionsTask deletes reading sessions older than RetentionDays.
type PurgeSessionsTask struct {
	RetentionDays int `json:"retention_days"`
}

func (t PurgeSessionsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "purge_reading_sessions",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// PurgeSessionsProcessor creates a processor function for PurgeSessionsTask.
// now is injectable for tests.
func PurgeSessionsProcessor(purger SessionPurger, log logger.Logger, now func() time.Time) backlite.QueueProcessor[PurgeSessionsTask] {
	return func(ctx context.Context, task PurgeSessionsTask) error {
		_, err := PurgeSessions(purger, log, task.RetentionDays, now())
		return err
	}
}

func NewPurgeSessionsQueue(purger SessionPurger, log logger.Logger) backlite.Queue {
	return backlite.NewQueue(PurgeSessionsProcessor(purger, log, time.Now))
}

// PurgeSessions deletes sessions older than retentionDays relative to now.
// A non-positive retention keeps everything.
func PurgeSessions(purger SessionPurger, log logger.Logger, retentionDays int, now time.Time) (int64, error) {
	if purger == nil {
		return 0, fmt.Errorf("session purger not configured")
	}
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := now.AddDate(0, 0, -retentionDays)
	deleted, err := purger.DeleteSessionsBefore(cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge reading sessions: %w", err)
	}
	log.Info("purged reading sessions",
		logger.Int64("deleted", deleted),
		logger.Int("retention_days", retentionDays))
	return deleted, nil
}
