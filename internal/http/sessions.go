package http

import (
	"github.com/gin-gonic/gin"

	"github.com/readnwin/reader/internal/entities"
	"github.com/readnwin/reader/internal/logger"
	"github.com/readnwin/reader/internal/tasks"
)

type SessionsController struct {
	sessions SessionStore
	progress ProgressStore
	queue    TaskQueue
	log      logger.Logger
}

// NewSessionsController creates the controller. With a nil queue sessions are
// folded into progress during the request.
func NewSessionsController(sessions SessionStore, progress ProgressStore, queue TaskQueue, log logger.Logger) *SessionsController {
	return &SessionsController{sessions: sessions, progress: progress, queue: queue, log: log}
}

// Record stores a completed reading session and folds its duration into the
// reading progress.
// POST /api/reading/sessions
func (sc *SessionsController) Record(c *gin.Context) {
	var s entities.ReadingSession
	if err := c.ShouldBindJSON(&s); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if s.BookID == "" {
		respondBadRequest(c, "book_id is required")
		return
	}
	if s.StartTime.IsZero() {
		respondBadRequest(c, "start_time is required")
		return
	}
	if s.EndTime != nil && s.EndTime.Before(s.StartTime) {
		respondBadRequest(c, "end_time must not be before start_time")
		return
	}
	if s.DeviceType != "" && s.DeviceType != entities.DeviceTypeMobile && s.DeviceType != entities.DeviceTypeDesktop {
		respondBadRequest(c, "invalid device_type")
		return
	}
	s.UserID = GetUserID(c)

	if err := sc.sessions.CreateSession(&s); err != nil {
		respondInternalError(c, sc.log, err, "record session")
		return
	}

	if err := sc.fold(s); err != nil {
		respondInternalError(c, sc.log, err, "fold session")
		return
	}
	respondNoContent(c)
}

func (sc *SessionsController) fold(s entities.ReadingSession) error {
	if sc.queue != nil {
		task := tasks.FoldSessionTask{
			SessionID:       s.ID,
			UserID:          s.UserID,
			BookID:          s.BookID,
			DurationSeconds: s.DurationSeconds,
		}
		_, err := sc.queue.Add(task).Save()
		if err == nil {
			return nil
		}
		sc.log.Warn("failed to enqueue session fold, folding inline",
			logger.String("session_id", s.ID),
			logger.Error(err))
	}
	return sc.progress.AddSessionTime(s.UserID, s.BookID, s.DurationSeconds)
}
