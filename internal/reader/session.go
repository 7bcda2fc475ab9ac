package reader

import (
	"context"
	"strings"

	"github.com/readnwin/reader/internal/entities"
	"github.com/readnwin/reader/internal/logger"
)

var mobileMarkers = []string{"Mobi", "Android", "iPhone", "iPad"}

// DetectDevice classifies a user agent as mobile or desktop.
func DetectDevice(userAgent string) entities.DeviceType {
	for _, marker := range mobileMarkers {
		if strings.Contains(userAgent, marker) {
			return entities.DeviceTypeMobile
		}
	}
	return entities.DeviceTypeDesktop
}

// StartReadingSession opens a session for the current book. The caller is
// responsible for ending a previous session first.
func (s *Store) StartReadingSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startSessionLocked()
}

func (s *Store) startSessionLocked() {
	if s.state.Book == nil || s.noSessions {
		return
	}
	position := 0
	if s.state.Progress != nil {
		position = s.state.Progress.CurrentPosition
	}
	s.state.Session = &entities.ReadingSession{
		UserID:        s.userID,
		BookID:        s.state.Book.ID,
		StartTime:     s.now(),
		StartPosition: position,
		EndPosition:   position,
		DeviceType:    DetectDevice(s.userAgent),
	}
}

// EndReadingSession closes the active session and reports it in the
// background. The session is cleared even if reporting fails.
func (s *Store) EndReadingSession() {
	s.mu.Lock()
	ended := s.endSessionLocked()
	s.mu.Unlock()
	if ended != nil {
		s.recordSession(*ended)
	}
}

func (s *Store) endSessionLocked() *entities.ReadingSession {
	sess := s.state.Session
	if sess == nil {
		return nil
	}
	s.state.Session = nil

	end := s.now()
	sess.EndTime = &end
	sess.DurationSeconds = int64(end.Sub(sess.StartTime).Seconds())
	if sess.DurationSeconds < 0 {
		sess.DurationSeconds = 0
	}
	if s.state.Progress != nil {
		sess.EndPosition = s.state.Progress.CurrentPosition
	}
	return sess
}

func (s *Store) recordSession(sess entities.ReadingSession) {
	s.background("record reading session", func(ctx context.Context) error {
		return s.sendSession(ctx, sess)
	})
}

func (s *Store) sendSession(ctx context.Context, sess entities.ReadingSession) error {
	s.log.Debug("reading session ended",
		logger.String("book_id", sess.BookID),
		logger.Int64("duration_seconds", sess.DurationSeconds),
	)
	return s.api.RecordSession(as(ctx, sess.UserID), sess)
}

// closeBook writes the final progress of a book being left and then its
// finished session, one after the other on a single goroutine.
func (s *Store) closeBook(ended *entities.ReadingSession, flush *pendingSave) {
	if ended == nil && flush == nil {
		return
	}
	s.background("record reading session", func(ctx context.Context) error {
		if flush != nil {
			// saveProgress logs its own failure; the session is still sent.
			_ = s.saveProgress(ctx, flush)
		}
		if ended == nil {
			return nil
		}
		return s.sendSession(ctx, *ended)
	})
}
