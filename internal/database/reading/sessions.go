package reading

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/readnwin/reader/internal/entities"
)

// CreateSession stores a completed reading session. The duration is
// recomputed from the timestamps when both are present.
func (r *Repository) CreateSession(s *entities.ReadingSession) error {
	s.ID = uuid.NewString()
	if s.EndTime != nil && !s.StartTime.IsZero() {
		d := int64(s.EndTime.Sub(s.StartTime) / time.Second)
		if d < 0 {
			d = 0
		}
		s.DurationSeconds = d
	}
	if s.DurationSeconds < 0 {
		s.DurationSeconds = 0
	}
	if s.DeviceType == "" {
		s.DeviceType = entities.DeviceTypeDesktop
	}
	if err := r.db.Create(s).Error; err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// ListSessions returns a user's sessions for a book, most recent first.
func (r *Repository) ListSessions(userID, bookID string) ([]entities.ReadingSession, error) {
	sessions := []entities.ReadingSession{}
	err := r.db.Where("user_id = ? AND book_id = ?", userID, bookID).
		Order("start_time DESC").
		Find(&sessions).Error
	return sessions, err
}

// DeleteSessionsBefore purges sessions that started before the cutoff and
// returns how many were removed.
func (r *Repository) DeleteSessionsBefore(cutoff time.Time) (int64, error) {
	res := r.db.Where("start_time < ?", cutoff).Delete(&entities.ReadingSession{})
	return res.RowsAffected, res.Error
}
