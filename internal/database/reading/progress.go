package reading

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/readnwin/reader/internal/database"
	"github.com/readnwin/reader/internal/entities"
)

// GetProgress returns the progress record of a user for a book.
func (r *Repository) GetProgress(userID, bookID string) (*entities.ReadingProgress, error) {
	var progress entities.ReadingProgress
	err := r.db.Where("user_id = ? AND book_id = ?", userID, bookID).First(&progress).Error
	if err != nil {
		return nil, database.NotFound(err, "get progress")
	}
	return &progress, nil
}

// byUserBook is the conflict target of progress upserts, the
// idx_progress_user_book unique index.
var byUserBook = []clause.Column{{Name: "user_id"}, {Name: "book_id"}}

// SaveProgress upserts the position part of a progress record. Reading time
// and session counters are owned by the server and only change through
// AddSessionTime. Reaching 100% stamps the completion time once.
//
// The write is a single INSERT .. ON CONFLICT statement so it never races a
// concurrent AddSessionTime creating the same record.
func (r *Repository) SaveProgress(p *entities.ReadingProgress) (*entities.ReadingProgress, error) {
	now := r.now()
	row := entities.ReadingProgress{
		ID:                 uuid.NewString(),
		UserID:             p.UserID,
		BookID:             p.BookID,
		CurrentChapterID:   p.CurrentChapterID,
		CurrentPosition:    p.CurrentPosition,
		ProgressPercentage: clampPercentage(p.ProgressPercentage),
		StartedAt:          p.StartedAt,
		LastReadAt:         p.LastReadAt,
	}
	if row.StartedAt.IsZero() {
		row.StartedAt = now
	}
	if row.LastReadAt.IsZero() {
		row.LastReadAt = now
	}

	completedAt := gorm.Expr("completed_at")
	if row.ProgressPercentage >= 100 {
		row.CompletedAt = &now
		completedAt = gorm.Expr("COALESCE(completed_at, ?)", now)
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns: byUserBook,
		DoUpdates: clause.Assignments(map[string]any{
			"current_chapter_id":  row.CurrentChapterID,
			"current_position":    row.CurrentPosition,
			"progress_percentage": row.ProgressPercentage,
			"last_read_at":        row.LastReadAt,
			"completed_at":        completedAt,
		}),
	}).Create(&row).Error
	if err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}
	return r.GetProgress(p.UserID, p.BookID)
}

// AddSessionTime folds a finished reading session into the progress record,
// creating the record when the user has never saved a position.
func (r *Repository) AddSessionTime(userID, bookID string, seconds int64) error {
	if seconds < 0 {
		seconds = 0
	}
	now := r.now()
	row := entities.ReadingProgress{
		ID:               uuid.NewString(),
		UserID:           userID,
		BookID:           bookID,
		TotalReadingTime: seconds,
		SessionsCount:    1,
		StartedAt:        now,
		LastReadAt:       now,
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns: byUserBook,
		DoUpdates: clause.Assignments(map[string]any{
			"total_reading_time": gorm.Expr("total_reading_time + ?", seconds),
			"sessions_count":     gorm.Expr("sessions_count + 1"),
		}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("add session time: %w", err)
	}
	return nil
}

func clampPercentage(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
