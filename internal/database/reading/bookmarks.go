package reading

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/readnwin/reader/internal/database"
	"github.com/readnwin/reader/internal/entities"
)

func (r *Repository) ListBookmarks(userID, bookID string) ([]entities.Bookmark, error) {
	bookmarks := []entities.Bookmark{}
	err := r.db.Where("user_id = ? AND book_id = ?", userID, bookID).
		Order("created_at ASC").
		Find(&bookmarks).Error
	return bookmarks, err
}

// SaveBookmark stores a bookmark under its client-generated id. Saving the
// same id twice is idempotent.
func (r *Repository) SaveBookmark(b *entities.Bookmark) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = r.now()
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"chapter_id", "position", "title"}),
	}).Create(b).Error
	if err != nil {
		return fmt.Errorf("save bookmark: %w", err)
	}
	return nil
}

func (r *Repository) DeleteBookmark(userID, id string) error {
	res := r.db.Where("user_id = ? AND id = ?", userID, id).Delete(&entities.Bookmark{})
	if res.Error != nil {
		return fmt.Errorf("delete bookmark %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete bookmark %s: %w", id, database.ErrNotFound)
	}
	return nil
}
