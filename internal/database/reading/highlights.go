package reading

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/readnwin/reader/internal/database"
	"github.com/readnwin/reader/internal/entities"
)

// ListHighlights returns a user's highlights for a book in reading order.
func (r *Repository) ListHighlights(userID, bookID string) ([]entities.UserHighlight, error) {
	highlights := []entities.UserHighlight{}
	err := r.db.Where("user_id = ? AND book_id = ?", userID, bookID).
		Order("chapter_id ASC, start_offset ASC, created_at ASC").
		Find(&highlights).Error
	return highlights, err
}

func (r *Repository) GetHighlight(userID, id string) (*entities.UserHighlight, error) {
	var highlight entities.UserHighlight
	err := r.db.Where("user_id = ? AND id = ?", userID, id).First(&highlight).Error
	if err != nil {
		return nil, database.NotFound(err, "get highlight "+id)
	}
	return &highlight, nil
}

// CreateHighlight assigns a new id and stores the highlight.
func (r *Repository) CreateHighlight(h *entities.UserHighlight) error {
	h.ID = uuid.NewString()
	if h.Color == "" {
		h.Color = entities.HighlightColorYellow
	}
	if err := r.db.Create(h).Error; err != nil {
		return fmt.Errorf("create highlight: %w", err)
	}
	return nil
}

// UpdateHighlight applies a partial update and returns the stored result.
func (r *Repository) UpdateHighlight(userID, id string, update entities.HighlightUpdate) (*entities.UserHighlight, error) {
	highlight, err := r.GetHighlight(userID, id)
	if err != nil {
		return nil, err
	}
	update.Apply(highlight)
	if err := r.db.Save(highlight).Error; err != nil {
		return nil, fmt.Errorf("update highlight %s: %w", id, err)
	}
	return highlight, nil
}

// DeleteHighlight removes a highlight and detaches notes that referenced it.
func (r *Repository) DeleteHighlight(userID, id string) error {
	res := r.db.Where("user_id = ? AND id = ?", userID, id).Delete(&entities.UserHighlight{})
	if res.Error != nil {
		return fmt.Errorf("delete highlight %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete highlight %s: %w", id, database.ErrNotFound)
	}
	return r.db.Model(&entities.UserNote{}).
		Where("user_id = ? AND highlight_id = ?", userID, id).
		Update("highlight_id", "").Error
}
