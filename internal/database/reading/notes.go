package reading

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/readnwin/reader/internal/database"
	"github.com/readnwin/reader/internal/entities"
)

// ListNotes returns a user's notes for a book, newest first.
func (r *Repository) ListNotes(userID, bookID string) ([]entities.UserNote, error) {
	notes := []entities.UserNote{}
	err := r.db.Where("user_id = ? AND book_id = ?", userID, bookID).
		Order("created_at DESC").
		Find(&notes).Error
	return notes, err
}

func (r *Repository) GetNote(userID, id string) (*entities.UserNote, error) {
	var note entities.UserNote
	err := r.db.Where("user_id = ? AND id = ?", userID, id).First(&note).Error
	if err != nil {
		return nil, database.NotFound(err, "get note "+id)
	}
	return &note, nil
}

// CreateNote assigns a new id and stores the note.
func (r *Repository) CreateNote(n *entities.UserNote) error {
	n.ID = uuid.NewString()
	if n.NoteType == "" {
		n.NoteType = entities.NoteTypeGeneral
	}
	n.Tags = n.Tags.Normalize()
	if err := r.db.Create(n).Error; err != nil {
		return fmt.Errorf("create note: %w", err)
	}
	return nil
}

// UpdateNote applies a partial update and returns the stored result.
func (r *Repository) UpdateNote(userID, id string, update entities.NoteUpdate) (*entities.UserNote, error) {
	note, err := r.GetNote(userID, id)
	if err != nil {
		return nil, err
	}
	update.Apply(note)
	note.Tags = note.Tags.Normalize()
	if err := r.db.Save(note).Error; err != nil {
		return nil, fmt.Errorf("update note %s: %w", id, err)
	}
	return note, nil
}

func (r *Repository) DeleteNote(userID, id string) error {
	res := r.db.Where("user_id = ? AND id = ?", userID, id).Delete(&entities.UserNote{})
	if res.Error != nil {
		return fmt.Errorf("delete note %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete note %s: %w", id, database.ErrNotFound)
	}
	return nil
}
