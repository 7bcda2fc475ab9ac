package http

import (
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/readnwin/reader/internal/entities"
)

// Store interfaces used by the controllers. books.Repository and
// reading.Repository implement them.

type BookStore interface {
	GetBook(id string) (*entities.ModernBook, error)
	Search(bookID, query string, limit int) ([]entities.SearchResult, error)
}

type ProgressStore interface {
	GetProgress(userID, bookID string) (*entities.ReadingProgress, error)
	SaveProgress(p *entities.ReadingProgress) (*entities.ReadingProgress, error)
	AddSessionTime(userID, bookID string, seconds int64) error
}

type HighlightStore interface {
	ListHighlights(userID, bookID string) ([]entities.UserHighlight, error)
	CreateHighlight(h *entities.UserHighlight) error
	UpdateHighlight(userID, id string, update entities.HighlightUpdate) (*entities.UserHighlight, error)
	DeleteHighlight(userID, id string) error
}

type NoteStore interface {
	ListNotes(userID, bookID string) ([]entities.UserNote, error)
	CreateNote(n *entities.UserNote) error
	UpdateNote(userID, id string, update entities.NoteUpdate) (*entities.UserNote, error)
	DeleteNote(userID, id string) error
}

type BookmarkStore interface {
	ListBookmarks(userID, bookID string) ([]entities.Bookmark, error)
	SaveBookmark(b *entities.Bookmark) error
	DeleteBookmark(userID, id string) error
}

type SessionStore interface {
	CreateSession(s *entities.ReadingSession) error
	DeleteSessionsBefore(cutoff time.Time) (int64, error)
}

// ReadingStore combines the per-user reading stores.
type ReadingStore interface {
	ProgressStore
	HighlightStore
	NoteStore
	BookmarkStore
	SessionStore
}

// TaskQueue enqueues background tasks. *tasks.Client implements it.
type TaskQueue interface {
	Add(tasks ...backlite.Task) *backlite.TaskAddOp
}
