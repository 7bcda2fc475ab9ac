package reader

import (
	"context"
	"sync"

	"github.com/readnwin/reader/internal/entities"
	"github.com/readnwin/reader/internal/logger"
)

// enrichment is the best-effort data fetched after the book content.
type enrichment struct {
	progress   *entities.ReadingProgress
	highlights []entities.UserHighlight
	notes      []entities.UserNote
	bookmarks  []entities.Bookmark
}

// LoadBook makes bookID the current book for userID. Any active session is
// ended and per-book state is cleared first. A content failure leaves no book
// loaded and sets the error field; progress, highlights, notes and bookmarks
// are fetched concurrently and default to empty when they fail.
func (s *Store) LoadBook(ctx context.Context, bookID, userID string) error {
	s.mu.Lock()
	ended := s.endSessionLocked()
	flush := s.takePendingLocked()
	s.state.resetBook()
	s.generation++
	gen := s.generation
	s.userID = userID
	s.state.Loading = true
	s.state.Error = ""
	s.mu.Unlock()

	s.closeBook(ended, flush)
	if us, ok := s.api.(userSetter); ok {
		us.SetUser(userID)
	}

	ctx = as(ctx, userID)
	book, err := s.api.GetBookContent(ctx, bookID)
	if err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.current(gen) {
			return ErrSuperseded
		}
		s.state.Loading = false
		s.fail("load book", err)
		return err
	}

	if !s.isCurrent(gen) {
		return ErrSuperseded
	}
	data := s.enrich(ctx, bookID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current(gen) {
		return ErrSuperseded
	}
	if book.Chapters == nil {
		book.Chapters = []entities.Chapter{}
	}
	s.state.Book = book
	if len(book.Chapters) > 0 {
		ch := book.Chapters[0]
		s.state.CurrentChapter = &ch
	}
	s.state.Progress = data.progress
	s.state.Highlights = orEmpty(data.highlights)
	s.state.Notes = orEmpty(data.notes)
	s.state.Bookmarks = orEmpty(data.bookmarks)
	s.state.Loading = false
	s.startSessionLocked()

	s.log.Debug("book loaded",
		logger.String("book_id", bookID),
		logger.Int("chapters", len(book.Chapters)),
		logger.Int("highlights", len(s.state.Highlights)),
		logger.Int("notes", len(s.state.Notes)),
	)
	return nil
}

func (s *Store) enrich(ctx context.Context, bookID string) enrichment {
	var (
		out enrichment
		wg  sync.WaitGroup
	)
	wg.Add(4)
	go func() {
		defer wg.Done()
		p, err := s.api.GetProgress(ctx, bookID)
		if err != nil {
			s.log.Debug("progress unavailable", logger.String("book_id", bookID), logger.Error(err))
			return
		}
		out.progress = p
	}()
	go func() {
		defer wg.Done()
		h, err := s.api.ListHighlights(ctx, bookID)
		if err != nil {
			s.log.Debug("highlights unavailable", logger.String("book_id", bookID), logger.Error(err))
			return
		}
		out.highlights = h
	}()
	go func() {
		defer wg.Done()
		n, err := s.api.ListNotes(ctx, bookID)
		if err != nil {
			s.log.Debug("notes unavailable", logger.String("book_id", bookID), logger.Error(err))
			return
		}
		out.notes = n
	}()
	go func() {
		defer wg.Done()
		b, err := s.api.ListBookmarks(ctx, bookID)
		if err != nil {
			s.log.Debug("bookmarks unavailable", logger.String("book_id", bookID), logger.Error(err))
			return
		}
		out.bookmarks = b
	}()
	wg.Wait()
	return out
}

// UnloadBook ends the active session, saves any pending progress update and
// clears per-book state. Settings are left untouched.
func (s *Store) UnloadBook() {
	s.mu.Lock()
	ended := s.endSessionLocked()
	flush := s.takePendingLocked()
	s.state.resetBook()
	s.generation++
	s.state.Loading = false
	s.mu.Unlock()

	s.closeBook(ended, flush)
}

func (s *Store) isCurrent(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current(gen)
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
