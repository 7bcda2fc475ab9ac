package reader

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/readnwin/reader/internal/entities"
	"github.com/readnwin/reader/internal/logger"
)

// call identifies the book and user an annotation request was issued for.
type call struct {
	bookID string
	userID string
	gen    uint64
}

// begin checks that a book is loaded, clears the error field and captures
// the current book, user and generation.
func (s *Store) begin() (call, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Book == nil {
		return call{}, ErrNoBookLoaded
	}
	s.state.Error = ""
	return call{bookID: s.state.Book.ID, userID: s.userID, gen: s.generation}, nil
}

// finish re-acquires the lock for applying a result and returns nil with the
// lock held. When the book changed in the meantime it returns ErrSuperseded,
// whatever the outcome of the request. Otherwise a request error is recorded
// in the error field and returned. The lock is released on any error.
func (s *Store) finish(c call, action string, err error) error {
	s.mu.Lock()
	if !s.current(c.gen) {
		s.mu.Unlock()
		return ErrSuperseded
	}
	if err != nil {
		s.fail(action, err)
		s.mu.Unlock()
		return err
	}
	return nil
}

// AddHighlight creates a highlight on the server and appends the stored copy.
func (s *Store) AddHighlight(ctx context.Context, h entities.UserHighlight) (*entities.UserHighlight, error) {
	c, err := s.begin()
	if err != nil {
		return nil, err
	}
	h.BookID = c.bookID
	h.UserID = c.userID

	created, err := s.api.CreateHighlight(as(ctx, c.userID), h)
	if err := s.finish(c, "add highlight", err); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	s.state.Highlights = upsert(s.state.Highlights, *created, func(x entities.UserHighlight) string { return x.ID })
	return created, nil
}

func (s *Store) UpdateHighlight(ctx context.Context, id string, update entities.HighlightUpdate) (*entities.UserHighlight, error) {
	c, err := s.begin()
	if err != nil {
		return nil, err
	}
	updated, err := s.api.UpdateHighlight(as(ctx, c.userID), id, update)
	if err := s.finish(c, "update highlight", err); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	s.state.Highlights = replace(s.state.Highlights, id, *updated, func(x entities.UserHighlight) string { return x.ID })
	return updated, nil
}

func (s *Store) RemoveHighlight(ctx context.Context, id string) error {
	c, err := s.begin()
	if err != nil {
		return err
	}
	err = s.api.DeleteHighlight(as(ctx, c.userID), id)
	if err := s.finish(c, "remove highlight", err); err != nil {
		return err
	}
	defer s.mu.Unlock()
	s.state.Highlights = remove(s.state.Highlights, id, func(x entities.UserHighlight) string { return x.ID })
	return nil
}

// AddNote creates a note on the server and appends the stored copy.
func (s *Store) AddNote(ctx context.Context, n entities.UserNote) (*entities.UserNote, error) {
	c, err := s.begin()
	if err != nil {
		return nil, err
	}
	n.BookID = c.bookID
	n.UserID = c.userID

	created, err := s.api.CreateNote(as(ctx, c.userID), n)
	if err := s.finish(c, "add note", err); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	s.state.Notes = upsert(s.state.Notes, cloneNote(*created), func(x entities.UserNote) string { return x.ID })
	return created, nil
}

func (s *Store) UpdateNote(ctx context.Context, id string, update entities.NoteUpdate) (*entities.UserNote, error) {
	c, err := s.begin()
	if err != nil {
		return nil, err
	}
	updated, err := s.api.UpdateNote(as(ctx, c.userID), id, update)
	if err := s.finish(c, "update note", err); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	s.state.Notes = replace(s.state.Notes, id, cloneNote(*updated), func(x entities.UserNote) string { return x.ID })
	return updated, nil
}

func (s *Store) RemoveNote(ctx context.Context, id string) error {
	c, err := s.begin()
	if err != nil {
		return err
	}
	err = s.api.DeleteNote(as(ctx, c.userID), id)
	if err := s.finish(c, "remove note", err); err != nil {
		return err
	}
	defer s.mu.Unlock()
	s.state.Notes = remove(s.state.Notes, id, func(x entities.UserNote) string { return x.ID })
	return nil
}

// AddBookmark bookmarks the current chapter and position. The bookmark is
// added locally right away and written to the server in the background.
func (s *Store) AddBookmark(title string) (entities.Bookmark, error) {
	s.mu.Lock()
	if s.state.Book == nil {
		s.mu.Unlock()
		return entities.Bookmark{}, ErrNoBookLoaded
	}
	b := entities.Bookmark{
		ID:        uuid.NewString(),
		UserID:    s.userID,
		BookID:    s.state.Book.ID,
		Title:     title,
		CreatedAt: s.now(),
	}
	if s.state.CurrentChapter != nil {
		b.ChapterID = s.state.CurrentChapter.ID
	}
	if s.state.Progress != nil {
		b.Position = s.state.Progress.CurrentPosition
	}
	s.state.Bookmarks = append(s.state.Bookmarks, b)
	s.mu.Unlock()

	s.background("save bookmark", func(ctx context.Context) error {
		return s.api.CreateBookmark(as(ctx, b.UserID), b)
	})
	return b, nil
}

// RemoveBookmark drops the bookmark locally and deletes it in the background.
func (s *Store) RemoveBookmark(id string) {
	s.mu.Lock()
	before := len(s.state.Bookmarks)
	s.state.Bookmarks = remove(s.state.Bookmarks, id, func(x entities.Bookmark) string { return x.ID })
	removed := len(s.state.Bookmarks) != before
	userID := s.userID
	s.mu.Unlock()

	if !removed {
		return
	}
	s.background("delete bookmark", func(ctx context.Context) error {
		return s.api.DeleteBookmark(as(ctx, userID), id)
	})
}

// Search runs an in-book search and stores the matches. A blank query clears
// the results without a request.
func (s *Store) Search(ctx context.Context, query string) ([]entities.SearchResult, error) {
	c, err := s.begin()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		s.mu.Lock()
		if s.current(c.gen) {
			s.state.SearchResults = []entities.SearchResult{}
		}
		s.mu.Unlock()
		return []entities.SearchResult{}, nil
	}

	matches, err := s.api.Search(as(ctx, c.userID), c.bookID, query)
	if err := s.finish(c, "search book", err); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	s.state.SearchResults = orEmpty(matches)
	s.log.Debug("search finished", logger.String("book_id", c.bookID), logger.Int("matches", len(matches)))
	return copySlice(s.state.SearchResults), nil
}

func upsert[T any](items []T, item T, key func(T) string) []T {
	for i := range items {
		if key(items[i]) == key(item) {
			items[i] = item
			return items
		}
	}
	return append(items, item)
}

func replace[T any](items []T, id string, item T, key func(T) string) []T {
	for i := range items {
		if key(items[i]) == id {
			items[i] = item
		}
	}
	return items
}

func remove[T any](items []T, id string, key func(T) string) []T {
	out := items[:0]
	for _, item := range items {
		if key(item) != id {
			out = append(out, item)
		}
	}
	return out
}
