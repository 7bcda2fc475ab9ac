package readerapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/readnwin/reader/internal/entities"
)

// GetBookContent loads a book with its chapters.
// GET /api/books/{bookId}/content
func (c *Client) GetBookContent(ctx context.Context, bookID string) (*entities.ModernBook, error) {
	var resp struct {
		Book *entities.ModernBook `json:"book"`
	}
	if err := c.do(ctx, http.MethodGet, c.endpoint("api", "books", bookID, "content"), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Book == nil {
		return nil, emptyPayload("book")
	}
	return resp.Book, nil
}

// Search runs an in-book text search.
// POST /api/books/{bookId}/search
func (c *Client) Search(ctx context.Context, bookID, query string) ([]entities.SearchResult, error) {
	var resp struct {
		Matches []entities.SearchResult `json:"matches"`
	}
	body := map[string]string{"query": query}
	if err := c.do(ctx, http.MethodPost, c.endpoint("api", "books", bookID, "search"), body, &resp); err != nil {
		return nil, err
	}
	return resp.Matches, nil
}

// GetProgress returns the caller's progress for a book, or nil when none exists.
// GET /api/reading/progress/{bookId}
func (c *Client) GetProgress(ctx context.Context, bookID string) (*entities.ReadingProgress, error) {
	var resp struct {
		Progress *entities.ReadingProgress `json:"progress"`
	}
	if err := c.do(ctx, http.MethodGet, c.endpoint("api", "reading", "progress", bookID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Progress, nil
}

// SaveProgress stores the caller's progress for a book.
// PUT /api/reading/progress/{bookId}
func (c *Client) SaveProgress(ctx context.Context, bookID string, progress entities.ReadingProgress) error {
	return c.do(ctx, http.MethodPut, c.endpoint("api", "reading", "progress", bookID), progress, nil)
}

// GET /api/reading/highlights/{bookId}
func (c *Client) ListHighlights(ctx context.Context, bookID string) ([]entities.UserHighlight, error) {
	var resp struct {
		Highlights []entities.UserHighlight `json:"highlights"`
	}
	if err := c.do(ctx, http.MethodGet, c.endpoint("api", "reading", "highlights", bookID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Highlights, nil
}

// POST /api/reading/highlights
func (c *Client) CreateHighlight(ctx context.Context, h entities.UserHighlight) (*entities.UserHighlight, error) {
	h.ID = ""
	var resp struct {
		Highlight *entities.UserHighlight `json:"highlight"`
	}
	if err := c.do(ctx, http.MethodPost, c.endpoint("api", "reading", "highlights"), h, &resp); err != nil {
		return nil, err
	}
	if resp.Highlight == nil {
		return nil, emptyPayload("highlight")
	}
	return resp.Highlight, nil
}

// PUT /api/reading/highlights/{id}
func (c *Client) UpdateHighlight(ctx context.Context, id string, update entities.HighlightUpdate) (*entities.UserHighlight, error) {
	var resp struct {
		Highlight *entities.UserHighlight `json:"highlight"`
	}
	if err := c.do(ctx, http.MethodPut, c.endpoint("api", "reading", "highlights", id), update, &resp); err != nil {
		return nil, err
	}
	if resp.Highlight == nil {
		return nil, emptyPayload("highlight")
	}
	return resp.Highlight, nil
}

// DELETE /api/reading/highlights/{id}
func (c *Client) DeleteHighlight(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.endpoint("api", "reading", "highlights", id), nil, nil)
}

// GET /api/reading/notes/{bookId}
func (c *Client) ListNotes(ctx context.Context, bookID string) ([]entities.UserNote, error) {
	var resp struct {
		Notes []entities.UserNote `json:"notes"`
	}
	if err := c.do(ctx, http.MethodGet, c.endpoint("api", "reading", "notes", bookID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Notes, nil
}

// POST /api/reading/notes
func (c *Client) CreateNote(ctx context.Context, n entities.UserNote) (*entities.UserNote, error) {
	n.ID = ""
	var resp struct {
		Note *entities.UserNote `json:"note"`
	}
	if err := c.do(ctx, http.MethodPost, c.endpoint("api", "reading", "notes"), n, &resp); err != nil {
		return nil, err
	}
	if resp.Note == nil {
		return nil, emptyPayload("note")
	}
	return resp.Note, nil
}

// PUT /api/reading/notes/{id}
func (c *Client) UpdateNote(ctx context.Context, id string, update entities.NoteUpdate) (*entities.UserNote, error) {
	var resp struct {
		Note *entities.UserNote `json:"note"`
	}
	if err := c.do(ctx, http.MethodPut, c.endpoint("api", "reading", "notes", id), update, &resp); err != nil {
		return nil, err
	}
	if resp.Note == nil {
		return nil, emptyPayload("note")
	}
	return resp.Note, nil
}

// DELETE /api/reading/notes/{id}
func (c *Client) DeleteNote(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.endpoint("api", "reading", "notes", id), nil, nil)
}

// GET /api/reading/bookmarks/{bookId}
func (c *Client) ListBookmarks(ctx context.Context, bookID string) ([]entities.Bookmark, error) {
	var resp struct {
		Bookmarks []entities.Bookmark `json:"bookmarks"`
	}
	if err := c.do(ctx, http.MethodGet, c.endpoint("api", "reading", "bookmarks", bookID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Bookmarks, nil
}

// POST /api/reading/bookmarks
func (c *Client) CreateBookmark(ctx context.Context, b entities.Bookmark) error {
	return c.do(ctx, http.MethodPost, c.endpoint("api", "reading", "bookmarks"), b, nil)
}

// DELETE /api/reading/bookmarks/{id}
func (c *Client) DeleteBookmark(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.endpoint("api", "reading", "bookmarks", id), nil, nil)
}

// RecordSession posts a completed reading session.
// POST /api/reading/sessions
func (c *Client) RecordSession(ctx context.Context, s entities.ReadingSession) error {
	return c.do(ctx, http.MethodPost, c.endpoint("api", "reading", "sessions"), s, nil)
}

func emptyPayload(kind string) error {
	return fmt.Errorf("reading API returned no %s", kind)
}
