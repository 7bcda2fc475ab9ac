package reader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/readnwin/reader/internal/entities"
	"github.com/readnwin/reader/internal/readerapi"
)

// fakeAPI is an in-memory API. Errors can be injected per operation and
// GetBookContent can be held open with gate.
type fakeAPI struct {
	mu sync.Mutex

	books map[string]*entities.ModernBook
	gate  chan struct{}

	progress   *entities.ReadingProgress
	highlights []entities.UserHighlight
	notes      []entities.UserNote
	bookmarks  []entities.Bookmark
	matches    []entities.SearchResult

	errs map[string]error

	// hook runs inside the call, before the result is returned.
	hook func(op string)

	savedProgress    []entities.ReadingProgress
	sessions         []entities.ReadingSession
	createdBookmarks []entities.Bookmark
	deletedBookmarks []string
	users            []string
	nextID           int
}

func newFakeAPI(books ...*entities.ModernBook) *fakeAPI {
	f := &fakeAPI{books: map[string]*entities.ModernBook{}, errs: map[string]error{}}
	for _, b := range books {
		f.books[b.ID] = b
	}
	return f
}

func (f *fakeAPI) fail(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[op] = err
}

func (f *fakeAPI) err(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errs[op]
}

func (f *fakeAPI) runHook(op string) {
	f.mu.Lock()
	hook := f.hook
	f.mu.Unlock()
	if hook != nil {
		hook(op)
	}
}

func (f *fakeAPI) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeAPI) SetUser(userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = append(f.users, userID)
}

func (f *fakeAPI) GetBookContent(ctx context.Context, bookID string) (*entities.ModernBook, error) {
	f.mu.Lock()
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if err := f.err("content"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.books[bookID]
	if !ok {
		return nil, &readerapi.StatusError{StatusCode: 404, Message: "book not found"}
	}
	return b.Clone(), nil
}

func (f *fakeAPI) Search(ctx context.Context, bookID, query string) ([]entities.SearchResult, error) {
	f.runHook("search")
	if err := f.err("search"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entities.SearchResult(nil), f.matches...), nil
}

func (f *fakeAPI) GetProgress(ctx context.Context, bookID string) (*entities.ReadingProgress, error) {
	if err := f.err("progress"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneProgress(f.progress), nil
}

func (f *fakeAPI) SaveProgress(ctx context.Context, bookID string, p entities.ReadingProgress) error {
	if err := f.err("save-progress"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.savedProgress = append(f.savedProgress, p)
	return nil
}

func (f *fakeAPI) ListHighlights(ctx context.Context, bookID string) ([]entities.UserHighlight, error) {
	if err := f.err("highlights"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entities.UserHighlight(nil), f.highlights...), nil
}

func (f *fakeAPI) CreateHighlight(ctx context.Context, h entities.UserHighlight) (*entities.UserHighlight, error) {
	f.runHook("create-highlight")
	if err := f.err("create-highlight"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	h.ID = f.id("h")
	return &h, nil
}

func (f *fakeAPI) UpdateHighlight(ctx context.Context, id string, u entities.HighlightUpdate) (*entities.UserHighlight, error) {
	if err := f.err("update-highlight"); err != nil {
		return nil, err
	}
	h := entities.UserHighlight{ID: id}
	u.Apply(&h)
	return &h, nil
}

func (f *fakeAPI) DeleteHighlight(ctx context.Context, id string) error {
	return f.err("delete-highlight")
}

func (f *fakeAPI) ListNotes(ctx context.Context, bookID string) ([]entities.UserNote, error) {
	if err := f.err("notes"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entities.UserNote(nil), f.notes...), nil
}

func (f *fakeAPI) CreateNote(ctx context.Context, n entities.UserNote) (*entities.UserNote, error) {
	if err := f.err("create-note"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID = f.id("n")
	return &n, nil
}

func (f *fakeAPI) UpdateNote(ctx context.Context, id string, u entities.NoteUpdate) (*entities.UserNote, error) {
	if err := f.err("update-note"); err != nil {
		return nil, err
	}
	n := entities.UserNote{ID: id}
	u.Apply(&n)
	return &n, nil
}

func (f *fakeAPI) DeleteNote(ctx context.Context, id string) error {
	return f.err("delete-note")
}

func (f *fakeAPI) ListBookmarks(ctx context.Context, bookID string) ([]entities.Bookmark, error) {
	if err := f.err("bookmarks"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entities.Bookmark(nil), f.bookmarks...), nil
}

func (f *fakeAPI) CreateBookmark(ctx context.Context, b entities.Bookmark) error {
	if err := f.err("create-bookmark"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdBookmarks = append(f.createdBookmarks, b)
	return nil
}

func (f *fakeAPI) DeleteBookmark(ctx context.Context, id string) error {
	if err := f.err("delete-bookmark"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedBookmarks = append(f.deletedBookmarks, id)
	return nil
}

func (f *fakeAPI) RecordSession(ctx context.Context, s entities.ReadingSession) error {
	if err := f.err("session"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions = append(f.sessions, s)
	return nil
}

func (f *fakeAPI) saved() []entities.ReadingProgress {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entities.ReadingProgress(nil), f.savedProgress...)
}

func (f *fakeAPI) recorded() []entities.ReadingSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entities.ReadingSession(nil), f.sessions...)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testBook(id string, words ...int) *entities.ModernBook {
	book := &entities.ModernBook{ID: id, Title: "Book " + id}
	for i, w := range words {
		book.Chapters = append(book.Chapters, entities.Chapter{
			ID:        fmt.Sprintf("%s-ch%d", id, i+1),
			BookID:    id,
			Number:    i + 1,
			Title:     fmt.Sprintf("Chapter %d", i+1),
			Content:   "<p>text</p>",
			WordCount: w,
		})
	}
	return book
}

type memoryPersister struct {
	mu       sync.Mutex
	settings *entities.ReaderSettings
	loadErr  error
	saves    int
}

func (m *memoryPersister) LoadReaderSettings() (entities.ReaderSettings, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return entities.DefaultReaderSettings(), false, m.loadErr
	}
	if m.settings == nil {
		return entities.DefaultReaderSettings(), false, nil
	}
	return *m.settings, true, nil
}

func (m *memoryPersister) SaveReaderSettings(s entities.ReaderSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = &s
	m.saves++
	return nil
}
