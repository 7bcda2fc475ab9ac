// Package reader holds the state of one user's session with one open book:
// the loaded book, navigation and progress, annotations, bookmarks, the
// active reading session and display settings.
//
// A Store is safe for concurrent use. Network calls are never made while
// the state lock is held; results are applied only if the book they were
// issued for is still the current one.
package reader

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/readnwin/reader/internal/entities"
	"github.com/readnwin/reader/internal/logger"
	"github.com/readnwin/reader/internal/readerapi"
)

const (
	DefaultProgressDebounce  = time.Second
	DefaultBackgroundTimeout = 10 * time.Second
)

var (
	// ErrNoBookLoaded is returned by operations that need an open book.
	ErrNoBookLoaded = errors.New("reader: no book loaded")

	// ErrSuperseded is returned when the book was unloaded or replaced while
	// the operation was in flight. Its result was discarded.
	ErrSuperseded = errors.New("reader: book changed while request was in flight")
)

// API is the reading API the store depends on. *readerapi.Client implements it.
type API interface {
	GetBookContent(ctx context.Context, bookID string) (*entities.ModernBook, error)
	Search(ctx context.Context, bookID, query string) ([]entities.SearchResult, error)

	GetProgress(ctx context.Context, bookID string) (*entities.ReadingProgress, error)
	SaveProgress(ctx context.Context, bookID string, progress entities.ReadingProgress) error

	ListHighlights(ctx context.Context, bookID string) ([]entities.UserHighlight, error)
	CreateHighlight(ctx context.Context, h entities.UserHighlight) (*entities.UserHighlight, error)
	UpdateHighlight(ctx context.Context, id string, update entities.HighlightUpdate) (*entities.UserHighlight, error)
	DeleteHighlight(ctx context.Context, id string) error

	ListNotes(ctx context.Context, bookID string) ([]entities.UserNote, error)
	CreateNote(ctx context.Context, n entities.UserNote) (*entities.UserNote, error)
	UpdateNote(ctx context.Context, id string, update entities.NoteUpdate) (*entities.UserNote, error)
	DeleteNote(ctx context.Context, id string) error

	ListBookmarks(ctx context.Context, bookID string) ([]entities.Bookmark, error)
	CreateBookmark(ctx context.Context, b entities.Bookmark) error
	DeleteBookmark(ctx context.Context, id string) error

	RecordSession(ctx context.Context, s entities.ReadingSession) error
}

// userSetter is implemented by API clients that carry a default user
// identity, such as the cookie based readerapi client.
type userSetter interface {
	SetUser(userID string)
}

// SettingsPersister stores reader settings across restarts.
type SettingsPersister interface {
	LoadReaderSettings() (entities.ReaderSettings, bool, error)
	SaveReaderSettings(entities.ReaderSettings) error
}

// State is a snapshot of the store. Values returned by Store.State share no
// memory with the store.
type State struct {
	Book           *entities.ModernBook
	CurrentChapter *entities.Chapter
	Progress       *entities.ReadingProgress
	Session        *entities.ReadingSession
	Highlights     []entities.UserHighlight
	Notes          []entities.UserNote
	Bookmarks      []entities.Bookmark
	SearchResults  []entities.SearchResult
	Settings       entities.ReaderSettings
	Loading        bool
	Error          string
}

type Store struct {
	api       API
	persister SettingsPersister
	log       logger.Logger
	userAgent string
	now       func() time.Time

	noSessions bool

	debounce          time.Duration
	backgroundTimeout time.Duration

	mu         sync.Mutex
	state      State
	userID     string
	generation uint64
	pending    *pendingSave

	// settingsMu orders settings writes so the persisted copy matches memory.
	settingsMu sync.Mutex

	wg sync.WaitGroup
}

type Option func(*Store)

func WithSettingsPersister(p SettingsPersister) Option {
	return func(s *Store) { s.persister = p }
}

func WithLogger(l logger.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithUserAgent sets the user agent used to classify the reading device.
func WithUserAgent(ua string) Option {
	return func(s *Store) { s.userAgent = ua }
}

// WithoutSessions disables reading sessions, for tools that read annotations
// while nobody is reading the book.
func WithoutSessions() Option {
	return func(s *Store) { s.noSessions = true }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithProgressDebounce(d time.Duration) Option {
	return func(s *Store) { s.debounce = d }
}

// WithBackgroundTimeout bounds fire-and-forget requests such as session
// records and bookmark writes.
func WithBackgroundTimeout(d time.Duration) Option {
	return func(s *Store) { s.backgroundTimeout = d }
}

// New creates a store with no book loaded. Settings are restored from the
// persister when one is configured.
func New(api API, opts ...Option) *Store {
	s := &Store{
		api:               api,
		log:               logger.Nop(),
		now:               time.Now,
		debounce:          DefaultProgressDebounce,
		backgroundTimeout: DefaultBackgroundTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.state.resetBook()
	s.state.Settings = entities.DefaultReaderSettings()
	if s.persister != nil {
		settings, found, err := s.persister.LoadReaderSettings()
		switch {
		case err != nil:
			s.log.Warn("failed to restore reader settings, using defaults", logger.Error(err))
		case found:
			s.state.Settings = settings
		}
	}
	return s
}

// State returns a deep copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Wait blocks until background work (debounced progress saves, session
// records, bookmark writes) has finished.
func (s *Store) Wait() {
	s.wg.Wait()
}

// ClearError resets the UI facing error message.
func (s *Store) ClearError() {
	s.mu.Lock()
	s.state.Error = ""
	s.mu.Unlock()
}

// current reports whether gen still identifies the loaded book. Callers hold mu.
func (s *Store) current(gen uint64) bool {
	return gen == s.generation
}

func (s *Store) fail(action string, err error) {
	s.state.Error = fmt.Sprintf("Failed to %s: %v", action, err)
}

// as scopes ctx to userID, so a request is attributed to the user it was
// made for even after the store has switched to another user.
func as(ctx context.Context, userID string) context.Context {
	if userID == "" {
		return ctx
	}
	return readerapi.WithUser(ctx, userID)
}

// background runs fn detached from the caller, bounded by the background
// timeout. Failures are logged only.
func (s *Store) background(what string, fn func(ctx context.Context) error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.backgroundTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			s.log.Warn("failed to "+what, logger.Error(err))
		}
	}()
}
