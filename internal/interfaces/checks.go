package interfaces

// Compile-time checks that the concrete types satisfy the interfaces their
// consumers declare.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/readnwin/reader/internal/cache"
	"github.com/readnwin/reader/internal/database/books"
	"github.com/readnwin/reader/internal/database/reading"
	"github.com/readnwin/reader/internal/exporters"
	"github.com/readnwin/reader/internal/http"
	"github.com/readnwin/reader/internal/reader"
	"github.com/readnwin/reader/internal/readerapi"
	"github.com/readnwin/reader/internal/scheduler"
	"github.com/readnwin/reader/internal/settingsstore"
	"github.com/readnwin/reader/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ http.BookStore = (*books.Repository)(nil)
var _ http.ReadingStore = (*reading.Repository)(nil)

var _ tasks.SessionFolder = (*reading.Repository)(nil)
var _ tasks.SessionPurger = (*reading.Repository)(nil)

// =============================================================================
// Caching and Background Work
// =============================================================================

var _ cache.ContentCache = (*cache.RedisContentCache)(nil)
var _ cache.ContentCache = cache.NoopContentCache{}

var _ http.TaskQueue = (*tasks.Client)(nil)
var _ scheduler.TaskQueue = (*tasks.Client)(nil)

// =============================================================================
// Reader Client
// =============================================================================

var _ reader.API = (*readerapi.Client)(nil)
var _ reader.SettingsPersister = (*settingsstore.SettingsStore)(nil)

var _ exporters.AnnotationExporter = (*exporters.MarkdownExporter)(nil)
