package http

import (
	"github.com/readnwin/reader/internal/cache"
	"github.com/readnwin/reader/internal/database"
	"github.com/readnwin/reader/internal/logger"
)

// RouterConfig contains all dependencies and configuration needed to create
// the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Books    BookStore
	Reading  ReadingStore
	Database *database.Database

	// Cache holds book content. Nil disables caching.
	Cache cache.ContentCache

	// Tasks receives session fold tasks. Nil folds sessions inline.
	Tasks TaskQueue

	// DefaultUserID is used when a request carries no user cookie.
	DefaultUserID string

	// DemoMode rejects every write except in-book search.
	DemoMode bool

	Version string
	Logger  logger.Logger
}
