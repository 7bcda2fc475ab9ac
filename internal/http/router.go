package http

import (
	"github.com/gin-gonic/gin"

	"github.com/readnwin/reader/internal/demo"
	"github.com/readnwin/reader/internal/logger"
)

// NewRouter creates the HTTP router with all reading API endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	router := gin.New()
	router.Use(RequestLogger(log))
	router.Use(gin.Recovery())
	router.Use(UserMiddleware(cfg.DefaultUserID))
	if cfg.DemoMode {
		log.Info("demo mode enabled, write operations are blocked")
		router.Use(demo.NewMiddleware(true).Handler())
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	books := NewBooksController(cfg.Books, cfg.Cache, log)
	progress := NewProgressController(cfg.Reading, log)
	highlights := NewHighlightsController(cfg.Reading, log)
	notes := NewNotesController(cfg.Reading, log)
	bookmarks := NewBookmarksController(cfg.Reading, log)
	sessions := NewSessionsController(cfg.Reading, cfg.Reading, cfg.Tasks, log)

	router.GET("/health", health.Status)

	api := router.Group("/api")
	{
		api.GET("/books/:bookId/content", books.GetContent)
		api.POST("/books/:bookId/search", books.Search)
	}

	reading := api.Group("/reading")
	{
		reading.GET("/progress/:bookId", progress.Get)
		reading.PUT("/progress/:bookId", progress.Save)

		reading.GET("/highlights/:bookId", highlights.List)
		reading.POST("/highlights", highlights.Create)
		reading.PUT("/highlights/:id", highlights.Update)
		reading.DELETE("/highlights/:id", highlights.Delete)

		reading.GET("/notes/:bookId", notes.List)
		reading.POST("/notes", notes.Create)
		reading.PUT("/notes/:id", notes.Update)
		reading.DELETE("/notes/:id", notes.Delete)

		reading.GET("/bookmarks/:bookId", bookmarks.List)
		reading.POST("/bookmarks", bookmarks.Create)
		reading.DELETE("/bookmarks/:id", bookmarks.Delete)

		reading.POST("/sessions", sessions.Record)
	}

	return router
}
