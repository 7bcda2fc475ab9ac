package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/readnwin/reader/internal/database"
	"github.com/readnwin/reader/internal/entities"
	"github.com/readnwin/reader/internal/logger"
)

type ProgressController struct {
	store ProgressStore
	log   logger.Logger
}

func NewProgressController(store ProgressStore, log logger.Logger) *ProgressController {
	return &ProgressController{store: store, log: log}
}

// Get returns the caller's progress for a book; progress is null when the
// book has never been opened.
// GET /api/reading/progress/:bookId
func (pc *ProgressController) Get(c *gin.Context) {
	progress, err := pc.store.GetProgress(GetUserID(c), c.Param("bookId"))
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusOK, gin.H{"progress": nil})
		return
	}
	if err != nil {
		respondInternalError(c, pc.log, err, "get progress")
		return
	}
	c.JSON(http.StatusOK, gin.H{"progress": progress})
}

// Save upserts the caller's position in a book. Reading time counters in the
// body are ignored.
// PUT /api/reading/progress/:bookId
func (pc *ProgressController) Save(c *gin.Context) {
	var body entities.ReadingProgress
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if body.CurrentPosition < 0 {
		respondBadRequest(c, "current_position must not be negative")
		return
	}
	body.UserID = GetUserID(c)
	body.BookID = c.Param("bookId")

	if _, err := pc.store.SaveProgress(&body); err != nil {
		respondInternalError(c, pc.log, err, "save progress")
		return
	}
	respondNoContent(c)
}
