package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/readnwin/reader/internal/entities"
	"github.com/readnwin/reader/internal/logger"
)

type BookmarksController struct {
	store BookmarkStore
	log   logger.Logger
}

func NewBookmarksController(store BookmarkStore, log logger.Logger) *BookmarksController {
	return &BookmarksController{store: store, log: log}
}

// GET /api/reading/bookmarks/:bookId
func (bc *BookmarksController) List(c *gin.Context) {
	bookmarks, err := bc.store.ListBookmarks(GetUserID(c), c.Param("bookId"))
	if err != nil {
		respondInternalError(c, bc.log, err, "list bookmarks")
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookmarks": bookmarks})
}

// Create stores a bookmark under its client-generated id.
// POST /api/reading/bookmarks
func (bc *BookmarksController) Create(c *gin.Context) {
	var b entities.Bookmark
	if err := c.ShouldBindJSON(&b); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if b.BookID == "" {
		respondBadRequest(c, "book_id is required")
		return
	}
	if b.Position < 0 {
		respondBadRequest(c, "position must not be negative")
		return
	}
	b.UserID = GetUserID(c)

	if err := bc.store.SaveBookmark(&b); err != nil {
		respondInternalError(c, bc.log, err, "save bookmark")
		return
	}
	respondNoContent(c)
}

// DELETE /api/reading/bookmarks/:id
func (bc *BookmarksController) Delete(c *gin.Context) {
	if err := bc.store.DeleteBookmark(GetUserID(c), c.Param("id")); err != nil {
		respondStoreError(c, bc.log, err, "bookmark")
		return
	}
	respondNoContent(c)
}
