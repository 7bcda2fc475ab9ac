package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/readnwin/reader/internal/cache"
	"github.com/readnwin/reader/internal/content"
	"github.com/readnwin/reader/internal/logger"
)

type BooksController struct {
	books BookStore
	cache cache.ContentCache
	log   logger.Logger
}

func NewBooksController(books BookStore, contentCache cache.ContentCache, log logger.Logger) *BooksController {
	if contentCache == nil {
		contentCache = cache.NoopContentCache{}
	}
	return &BooksController{books: books, cache: contentCache, log: log}
}

// GetContent returns a book with its chapters and table of contents.
// GET /api/books/:bookId/content
func (bc *BooksController) GetContent(c *gin.Context) {
	bookID := c.Param("bookId")
	ctx := c.Request.Context()

	book, err := bc.cache.GetBook(ctx, bookID)
	if err != nil {
		bc.log.Warn("content cache read failed", logger.String("book_id", bookID), logger.Error(err))
	}
	if book != nil {
		c.Header("X-Cache", "HIT")
		c.JSON(http.StatusOK, gin.H{"book": book})
		return
	}

	book, err = bc.books.GetBook(bookID)
	if err != nil {
		respondStoreError(c, bc.log, err, "book")
		return
	}
	if err := bc.cache.SetBook(ctx, book); err != nil {
		bc.log.Warn("content cache write failed", logger.String("book_id", bookID), logger.Error(err))
	}
	c.Header("X-Cache", "MISS")
	c.JSON(http.StatusOK, gin.H{"book": book})
}

type searchRequest struct {
	Query string `json:"query"`
}

// Search finds text within the chapters of a book.
// POST /api/books/:bookId/search
func (bc *BooksController) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		respondBadRequest(c, "query is required")
		return
	}

	matches, err := bc.books.Search(c.Param("bookId"), req.Query, content.DefaultSearchLimit)
	if err != nil {
		respondStoreError(c, bc.log, err, "book")
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}
