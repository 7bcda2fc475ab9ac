package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/readnwin/reader/internal/entities"
	"github.com/readnwin/reader/internal/logger"
)

type HighlightsController struct {
	store HighlightStore
	log   logger.Logger
}

func NewHighlightsController(store HighlightStore, log logger.Logger) *HighlightsController {
	return &HighlightsController{store: store, log: log}
}

// GET /api/reading/highlights/:bookId
func (hc *HighlightsController) List(c *gin.Context) {
	highlights, err := hc.store.ListHighlights(GetUserID(c), c.Param("bookId"))
	if err != nil {
		respondInternalError(c, hc.log, err, "list highlights")
		return
	}
	c.JSON(http.StatusOK, gin.H{"highlights": highlights})
}

// POST /api/reading/highlights
func (hc *HighlightsController) Create(c *gin.Context) {
	var h entities.UserHighlight
	if err := c.ShouldBindJSON(&h); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if msg := validateHighlight(&h); msg != "" {
		respondBadRequest(c, msg)
		return
	}
	h.ID = ""
	h.UserID = GetUserID(c)

	if err := hc.store.CreateHighlight(&h); err != nil {
		respondInternalError(c, hc.log, err, "create highlight")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"highlight": h})
}

// PUT /api/reading/highlights/:id
func (hc *HighlightsController) Update(c *gin.Context) {
	var update entities.HighlightUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if update.Color != nil && !update.Color.Valid() {
		respondBadRequest(c, "invalid color")
		return
	}

	h, err := hc.store.UpdateHighlight(GetUserID(c), c.Param("id"), update)
	if err != nil {
		respondStoreError(c, hc.log, err, "highlight")
		return
	}
	c.JSON(http.StatusOK, gin.H{"highlight": h})
}

// DELETE /api/reading/highlights/:id
func (hc *HighlightsController) Delete(c *gin.Context) {
	if err := hc.store.DeleteHighlight(GetUserID(c), c.Param("id")); err != nil {
		respondStoreError(c, hc.log, err, "highlight")
		return
	}
	respondNoContent(c)
}

// validateHighlight returns a client facing message, or "" when h is valid.
// An empty color defaults to yellow.
func validateHighlight(h *entities.UserHighlight) string {
	switch {
	case h.BookID == "":
		return "book_id is required"
	case h.ChapterID == "":
		return "chapter_id is required"
	case h.SelectedText == "":
		return "selected_text is required"
	case h.StartOffset < 0 || h.EndOffset < h.StartOffset:
		return "end_offset must not be before start_offset"
	}
	if h.Color == "" {
		h.Color = entities.HighlightColorYellow
	}
	if !h.Color.Valid() {
		return "invalid color"
	}
	return ""
}
