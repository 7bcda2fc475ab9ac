package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/readnwin/reader/internal/entities"
	"github.com/readnwin/reader/internal/logger"
)

type NotesController struct {
	store NoteStore
	log   logger.Logger
}

func NewNotesController(store NoteStore, log logger.Logger) *NotesController {
	return &NotesController{store: store, log: log}
}

// GET /api/reading/notes/:bookId
func (nc *NotesController) List(c *gin.Context) {
	notes, err := nc.store.ListNotes(GetUserID(c), c.Param("bookId"))
	if err != nil {
		respondInternalError(c, nc.log, err, "list notes")
		return
	}
	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

// POST /api/reading/notes
func (nc *NotesController) Create(c *gin.Context) {
	var n entities.UserNote
	if err := c.ShouldBindJSON(&n); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	switch {
	case n.BookID == "":
		respondBadRequest(c, "book_id is required")
		return
	case strings.TrimSpace(n.Content) == "":
		respondBadRequest(c, "content is required")
		return
	case n.NoteType != "" && !n.NoteType.Valid():
		respondBadRequest(c, "invalid note_type")
		return
	}
	n.ID = ""
	n.UserID = GetUserID(c)

	if err := nc.store.CreateNote(&n); err != nil {
		respondInternalError(c, nc.log, err, "create note")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"note": n})
}

// PUT /api/reading/notes/:id
func (nc *NotesController) Update(c *gin.Context) {
	var update entities.NoteUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if update.NoteType != nil && !update.NoteType.Valid() {
		respondBadRequest(c, "invalid note_type")
		return
	}
	if update.Content != nil && strings.TrimSpace(*update.Content) == "" {
		respondBadRequest(c, "content must not be empty")
		return
	}

	n, err := nc.store.UpdateNote(GetUserID(c), c.Param("id"), update)
	if err != nil {
		respondStoreError(c, nc.log, err, "note")
		return
	}
	c.JSON(http.StatusOK, gin.H{"note": n})
}

// DELETE /api/reading/notes/:id
func (nc *NotesController) Delete(c *gin.Context) {
	if err := nc.store.DeleteNote(GetUserID(c), c.Param("id")); err != nil {
		respondStoreError(c, nc.log, err, "note")
		return
	}
	respondNoContent(c)
}
