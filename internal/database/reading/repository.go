// Package reading provides database operations for per-user reading state:
// progress, highlights, notes, bookmarks and reading sessions.
//
// Every query is scoped by user id; a record owned by another user is
// reported as missing.
package reading

import (
	"time"

	"gorm.io/gorm"
)

// Repository handles all reading-state database operations.
type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRepository creates a new reading repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}
