// Package database provides the data access layer for the reading API.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations, ErrNotFound
//	├── books/           # Book content, chapters and in-book search
//	├── reading/         # Progress, highlights, notes, bookmarks, sessions
//	└── settings/        # Key/value settings
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./readnwin.db")
//
//	booksRepo := books.NewRepository(db.DB)
//	readingRepo := reading.NewRepository(db.DB)
//
//	book, err := booksRepo.GetBook("42")
//	progress, err := readingRepo.GetProgress(userID, "42")
//
// Repositories return errors wrapping ErrNotFound for missing records so
// callers can use errors.Is without importing gorm.
package database
