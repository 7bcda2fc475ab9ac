// Package books provides database operations for book content.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.GetBook("42")
//	matches, err := repo.Search("42", "whale", 20)
package books

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/readnwin/reader/internal/content"
	"github.com/readnwin/reader/internal/database"
	"github.com/readnwin/reader/internal/entities"
)

// Repository handles all book content database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetBook retrieves a book with its chapters in reading order and a table of
// contents built from them.
func (r *Repository) GetBook(id string) (*entities.ModernBook, error) {
	var book entities.ModernBook
	err := r.db.Preload("Chapters", func(db *gorm.DB) *gorm.DB {
		return db.Order("number ASC")
	}).Where("id = ?", id).First(&book).Error
	if err != nil {
		return nil, database.NotFound(err, "get book "+id)
	}
	book.TableOfContents = content.BuildTableOfContents(book.Chapters)
	if book.Chapters == nil {
		book.Chapters = []entities.Chapter{}
	}
	return &book, nil
}

// ListBooks returns book metadata without chapter content.
func (r *Repository) ListBooks() ([]entities.ModernBook, error) {
	var books []entities.ModernBook
	err := r.db.Order("title ASC").Find(&books).Error
	return books, err
}

// SaveBook upserts a book and replaces its chapters. Missing ids are
// generated; chapter numbers follow slice order when unset; word counts
// are recomputed from the chapter HTML.
func (r *Repository) SaveBook(book *entities.ModernBook) error {
	if book.ID == "" {
		book.ID = uuid.NewString()
	}
	for i := range book.Chapters {
		ch := &book.Chapters[i]
		if ch.ID == "" {
			ch.ID = fmt.Sprintf("%s-ch%d", book.ID, i+1)
		}
		if ch.Number == 0 {
			ch.Number = i + 1
		}
		ch.BookID = book.ID
	}
	sort.SliceStable(book.Chapters, func(i, j int) bool {
		return book.Chapters[i].Number < book.Chapters[j].Number
	})
	if err := content.AnalyzeBook(book); err != nil {
		return err
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", book.ID).Delete(&entities.Chapter{}).Error; err != nil {
			return fmt.Errorf("failed to clear chapters: %w", err)
		}
		chapters := book.Chapters
		book.Chapters = nil
		err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(book).Error
		book.Chapters = chapters
		if err != nil {
			return fmt.Errorf("failed to save book: %w", err)
		}
		if len(chapters) > 0 {
			if err := tx.Create(&book.Chapters).Error; err != nil {
				return fmt.Errorf("failed to save chapters: %w", err)
			}
		}
		return nil
	})
}

// DeleteBook removes a book and its chapters.
func (r *Repository) DeleteBook(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&entities.Chapter{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&entities.ModernBook{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("delete book %s: %w", id, database.ErrNotFound)
		}
		return nil
	})
}

// Search runs a case-insensitive text search over the chapters of a book.
func (r *Repository) Search(bookID, query string, limit int) ([]entities.SearchResult, error) {
	book, err := r.GetBook(bookID)
	if err != nil {
		return nil, err
	}
	return content.Search(book.Chapters, query, limit)
}
