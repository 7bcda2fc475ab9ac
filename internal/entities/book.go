package entities

import (
	"time"
)

type BookFormat string

const (
	BookFormatHTML BookFormat = "html"
	BookFormatEPUB BookFormat = "epub"
	BookFormatPDF  BookFormat = "pdf"
	BookFormatTXT  BookFormat = "txt"
)

// ModernBook is a book as delivered to the reader: metadata, ordered chapters
// and the table of contents. It is immutable once loaded.
type ModernBook struct {
	ID              string                `gorm:"primaryKey;size:64" json:"id"`
	Title           string                `gorm:"index;size:512" json:"title"`
	Author          string                `gorm:"index;size:256" json:"author"`
	Format          BookFormat            `gorm:"size:10;default:'html'" json:"format"`
	Description     string                `gorm:"type:text" json:"description,omitempty"`
	CoverURL        string                `gorm:"size:2048" json:"cover_url,omitempty"`
	Language        string                `gorm:"size:10" json:"language,omitempty"`
	WordCount       int                   `json:"word_count"`
	Chapters        []Chapter             `gorm:"foreignKey:BookID" json:"chapters"`
	TableOfContents []TableOfContentsItem `gorm:"-" json:"table_of_contents"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

type Chapter struct {
	ID                      string    `gorm:"primaryKey;size:64" json:"id"`
	BookID                  string    `gorm:"index;size:64" json:"book_id"`
	Number                  int       `gorm:"index" json:"chapter_number"`
	Title                   string    `gorm:"size:512" json:"title"`
	Content                 string    `gorm:"type:text" json:"content"`
	WordCount               int       `json:"word_count"`
	EstimatedReadingMinutes int       `json:"estimated_reading_time"`
	Anchor                  string    `gorm:"size:256" json:"anchor,omitempty"`
	CreatedAt               time.Time `json:"created_at"`
}

type TableOfContentsItem struct {
	ID        string                `json:"id"`
	Title     string                `json:"title"`
	ChapterID string                `json:"chapter_id"`
	Anchor    string                `json:"anchor,omitempty"`
	Level     int                   `json:"level"`
	Children  []TableOfContentsItem `json:"children,omitempty"`
}

func (ModernBook) TableName() string {
	return "books"
}

func (Chapter) TableName() string {
	return "chapters"
}

// TotalWordCount returns the book word count, summing chapters when the book
// does not carry its own total.
func (b *ModernBook) TotalWordCount() int {
	if b.WordCount > 0 {
		return b.WordCount
	}
	total := 0
	for _, ch := range b.Chapters {
		total += ch.WordCount
	}
	return total
}

// ChapterIndex returns the position of the chapter in the reading order, or -1.
func (b *ModernBook) ChapterIndex(chapterID string) int {
	for i := range b.Chapters {
		if b.Chapters[i].ID == chapterID {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so callers can hand the book out without sharing
// slices with the owner.
func (b *ModernBook) Clone() *ModernBook {
	if b == nil {
		return nil
	}
	c := *b
	c.Chapters = append([]Chapter(nil), b.Chapters...)
	c.TableOfContents = cloneTOC(b.TableOfContents)
	return &c
}

func cloneTOC(items []TableOfContentsItem) []TableOfContentsItem {
	if items == nil {
		return nil
	}
	out := make([]TableOfContentsItem, len(items))
	for i, item := range items {
		out[i] = item
		out[i].Children = cloneTOC(item.Children)
	}
	return out
}

// SearchResult is a single in-book match.
type SearchResult struct {
	ChapterID    string `json:"chapter_id"`
	ChapterTitle string `json:"chapter_title"`
	Position     int    `json:"position"`
	Snippet      string `json:"snippet"`
}
