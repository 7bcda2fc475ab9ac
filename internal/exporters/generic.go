package exporters

import "github.com/readnwin/reader/internal/entities"

// BookAnnotations is everything a reader has attached to one book.
type BookAnnotations struct {
	Book       *entities.ModernBook
	Progress   *entities.ReadingProgress
	Highlights []entities.UserHighlight
	Notes      []entities.UserNote
	Bookmarks  []entities.Bookmark
}

type AnnotationExporter interface {
	Export(a BookAnnotations) (string, ExportResult, error)
}

type ExportResult struct {
	BooksProcessed      int `json:"books_processed"`
	HighlightsProcessed int `json:"highlights_processed"`
	NotesProcessed      int `json:"notes_processed"`
	BookmarksProcessed  int `json:"bookmarks_processed"`
}
