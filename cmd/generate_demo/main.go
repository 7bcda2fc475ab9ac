// Command generate_demo creates a demo reading database with public domain
// books and sample annotations for the default user.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/readnwin/reader/internal/config"
	"github.com/readnwin/reader/internal/database"
	"github.com/readnwin/reader/internal/database/books"
	"github.com/readnwin/reader/internal/database/reading"
	"github.com/readnwin/reader/internal/entities"
	"github.com/readnwin/reader/internal/logger"
)

const defaultDemoDatabasePath = "./demo/demo.db"

type demoBook struct {
	Book       entities.ModernBook
	Highlights []entities.UserHighlight
	Notes      []entities.UserNote
	Bookmarks  []entities.Bookmark
	Progress   *entities.ReadingProgress
}

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	userID := flag.String("user", config.DefaultUserID, "user owning the demo annotations")
	flag.Parse()

	log := logger.New("info", true)
	defer func() { _ = log.Sync() }()

	log.Info("generating demo database", logger.String("path", *dbPath))

	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatal("failed to remove existing demo database", logger.Error(err))
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatal("failed to create database", logger.Error(err))
	}
	defer db.Close()

	bookRepo := books.NewRepository(db.DB)
	readingRepo := reading.NewRepository(db.DB)

	for _, demo := range demoBooks() {
		if err := bookRepo.SaveBook(&demo.Book); err != nil {
			log.Warn("failed to save book", logger.String("title", demo.Book.Title), logger.Error(err))
			continue
		}
		for i := range demo.Highlights {
			h := &demo.Highlights[i]
			h.UserID, h.BookID = *userID, demo.Book.ID
			if err := readingRepo.CreateHighlight(h); err != nil {
				log.Warn("failed to save highlight", logger.Error(err))
			}
		}
		for i := range demo.Notes {
			n := &demo.Notes[i]
			n.UserID, n.BookID = *userID, demo.Book.ID
			if err := readingRepo.CreateNote(n); err != nil {
				log.Warn("failed to save note", logger.Error(err))
			}
		}
		for i := range demo.Bookmarks {
			b := &demo.Bookmarks[i]
			b.UserID, b.BookID = *userID, demo.Book.ID
			if err := readingRepo.SaveBookmark(b); err != nil {
				log.Warn("failed to save bookmark", logger.Error(err))
			}
		}
		if demo.Progress != nil {
			demo.Progress.UserID, demo.Progress.BookID = *userID, demo.Book.ID
			if _, err := readingRepo.SaveProgress(demo.Progress); err != nil {
				log.Warn("failed to save progress", logger.Error(err))
			}
		}
		log.Info("saved demo book",
			logger.String("title", demo.Book.Title),
			logger.Int("chapters", len(demo.Book.Chapters)),
			logger.Int("highlights", len(demo.Highlights)))
	}

	log.Info("demo database generated")
}

func paragraphs(texts ...string) string {
	var b strings.Builder
	for _, t := range texts {
		b.WriteString("<p>")
		b.WriteString(t)
		b.WriteString("</p>\n")
	}
	return b.String()
}

func demoBooks() []demoBook {
	return []demoBook{
		{
			Book: entities.ModernBook{
				ID:       "meditations",
				Title:    "Meditations",
				Author:   "Marcus Aurelius",
				Language: "en",
				Chapters: []entities.Chapter{
					{Title: "Book One", Content: paragraphs(
						"From my grandfather Verus I learned good morals and the government of my temper.",
						"From the reputation and remembrance of my father, modesty and a manly character.",
					)},
					{Title: "Book Two", Content: paragraphs(
						"Begin the morning by saying to thyself, I shall meet with the busy-body, the ungrateful, arrogant, deceitful, envious, unsocial.",
						"Do not act as if thou wert going to live ten thousand years.",
					)},
					{Title: "Book Four", Content: paragraphs(
						"Very little is needed to make a happy life; it is all within yourself, in your way of thinking.",
						"The universe is change; our life is what our thoughts make it.",
					)},
				},
			},
			Highlights: []entities.UserHighlight{
				{ChapterID: "meditations-ch2", SelectedText: "Do not act as if thou wert going to live ten thousand years.", StartOffset: 131, EndOffset: 192, Color: entities.HighlightColorYellow},
				{ChapterID: "meditations-ch3", SelectedText: "our life is what our thoughts make it", StartOffset: 120, EndOffset: 157, Color: entities.HighlightColorGreen, Note: "Core idea of the book"},
			},
			Notes: []entities.UserNote{
				{ChapterID: "meditations-ch3", Title: "On change", Content: "Compare with Heraclitus and the river.", NoteType: entities.NoteTypeGeneral, Tags: entities.Tags{"stoicism"}},
			},
			Bookmarks: []entities.Bookmark{
				{ChapterID: "meditations-ch2", Position: 50, Title: "Morning reflection"},
			},
			Progress: &entities.ReadingProgress{
				CurrentChapterID:   "meditations-ch3",
				CurrentPosition:    40,
				ProgressPercentage: 80,
				StartedAt:          time.Now().AddDate(0, 0, -3),
			},
		},
		{
			Book: entities.ModernBook{
				ID:       "walden",
				Title:    "Walden",
				Author:   "Henry David Thoreau",
				Language: "en",
				Chapters: []entities.Chapter{
					{Title: "Economy", Content: paragraphs(
						"The mass of men lead lives of quiet desperation.",
						"Most of the luxuries, and many of the so-called comforts of life, are not only not indispensable, but positive hindrances to the elevation of mankind.",
					)},
					{Title: "Where I Lived, and What I Lived For", Content: paragraphs(
						"I went to the woods because I wished to live deliberately, to front only the essential facts of life.",
						"Our life is frittered away by detail. Simplify, simplify.",
					)},
				},
			},
			Highlights: []entities.UserHighlight{
				{ChapterID: "walden-ch1", SelectedText: "The mass of men lead lives of quiet desperation.", StartOffset: 0, EndOffset: 48, Color: entities.HighlightColorBlue},
			},
		},
	}
}
