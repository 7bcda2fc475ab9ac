// Package content derives reading metadata from chapter HTML: plain text,
// word counts, reading time estimates, the table of contents and in-book
// search matches.
package content

import (
	"fmt"
	"math"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/readnwin/reader/internal/entities"
)

// WordsPerMinute is the reading speed used for chapter time estimates.
const WordsPerMinute = 200

// ExtractText returns the visible text of an HTML fragment with runs of
// whitespace collapsed to a single space.
func ExtractText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}
	doc.Find("script, style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " "), nil
}

func CountWords(text string) int {
	return len(strings.Fields(text))
}

// EstimateReadingMinutes rounds up, so any non-empty chapter takes at least a minute.
func EstimateReadingMinutes(words int) int {
	if words <= 0 {
		return 0
	}
	return int(math.Ceil(float64(words) / WordsPerMinute))
}

// AnalyzeChapter fills in the word count and reading estimate of a chapter.
func AnalyzeChapter(ch *entities.Chapter) error {
	text, err := ExtractText(ch.Content)
	if err != nil {
		return fmt.Errorf("chapter %q: %w", ch.Title, err)
	}
	ch.WordCount = CountWords(text)
	ch.EstimatedReadingMinutes = EstimateReadingMinutes(ch.WordCount)
	return nil
}

// AnalyzeBook analyzes every chapter and sets the book total.
func AnalyzeBook(book *entities.ModernBook) error {
	total := 0
	for i := range book.Chapters {
		if err := AnalyzeChapter(&book.Chapters[i]); err != nil {
			return err
		}
		total += book.Chapters[i].WordCount
	}
	book.WordCount = total
	return nil
}
