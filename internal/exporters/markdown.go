package exporters

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/readnwin/reader/internal/entities"
	"github.com/readnwin/reader/internal/utils"
)

var ErrNoBook = errors.New("annotations have no book")

type frontMatter struct {
	ContentType string   `yaml:"content_type"`
	BookID      string   `yaml:"book_id"`
	Title       string   `yaml:"title"`
	Author      string   `yaml:"author,omitempty"`
	Progress    *float64 `yaml:"progress,omitempty"`
	ReadingTime int64    `yaml:"reading_time_seconds,omitempty"`
	ExportedAt  string   `yaml:"exported_at"`
	Tags        []string `yaml:"tags"`
}

type MarkdownExporter struct {
	OutputDir string
	now       func() time.Time
}

func NewMarkdownExporter(outputDir string) *MarkdownExporter {
	return &MarkdownExporter{OutputDir: outputDir, now: time.Now}
}

// Export writes one markdown file per book and returns its path.
func (e *MarkdownExporter) Export(a BookAnnotations) (string, ExportResult, error) {
	markdown, err := GenerateMarkdown(a, e.now())
	if err != nil {
		return "", ExportResult{}, err
	}
	if err := os.MkdirAll(e.OutputDir, 0755); err != nil {
		return "", ExportResult{}, fmt.Errorf("failed to create export directory: %w", err)
	}

	outputPath := filepath.Join(e.OutputDir, utils.SanitizeFilename(a.Book.Title)+".md")
	if err := os.WriteFile(outputPath, []byte(markdown), 0644); err != nil {
		return "", ExportResult{}, fmt.Errorf("failed to write %s: %w", outputPath, err)
	}

	return outputPath, ExportResult{
		BooksProcessed:      1,
		HighlightsProcessed: len(a.Highlights),
		NotesProcessed:      len(a.Notes),
		BookmarksProcessed:  len(a.Bookmarks),
	}, nil
}

// GenerateMarkdown renders the annotations of a book as markdown with YAML
// front matter. Highlights and bookmarks follow the book's chapter order.
func GenerateMarkdown(a BookAnnotations, exportedAt time.Time) (string, error) {
	if a.Book == nil {
		return "", ErrNoBook
	}

	fm := frontMatter{
		ContentType: "book_annotations",
		BookID:      a.Book.ID,
		Title:       a.Book.Title,
		Author:      a.Book.Author,
		ExportedAt:  exportedAt.Format("2006-01-02"),
		Tags:        []string{"books", "annotations"},
	}
	if a.Progress != nil {
		pct := a.Progress.ProgressPercentage
		fm.Progress = &pct
		fm.ReadingTime = a.Progress.TotalReadingTime
	}
	header, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("failed to encode front matter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(header)
	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "# %s\n\n", a.Book.Title)

	order := chapterOrder(a.Book)
	titles := chapterTitles(a.Book)

	if len(a.Highlights) > 0 {
		b.WriteString("## Highlights\n\n")
		highlights := append([]entities.UserHighlight(nil), a.Highlights...)
		sort.SliceStable(highlights, func(i, j int) bool {
			ci, cj := order[highlights[i].ChapterID], order[highlights[j].ChapterID]
			if ci != cj {
				return ci < cj
			}
			return highlights[i].StartOffset < highlights[j].StartOffset
		})
		for _, h := range highlights {
			fmt.Fprintf(&b, "> [!%s] %s\n", calloutType(h.Color), titles[h.ChapterID])
			fmt.Fprintf(&b, "> %s\n\n", strings.ReplaceAll(h.SelectedText, "\n", "\n> "))
			if h.Note != "" {
				fmt.Fprintf(&b, "**Note:** %s\n\n", h.Note)
			}
		}
	}

	if len(a.Notes) > 0 {
		b.WriteString("## Notes\n\n")
		for _, n := range a.Notes {
			title := n.Title
			if title == "" {
				title = n.CreatedAt.Format("2006-01-02 15:04")
			}
			fmt.Fprintf(&b, "### %s\n\n%s\n\n", title, n.Content)
			if len(n.Tags) > 0 {
				tags := make([]string, len(n.Tags))
				for i, t := range n.Tags {
					tags[i] = "#" + strings.ReplaceAll(t, " ", "-")
				}
				fmt.Fprintf(&b, "%s\n\n", strings.Join(tags, " "))
			}
		}
	}

	if len(a.Bookmarks) > 0 {
		b.WriteString("## Bookmarks\n\n")
		bookmarks := append([]entities.Bookmark(nil), a.Bookmarks...)
		sort.SliceStable(bookmarks, func(i, j int) bool {
			ci, cj := order[bookmarks[i].ChapterID], order[bookmarks[j].ChapterID]
			if ci != cj {
				return ci < cj
			}
			return bookmarks[i].Position < bookmarks[j].Position
		})
		for _, bm := range bookmarks {
			fmt.Fprintf(&b, "- %s (%s, %d%%)\n", bm.Title, titles[bm.ChapterID], bm.Position)
		}
		b.WriteString("\n")
	}

	return b.String(), nil
}

func chapterOrder(book *entities.ModernBook) map[string]int {
	order := make(map[string]int, len(book.Chapters))
	for i, ch := range book.Chapters {
		order[ch.ID] = i
	}
	return order
}

func chapterTitles(book *entities.ModernBook) map[string]string {
	titles := make(map[string]string, len(book.Chapters))
	for _, ch := range book.Chapters {
		titles[ch.ID] = ch.Title
	}
	return titles
}

// calloutType maps highlight colors to Obsidian callout types.
func calloutType(c entities.HighlightColor) string {
	switch c {
	case entities.HighlightColorGreen:
		return "tip"
	case entities.HighlightColorBlue:
		return "info"
	case entities.HighlightColorPink, entities.HighlightColorPurple:
		return "important"
	case entities.HighlightColorOrange:
		return "warning"
	default:
		return "quote"
	}
}
