package content

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/readnwin/reader/internal/entities"
)

// ParsedDocument is an HTML book split into chapters, before it is stored.
type ParsedDocument struct {
	Title    string
	Chapters []entities.Chapter
}

// SplitChapters splits an HTML document into chapters at its top-level
// headings. The highest heading level present in the body (h1, then h2)
// starts a new chapter; content before the first heading becomes a
// "Preface" chapter. A document without headings is a single chapter.
func SplitChapters(r io.Reader) (*ParsedDocument, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	body := doc.Find("body")

	splitTag := ""
	for _, tag := range []string{"h1", "h2"} {
		if body.ChildrenFiltered(tag).Length() > 0 {
			splitTag = tag
			break
		}
	}

	parsed := &ParsedDocument{Title: title}
	var current *entities.Chapter
	var buf strings.Builder

	flush := func() {
		if current == nil {
			return
		}
		current.Content = strings.TrimSpace(buf.String())
		if current.Content != "" || current.Title != "" {
			parsed.Chapters = append(parsed.Chapters, *current)
		}
		buf.Reset()
		current = nil
	}

	body.Contents().Each(func(i int, s *goquery.Selection) {
		if splitTag != "" && goquery.NodeName(s) == splitTag {
			flush()
			heading := strings.TrimSpace(s.Text())
			anchor, _ := s.Attr("id")
			current = &entities.Chapter{Title: heading, Anchor: anchor}
			return
		}
		if current == nil {
			if strings.TrimSpace(s.Text()) == "" && goquery.NodeName(s) == "#text" {
				return
			}
			current = &entities.Chapter{Title: "Preface"}
		}
		html, err := goquery.OuterHtml(s)
		if err != nil {
			return
		}
		buf.WriteString(html)
	})
	flush()

	if len(parsed.Chapters) == 0 {
		return nil, fmt.Errorf("document has no readable content")
	}
	if splitTag == "" && len(parsed.Chapters) == 1 && title != "" {
		parsed.Chapters[0].Title = title
	}
	for i := range parsed.Chapters {
		parsed.Chapters[i].Number = i + 1
		if err := AnalyzeChapter(&parsed.Chapters[i]); err != nil {
			return nil, err
		}
	}
	if parsed.Title == "" {
		parsed.Title = parsed.Chapters[0].Title
	}
	return parsed, nil
}
