package content

import (
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/readnwin/reader/internal/entities"
)

// BuildTableOfContents returns one top-level entry per chapter, in reading
// order, with the chapter's anchored h2/h3 headings as children.
func BuildTableOfContents(chapters []entities.Chapter) []entities.TableOfContentsItem {
	ordered := append([]entities.Chapter(nil), chapters...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Number < ordered[j].Number
	})

	items := make([]entities.TableOfContentsItem, 0, len(ordered))
	for _, ch := range ordered {
		item := entities.TableOfContentsItem{
			ID:        "toc-" + ch.ID,
			Title:     ch.Title,
			ChapterID: ch.ID,
			Anchor:    ch.Anchor,
			Level:     1,
		}
		item.Children = headingItems(ch)
		items = append(items, item)
	}
	return items
}

func headingItems(ch entities.Chapter) []entities.TableOfContentsItem {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(ch.Content))
	if err != nil {
		return nil
	}

	var children []entities.TableOfContentsItem
	doc.Find("h2[id], h3[id]").Each(func(i int, s *goquery.Selection) {
		anchor, _ := s.Attr("id")
		title := strings.TrimSpace(s.Text())
		if anchor == "" || title == "" {
			return
		}
		level := 2
		if goquery.NodeName(s) == "h3" {
			level = 3
		}
		children = append(children, entities.TableOfContentsItem{
			ID:        "toc-" + ch.ID + "-" + anchor,
			Title:     title,
			ChapterID: ch.ID,
			Anchor:    anchor,
			Level:     level,
		})
	})
	return children
}
