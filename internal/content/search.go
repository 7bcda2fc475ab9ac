package content

import (
	"strings"
	"unicode"

	"github.com/readnwin/reader/internal/entities"
)

const (
	// DefaultSearchLimit caps the number of matches returned for one query.
	DefaultSearchLimit = 50
	snippetRadius      = 60
)

// Search finds case-insensitive occurrences of query in the text of each
// chapter. Positions are rune offsets into the chapter's extracted text.
func Search(chapters []entities.Chapter, query string, limit int) ([]entities.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []entities.SearchResult{}, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	needle := foldRunes(query)
	results := []entities.SearchResult{}

	for _, ch := range chapters {
		text, err := ExtractText(ch.Content)
		if err != nil {
			return nil, err
		}
		haystack := []rune(text)
		lower := foldRunes(text)

		for i := 0; i+len(needle) <= len(lower); {
			if !hasPrefixAt(lower, needle, i) {
				i++
				continue
			}
			results = append(results, entities.SearchResult{
				ChapterID:    ch.ID,
				ChapterTitle: ch.Title,
				Position:     i,
				Snippet:      snippet(haystack, i, len(needle)),
			})
			if len(results) >= limit {
				return results, nil
			}
			i += len(needle)
		}
	}
	return results, nil
}

// foldRunes lower-cases s one rune at a time, so rune offsets into the
// result are offsets into s.
func foldRunes(s string) []rune {
	runes := []rune(s)
	for i, r := range runes {
		runes[i] = unicode.ToLower(r)
	}
	return runes
}

func hasPrefixAt(s, prefix []rune, at int) bool {
	for j := range prefix {
		if s[at+j] != prefix[j] {
			return false
		}
	}
	return true
}

func snippet(text []rune, start, length int) string {
	from := start - snippetRadius
	if from < 0 {
		from = 0
	}
	to := start + length + snippetRadius
	if to > len(text) {
		to = len(text)
	}

	var b strings.Builder
	if from > 0 {
		b.WriteString("…")
	}
	b.WriteString(strings.TrimSpace(string(text[from:to])))
	if to < len(text) {
		b.WriteString("…")
	}
	return b.String()
}
