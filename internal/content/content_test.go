package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readnwin/reader/internal/entities"
)

func TestExtractText(t *testing.T) {
	text, err := ExtractText(`<p>Call me <em>Ishmael</em>.</p>
		<script>var x = 1;</script>
		<p>Some   years ago</p>`)
	require.NoError(t, err)
	assert.Equal(t, "Call me Ishmael. Some years ago", text)
}

func TestEstimateReadingMinutes(t *testing.T) {
	tests := []struct {
		words int
		want  int
	}{
		{0, 0},
		{1, 1},
		{200, 1},
		{201, 2},
		{1000, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EstimateReadingMinutes(tt.words), "words=%d", tt.words)
	}
}

func TestAnalyzeBook(t *testing.T) {
	book := &entities.ModernBook{
		Chapters: []entities.Chapter{
			{Title: "One", Content: "<p>" + strings.Repeat("word ", 250) + "</p>"},
			{Title: "Two", Content: "<p>three little words</p>"},
		},
	}

	require.NoError(t, AnalyzeBook(book))

	assert.Equal(t, 250, book.Chapters[0].WordCount)
	assert.Equal(t, 2, book.Chapters[0].EstimatedReadingMinutes)
	assert.Equal(t, 3, book.Chapters[1].WordCount)
	assert.Equal(t, 253, book.WordCount)
}

func TestBuildTableOfContents(t *testing.T) {
	chapters := []entities.Chapter{
		{ID: "c2", Number: 2, Title: "Second", Content: `<h2 id="a">Part A</h2><p>x</p><h3 id="b">Part B</h3><h2>No anchor</h2>`},
		{ID: "c1", Number: 1, Title: "First", Content: "<p>intro</p>"},
	}

	toc := BuildTableOfContents(chapters)

	require.Len(t, toc, 2)
	assert.Equal(t, "c1", toc[0].ChapterID)
	assert.Empty(t, toc[0].Children)
	assert.Equal(t, "c2", toc[1].ChapterID)
	require.Len(t, toc[1].Children, 2)
	assert.Equal(t, "a", toc[1].Children[0].Anchor)
	assert.Equal(t, 2, toc[1].Children[0].Level)
	assert.Equal(t, "Part B", toc[1].Children[1].Title)
	assert.Equal(t, 3, toc[1].Children[1].Level)
}

func TestSearch(t *testing.T) {
	chapters := []entities.Chapter{
		{ID: "c1", Title: "Loomings", Content: "<p>Call me Ishmael. The whale, the WHALE!</p>"},
		{ID: "c2", Title: "The Carpet-Bag", Content: "<p>No cetaceans here.</p>"},
		{ID: "c3", Title: "The Spouter-Inn", Content: "<p>A whale of a picture.</p>"},
	}

	t.Run("matches case-insensitively across chapters", func(t *testing.T) {
		results, err := Search(chapters, "whale", 0)
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "c1", results[0].ChapterID)
		assert.Equal(t, 21, results[0].Position)
		assert.Equal(t, "c1", results[1].ChapterID)
		assert.Equal(t, "c3", results[2].ChapterID)
		assert.Equal(t, "The Spouter-Inn", results[2].ChapterTitle)
		assert.Contains(t, results[2].Snippet, "whale of a picture")
	})

	t.Run("folds case rune by rune", func(t *testing.T) {
		turkish := []entities.Chapter{{ID: "t", Content: "<p>İSTANBUL and Ankara, istanbul again</p>"}}
		results, err := Search(turkish, "Istanbul", 0)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, 0, results[0].Position)
		assert.Equal(t, 21, results[1].Position)
	})

	t.Run("respects the limit", func(t *testing.T) {
		results, err := Search(chapters, "whale", 1)
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("blank query returns no results", func(t *testing.T) {
		results, err := Search(chapters, "   ", 0)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("long text gets ellipsized snippets", func(t *testing.T) {
		long := []entities.Chapter{{ID: "c", Content: "<p>" + strings.Repeat("a ", 100) + "needle" + strings.Repeat(" b", 100) + "</p>"}}
		results, err := Search(long, "needle", 0)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.True(t, strings.HasPrefix(results[0].Snippet, "…"))
		assert.True(t, strings.HasSuffix(results[0].Snippet, "…"))
		assert.Contains(t, results[0].Snippet, "needle")
	})
}

func TestSplitChapters(t *testing.T) {
	t.Run("splits on h1 with preface", func(t *testing.T) {
		doc := `<html><head><title>Moby Dick</title></head><body>
<p>Etymology.</p>
<h1 id="ch1">Loomings</h1>
<p>Call me Ishmael.</p>
<h1>The Carpet-Bag</h1>
<p>I stuffed a shirt or two.</p>
</body></html>`

		parsed, err := SplitChapters(strings.NewReader(doc))
		require.NoError(t, err)

		assert.Equal(t, "Moby Dick", parsed.Title)
		require.Len(t, parsed.Chapters, 3)
		assert.Equal(t, "Preface", parsed.Chapters[0].Title)
		assert.Equal(t, "Loomings", parsed.Chapters[1].Title)
		assert.Equal(t, "ch1", parsed.Chapters[1].Anchor)
		assert.Equal(t, 2, parsed.Chapters[1].Number)
		assert.Equal(t, 3, parsed.Chapters[1].WordCount)
		assert.Contains(t, parsed.Chapters[2].Content, "stuffed a shirt")
	})

	t.Run("document without headings is one chapter", func(t *testing.T) {
		doc := `<html><head><title>Essay</title></head><body><p>Just words.</p></body></html>`

		parsed, err := SplitChapters(strings.NewReader(doc))
		require.NoError(t, err)
		require.Len(t, parsed.Chapters, 1)
		assert.Equal(t, "Essay", parsed.Chapters[0].Title)
		assert.Equal(t, 2, parsed.Chapters[0].WordCount)
	})

	t.Run("empty body is an error", func(t *testing.T) {
		_, err := SplitChapters(strings.NewReader(`<html><body>  </body></html>`))
		assert.Error(t, err)
	})
}
