package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestModernBook_TotalWordCount(t *testing.T) {
	book := &ModernBook{Chapters: []Chapter{{WordCount: 120}, {WordCount: 80}}}
	assert.Equal(t, 200, book.TotalWordCount())

	book.WordCount = 500
	assert.Equal(t, 500, book.TotalWordCount())
}

func TestModernBook_ChapterIndex(t *testing.T) {
	book := &ModernBook{Chapters: []Chapter{{ID: "a"}, {ID: "b"}}}

	assert.Equal(t, 1, book.ChapterIndex("b"))
	assert.Equal(t, -1, book.ChapterIndex("missing"))
}

func TestModernBook_Clone(t *testing.T) {
	book := &ModernBook{
		ID:       "b1",
		Chapters: []Chapter{{ID: "c1", Title: "One"}},
		TableOfContents: []TableOfContentsItem{
			{ID: "t1", Children: []TableOfContentsItem{{ID: "t1.1"}}},
		},
	}

	c := book.Clone()
	c.Chapters[0].Title = "Changed"
	c.TableOfContents[0].Children[0].ID = "changed"

	assert.Equal(t, "One", book.Chapters[0].Title)
	assert.Equal(t, "t1.1", book.TableOfContents[0].Children[0].ID)
	assert.Nil(t, (*ModernBook)(nil).Clone())
}

func TestProgressUpdate_Apply(t *testing.T) {
	p := ReadingProgress{CurrentChapterID: "c1", CurrentPosition: 10, ProgressPercentage: 5}

	ProgressUpdate{CurrentPosition: ptr(55)}.Apply(&p)

	assert.Equal(t, "c1", p.CurrentChapterID)
	assert.Equal(t, 55, p.CurrentPosition)
	assert.Equal(t, 5.0, p.ProgressPercentage)
}

func TestHighlightUpdate_Apply(t *testing.T) {
	h := UserHighlight{Color: HighlightColorYellow, Note: "old"}

	HighlightUpdate{Color: ptr(HighlightColorBlue)}.Apply(&h)

	assert.Equal(t, HighlightColorBlue, h.Color)
	assert.Equal(t, "old", h.Note)
}

func TestNoteUpdate_Apply(t *testing.T) {
	n := UserNote{Content: "draft", Tags: Tags{"a"}}

	NoteUpdate{Content: ptr("final"), Tags: ptr(Tags{"b", "c"})}.Apply(&n)

	assert.Equal(t, "final", n.Content)
	assert.Equal(t, Tags{"b", "c"}, n.Tags)
}

func TestValidEnums(t *testing.T) {
	assert.True(t, HighlightColorOrange.Valid())
	assert.False(t, HighlightColor("magenta").Valid())
	assert.True(t, NoteTypeQuestion.Valid())
	assert.False(t, NoteType("rant").Valid())
}

func TestTags_ValueAndScan(t *testing.T) {
	v, err := Tags(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	v, err = Tags{"x", "y"}.Value()
	require.NoError(t, err)

	var scanned Tags
	require.NoError(t, scanned.Scan(v))
	assert.Equal(t, Tags{"x", "y"}, scanned)

	require.NoError(t, scanned.Scan([]byte(`["z"]`)))
	assert.Equal(t, Tags{"z"}, scanned)

	require.NoError(t, scanned.Scan(nil))
	assert.Equal(t, Tags{}, scanned)

	assert.Error(t, scanned.Scan(42))
	assert.Error(t, scanned.Scan("not json"))
}

func TestTags_Normalize(t *testing.T) {
	got := Tags{" stoic ", "", "stoic", "ideas"}.Normalize()
	assert.Equal(t, Tags{"stoic", "ideas"}, got)
}

func TestSettingsUpdate_Apply(t *testing.T) {
	base := DefaultReaderSettings()

	got := SettingsUpdate{Theme: ptr(ThemeSepia), FontSize: ptr(20)}.Apply(base)

	assert.Equal(t, ThemeSepia, got.Theme)
	assert.Equal(t, 20, got.FontSize)
	assert.Equal(t, base.LineHeight, got.LineHeight)
	assert.Equal(t, ThemeLight, base.Theme)
}
