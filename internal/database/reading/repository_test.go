package reading

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readnwin/reader/internal/database"
	"github.com/readnwin/reader/internal/entities"
)

func setupTestDB(t *testing.T) *Repository {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "reading.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db.DB)
}

func TestRepository_SaveProgress(t *testing.T) {
	t.Run("creates then updates a single record", func(t *testing.T) {
		repo := setupTestDB(t)

		first, err := repo.SaveProgress(&entities.ReadingProgress{
			UserID: "u1", BookID: "42", CurrentChapterID: "c1", CurrentPosition: 10,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, first.ID)
		assert.False(t, first.StartedAt.IsZero())

		second, err := repo.SaveProgress(&entities.ReadingProgress{
			UserID: "u1", BookID: "42", CurrentChapterID: "c2", CurrentPosition: 3, ProgressPercentage: 40,
		})
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		got, err := repo.GetProgress("u1", "42")
		require.NoError(t, err)
		assert.Equal(t, "c2", got.CurrentChapterID)
		assert.Equal(t, 3, got.CurrentPosition)
		assert.Equal(t, 40.0, got.ProgressPercentage)
		assert.Nil(t, got.CompletedAt)
	})

	t.Run("ignores client supplied counters", func(t *testing.T) {
		repo := setupTestDB(t)
		require.NoError(t, repo.AddSessionTime("u1", "42", 120))

		_, err := repo.SaveProgress(&entities.ReadingProgress{
			UserID: "u1", BookID: "42", TotalReadingTime: 5, SessionsCount: 99,
		})
		require.NoError(t, err)

		got, err := repo.GetProgress("u1", "42")
		require.NoError(t, err)
		assert.Equal(t, int64(120), got.TotalReadingTime)
		assert.Equal(t, 1, got.SessionsCount)
	})

	t.Run("stamps completion once at 100 percent", func(t *testing.T) {
		repo := setupTestDB(t)
		fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		repo.now = func() time.Time { return fixed }

		saved, err := repo.SaveProgress(&entities.ReadingProgress{UserID: "u1", BookID: "42", ProgressPercentage: 120})
		require.NoError(t, err)
		require.NotNil(t, saved.CompletedAt)
		assert.Equal(t, 100.0, saved.ProgressPercentage)
		assert.True(t, saved.CompletedAt.Equal(fixed))

		repo.now = func() time.Time { return fixed.Add(time.Hour) }
		again, err := repo.SaveProgress(&entities.ReadingProgress{UserID: "u1", BookID: "42", ProgressPercentage: 100})
		require.NoError(t, err)
		assert.True(t, again.CompletedAt.Equal(fixed))
	})

	t.Run("progress is per user", func(t *testing.T) {
		repo := setupTestDB(t)
		_, err := repo.SaveProgress(&entities.ReadingProgress{UserID: "u1", BookID: "42"})
		require.NoError(t, err)

		_, err = repo.GetProgress("u2", "42")
		assert.ErrorIs(t, err, database.ErrNotFound)
	})
}

func TestRepository_AddSessionTime(t *testing.T) {
	repo := setupTestDB(t)

	require.NoError(t, repo.AddSessionTime("u1", "42", 60))
	require.NoError(t, repo.AddSessionTime("u1", "42", 30))
	require.NoError(t, repo.AddSessionTime("u1", "42", -5))

	got, err := repo.GetProgress("u1", "42")
	require.NoError(t, err)
	assert.Equal(t, int64(90), got.TotalReadingTime)
	assert.Equal(t, 3, got.SessionsCount)
}

func TestRepository_ProgressWritesOnNewRecordDoNotConflict(t *testing.T) {
	repo := setupTestDB(t)

	for i := 0; i < 20; i++ {
		bookID := fmt.Sprintf("book-%d", i)
		var (
			wg      sync.WaitGroup
			saveErr error
			foldErr error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, saveErr = repo.SaveProgress(&entities.ReadingProgress{UserID: "u1", BookID: bookID, CurrentPosition: 40})
		}()
		go func() {
			defer wg.Done()
			foldErr = repo.AddSessionTime("u1", bookID, 90)
		}()
		wg.Wait()
		require.NoError(t, saveErr, bookID)
		require.NoError(t, foldErr, bookID)

		got, err := repo.GetProgress("u1", bookID)
		require.NoError(t, err)
		assert.Equal(t, 40, got.CurrentPosition, bookID)
		assert.Equal(t, int64(90), got.TotalReadingTime, bookID)
		assert.Equal(t, 1, got.SessionsCount, bookID)
	}
}

func TestRepository_Highlights(t *testing.T) {
	repo := setupTestDB(t)

	h := &entities.UserHighlight{UserID: "u1", BookID: "42", ChapterID: "c1", SelectedText: "Call me Ishmael", StartOffset: 0, EndOffset: 15}
	require.NoError(t, repo.CreateHighlight(h))
	assert.NotEmpty(t, h.ID)
	assert.Equal(t, entities.HighlightColorYellow, h.Color)

	blue := entities.HighlightColorBlue
	note := "opening line"
	updated, err := repo.UpdateHighlight("u1", h.ID, entities.HighlightUpdate{Color: &blue, Note: &note})
	require.NoError(t, err)
	assert.Equal(t, entities.HighlightColorBlue, updated.Color)
	assert.Equal(t, "opening line", updated.Note)
	assert.Equal(t, "Call me Ishmael", updated.SelectedText)

	_, err = repo.UpdateHighlight("u2", h.ID, entities.HighlightUpdate{Color: &blue})
	assert.ErrorIs(t, err, database.ErrNotFound)

	list, err := repo.ListHighlights("u1", "42")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	linked := &entities.UserNote{UserID: "u1", BookID: "42", HighlightID: h.ID, Content: "why?"}
	require.NoError(t, repo.CreateNote(linked))

	require.NoError(t, repo.DeleteHighlight("u1", h.ID))
	assert.ErrorIs(t, repo.DeleteHighlight("u1", h.ID), database.ErrNotFound)

	list, err = repo.ListHighlights("u1", "42")
	require.NoError(t, err)
	assert.Empty(t, list)

	orphan, err := repo.GetNote("u1", linked.ID)
	require.NoError(t, err)
	assert.Empty(t, orphan.HighlightID)
}

func TestRepository_Notes(t *testing.T) {
	repo := setupTestDB(t)

	n := &entities.UserNote{UserID: "u1", BookID: "42", Content: "whales", Tags: entities.Tags{"sea", " sea ", "", "ships"}}
	require.NoError(t, repo.CreateNote(n))
	assert.Equal(t, entities.NoteTypeGeneral, n.NoteType)

	got, err := repo.GetNote("u1", n.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.Tags{"sea", "ships"}, got.Tags)

	insight := entities.NoteTypeInsight
	fav := true
	tags := entities.Tags{"theme"}
	updated, err := repo.UpdateNote("u1", n.ID, entities.NoteUpdate{NoteType: &insight, IsFavorite: &fav, Tags: &tags})
	require.NoError(t, err)
	assert.Equal(t, entities.NoteTypeInsight, updated.NoteType)
	assert.True(t, updated.IsFavorite)
	assert.Equal(t, entities.Tags{"theme"}, updated.Tags)
	assert.Equal(t, "whales", updated.Content)

	require.NoError(t, repo.DeleteNote("u1", n.ID))
	notes, err := repo.ListNotes("u1", "42")
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestRepository_Bookmarks(t *testing.T) {
	repo := setupTestDB(t)

	b := &entities.Bookmark{ID: "b-1", UserID: "u1", BookID: "42", ChapterID: "c1", Position: 5, Title: "Start"}
	require.NoError(t, repo.SaveBookmark(b))
	b.Title = "Renamed"
	require.NoError(t, repo.SaveBookmark(b))

	list, err := repo.ListBookmarks("u1", "42")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Renamed", list[0].Title)

	require.NoError(t, repo.DeleteBookmark("u1", "b-1"))
	assert.ErrorIs(t, repo.DeleteBookmark("u1", "b-1"), database.ErrNotFound)
}

func TestRepository_Sessions(t *testing.T) {
	repo := setupTestDB(t)
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Second)

	s := &entities.ReadingSession{UserID: "u1", BookID: "42", StartTime: start, EndTime: &end, DurationSeconds: 5}
	require.NoError(t, repo.CreateSession(s))
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, int64(90), s.DurationSeconds)
	assert.Equal(t, entities.DeviceTypeDesktop, s.DeviceType)

	old := &entities.ReadingSession{UserID: "u1", BookID: "42", StartTime: start.AddDate(-2, 0, 0)}
	require.NoError(t, repo.CreateSession(old))

	removed, err := repo.DeleteSessionsBefore(start.AddDate(-1, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	sessions, err := repo.ListSessions("u1", "42")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, s.ID, sessions[0].ID)
}
