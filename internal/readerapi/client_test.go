package readerapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readnwin/reader/internal/entities"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, WithHTTPClient(server.Client()))
	require.NoError(t, err)
	return client
}

func TestNewClient_RejectsRelativeURL(t *testing.T) {
	_, err := NewClient("/api")
	assert.Error(t, err)
}

func TestClient_GetBookContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/books/42/content", r.URL.Path)
		cookie, err := r.Cookie(UserCookieName)
		if assert.NoError(t, err) {
			assert.Equal(t, "u1", cookie.Value)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"book": entities.ModernBook{ID: "42", Title: "Moby Dick", Chapters: []entities.Chapter{{ID: "c1"}}},
		})
	})
	client.SetUser("u1")

	book, err := client.GetBookContent(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "Moby Dick", book.Title)
	assert.Len(t, book.Chapters, 1)
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		isNotFound bool
		message    string
	}{
		{"not found with envelope", http.StatusNotFound, `{"error":"book not found"}`, true, "book not found"},
		{"server error plain body", http.StatusInternalServerError, "boom", false, "boom"},
		{"bad request", http.StatusBadRequest, `{"error":"invalid color"}`, false, "invalid color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.GetBookContent(context.Background(), "42")
			require.Error(t, err)

			var statusErr *StatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, tt.status, statusErr.StatusCode)
			assert.Equal(t, tt.message, statusErr.Message)
			assert.Equal(t, tt.isNotFound, errors.Is(err, ErrNotFound))
		})
	}
}

func TestClient_GetProgressMissing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/reading/progress/42", r.URL.Path)
		w.Write([]byte(`{"progress":null}`))
	})

	progress, err := client.GetProgress(context.Background(), "42")
	require.NoError(t, err)
	assert.Nil(t, progress)
}

func TestClient_SaveProgress(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var got entities.ReadingProgress
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, 17, got.CurrentPosition)
		w.WriteHeader(http.StatusNoContent)
	})

	err := client.SaveProgress(context.Background(), "42", entities.ReadingProgress{BookID: "42", CurrentPosition: 17})
	assert.NoError(t, err)
}

func TestClient_CreateHighlight(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/reading/highlights", r.URL.Path)

		var got map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, hasID := got["id"]
		assert.False(t, hasID, "id must not be sent on create")

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"highlight": entities.UserHighlight{ID: "h-1", SelectedText: "Call me Ishmael"},
		})
	})

	h, err := client.CreateHighlight(context.Background(), entities.UserHighlight{ID: "local", SelectedText: "Call me Ishmael"})
	require.NoError(t, err)
	assert.Equal(t, "h-1", h.ID)
}

func TestClient_UpdateNoteEmptyPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/reading/notes/n%201", r.URL.EscapedPath())
		w.Write([]byte(`{}`))
	})

	content := "updated"
	_, err := client.UpdateNote(context.Background(), "n 1", entities.NoteUpdate{Content: &content})
	assert.Error(t, err)
}

func TestClient_Search(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/books/42/search", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "whale", body["query"])
		json.NewEncoder(w).Encode(map[string]any{
			"matches": []entities.SearchResult{{ChapterID: "c1", Position: 3, Snippet: "the whale"}},
		})
	})

	matches, err := client.Search(context.Background(), "42", "whale")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "c1", matches[0].ChapterID)
}

func TestClient_DeleteAndRecord(t *testing.T) {
	var calls []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})
	ctx := context.Background()

	require.NoError(t, client.DeleteHighlight(ctx, "h-1"))
	require.NoError(t, client.DeleteNote(ctx, "n-1"))
	require.NoError(t, client.CreateBookmark(ctx, entities.Bookmark{ID: "b-1"}))
	require.NoError(t, client.DeleteBookmark(ctx, "b-1"))
	require.NoError(t, client.RecordSession(ctx, entities.ReadingSession{BookID: "42"}))

	assert.Equal(t, []string{
		"DELETE /api/reading/highlights/h-1",
		"DELETE /api/reading/notes/n-1",
		"POST /api/reading/bookmarks",
		"DELETE /api/reading/bookmarks/b-1",
		"POST /api/reading/sessions",
	}, calls)
}

func TestClient_WithUserOverridesJar(t *testing.T) {
	var cookies [][]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var values []string
		for _, c := range r.Cookies() {
			if c.Name == UserCookieName {
				values = append(values, c.Value)
			}
		}
		cookies = append(cookies, values)
		w.WriteHeader(http.StatusNoContent)
	})
	client.SetUser("bob")

	require.NoError(t, client.RecordSession(WithUser(context.Background(), "alice"), entities.ReadingSession{BookID: "42"}))
	require.NoError(t, client.RecordSession(context.Background(), entities.ReadingSession{BookID: "42"}))

	assert.Equal(t, [][]string{{"alice"}, {"bob"}}, cookies)
}
