package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readnwin/reader/internal/config"
	"github.com/readnwin/reader/internal/database"
	"github.com/readnwin/reader/internal/database/books"
	"github.com/readnwin/reader/internal/database/reading"
	"github.com/readnwin/reader/internal/entities"
	httpapi "github.com/readnwin/reader/internal/http"
	"github.com/readnwin/reader/internal/logger"
)

const gardenHTML = `<html><head><title>The Garden</title></head><body>
<p>An opening line.</p>
<h1>Spring</h1><p>The rose garden was quiet.</p>
<h1>Summer</h1><p>Everything bloomed at once.</p>
</body></html>`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Global:   config.Global{DefaultUserID: "1"},
		Database: config.Database{Path: filepath.Join(dir, "reading.db")},
		Reader:   config.Reader{SettingsPath: filepath.Join(dir, "settings.db")},
	}
}

func TestImportBookCommand(t *testing.T) {
	cfg := testConfig(t)
	file := filepath.Join(t.TempDir(), "garden.html")
	require.NoError(t, os.WriteFile(file, []byte(gardenHTML), 0644))

	cmd := NewImportBookCommand(cfg, logger.Nop())
	var out bytes.Buffer
	cmd.Out = &out
	require.NoError(t, cmd.ParseFlags([]string{"-file", file, "-id", "garden", "-author", "A. Writer"}))
	require.NoError(t, cmd.Run(context.Background()))

	assert.Contains(t, out.String(), `Imported "The Garden" (garden): 3 chapters`)

	db, err := database.NewDatabase(cfg.Database.Path)
	require.NoError(t, err)
	defer db.Close()
	book, err := books.NewRepository(db.DB).GetBook("garden")
	require.NoError(t, err)
	assert.Equal(t, "A. Writer", book.Author)
	require.Len(t, book.Chapters, 3)
	assert.Equal(t, "Spring", book.Chapters[1].Title)
}

func TestImportBookCommand_RequiresFile(t *testing.T) {
	cmd := NewImportBookCommand(testConfig(t), logger.Nop())
	assert.Error(t, cmd.ParseFlags(nil))
}

func TestExportAnnotationsCommand(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig(t)

	db, err := database.NewDatabase(cfg.Database.Path)
	require.NoError(t, err)
	defer db.Close()
	bookRepo := books.NewRepository(db.DB)
	readingRepo := reading.NewRepository(db.DB)

	require.NoError(t, bookRepo.SaveBook(&entities.ModernBook{
		ID:    "garden",
		Title: "The Garden",
		Chapters: []entities.Chapter{
			{Title: "Spring", Content: "<p>The rose garden was quiet.</p>"},
		},
	}))
	require.NoError(t, readingRepo.CreateHighlight(&entities.UserHighlight{
		UserID:       "1",
		BookID:       "garden",
		ChapterID:    "garden-ch1",
		SelectedText: "rose garden",
		Color:        entities.HighlightColorYellow,
	}))
	require.NoError(t, readingRepo.SaveBookmark(&entities.Bookmark{
		UserID: "1", BookID: "garden", ChapterID: "garden-ch1", Title: "Here",
	}))

	server := httptest.NewServer(httpapi.NewRouter(httpapi.RouterConfig{
		Books:         bookRepo,
		Reading:       readingRepo,
		Database:      db,
		DefaultUserID: "1",
		Logger:        logger.Nop(),
	}))
	defer server.Close()

	cfg.Reader.APIURL = server.URL
	outDir := filepath.Join(t.TempDir(), "vault")
	cmd := NewExportAnnotationsCommand(cfg, logger.Nop())
	var out bytes.Buffer
	cmd.Out = &out
	require.NoError(t, cmd.ParseFlags([]string{"-book", "garden", "-out", outDir}))
	require.NoError(t, cmd.Run(context.Background()))

	assert.Contains(t, out.String(), "1 highlights, 0 notes, 1 bookmarks")
	data, err := os.ReadFile(filepath.Join(outDir, "The Garden.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "> rose garden")
	assert.Contains(t, string(data), "- Here (Spring, 0%)")

	sessions, err := readingRepo.ListSessions("1", "garden")
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestExportAnnotationsCommand_UnknownBook(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig(t)
	db, err := database.NewDatabase(cfg.Database.Path)
	require.NoError(t, err)
	defer db.Close()

	server := httptest.NewServer(httpapi.NewRouter(httpapi.RouterConfig{
		Books:    books.NewRepository(db.DB),
		Reading:  reading.NewRepository(db.DB),
		Database: db,
		Logger:   logger.Nop(),
	}))
	defer server.Close()
	cfg.Reader.APIURL = server.URL

	cmd := NewExportAnnotationsCommand(cfg, logger.Nop())
	cmd.Out = &bytes.Buffer{}
	require.NoError(t, cmd.ParseFlags([]string{"-book", "missing", "-out", t.TempDir()}))
	assert.Error(t, cmd.Run(context.Background()))
}

func runSettings(t *testing.T, cfg *config.Config, args ...string) string {
	t.Helper()
	cmd := NewReaderSettingsCommand(cfg, logger.Nop())
	var out bytes.Buffer
	cmd.Out = &out
	require.NoError(t, cmd.ParseFlags(args))
	require.NoError(t, cmd.Run())
	return out.String()
}

func decodeSettings(t *testing.T, out string) entities.ReaderSettings {
	t.Helper()
	var rs entities.ReaderSettings
	require.NoError(t, json.NewDecoder(bytes.NewBufferString(out)).Decode(&rs))
	return rs
}

func TestReaderSettingsCommand(t *testing.T) {
	cfg := testConfig(t)

	out := runSettings(t, cfg, "show")
	assert.Contains(t, out, "source: default")

	out = runSettings(t, cfg, "set", `{"theme":"dark","fontSize":22}`)
	rs := decodeSettings(t, out)
	assert.Equal(t, entities.ThemeDark, rs.Theme)
	assert.Equal(t, 22, rs.FontSize)

	out = runSettings(t, cfg)
	assert.Contains(t, out, "source: stored")
	assert.Contains(t, out, `"theme": "dark"`)

	out = runSettings(t, cfg, "reset")
	assert.Equal(t, entities.DefaultReaderSettings(), decodeSettings(t, out))
}

func TestReaderSettingsCommand_ParseErrors(t *testing.T) {
	cfg := testConfig(t)

	assert.Error(t, NewReaderSettingsCommand(cfg, logger.Nop()).ParseFlags([]string{"set"}))
	assert.Error(t, NewReaderSettingsCommand(cfg, logger.Nop()).ParseFlags([]string{"explode"}))

	cmd := NewReaderSettingsCommand(cfg, logger.Nop())
	cmd.Out = &bytes.Buffer{}
	require.NoError(t, cmd.ParseFlags([]string{"set", "not json"}))
	assert.Error(t, cmd.Run())
}
