package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/readnwin/reader/internal/cache"
	"github.com/readnwin/reader/internal/config"
	"github.com/readnwin/reader/internal/content"
	"github.com/readnwin/reader/internal/database"
	"github.com/readnwin/reader/internal/database/books"
	"github.com/readnwin/reader/internal/entities"
	"github.com/readnwin/reader/internal/logger"
)

// ImportBookCommand splits an HTML book into chapters and stores it for the
// reading API.
type ImportBookCommand struct {
	File         string
	BookID       string
	Title        string
	Author       string
	Language     string
	DatabasePath string
	Redis        config.Redis

	Out io.Writer
	Log logger.Logger
}

func NewImportBookCommand(cfg *config.Config, log logger.Logger) *ImportBookCommand {
	return &ImportBookCommand{
		DatabasePath: cfg.Database.Path,
		Redis:        cfg.Redis,
		Out:          os.Stdout,
		Log:          log,
	}
}

func (cmd *ImportBookCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import-book", flag.ContinueOnError)

	fs.StringVar(&cmd.File, "file", "", "HTML file to import (required)")
	fs.StringVar(&cmd.BookID, "id", "", "Book id (defaults to a generated id)")
	fs.StringVar(&cmd.Title, "title", "", "Book title (defaults to the document title)")
	fs.StringVar(&cmd.Author, "author", "", "Book author")
	fs.StringVar(&cmd.Language, "lang", "", "Language code, e.g. en")
	fs.StringVar(&cmd.DatabasePath, "db", cmd.DatabasePath, "Path to the reading database")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import-book [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Split an HTML book into chapters at its top-level headings and store it.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s import-book -file ./garden.html -id garden -author \"A. Writer\"\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.File == "" {
		fs.Usage()
		return fmt.Errorf("file is required")
	}
	return nil
}

func (cmd *ImportBookCommand) Run(ctx context.Context) error {
	f, err := os.Open(cmd.File)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", cmd.File, err)
	}
	defer f.Close()

	parsed, err := content.SplitChapters(f)
	if err != nil {
		return err
	}

	book := &entities.ModernBook{
		ID:       cmd.BookID,
		Title:    firstNonEmpty(cmd.Title, parsed.Title, strings.TrimSuffix(filepath.Base(cmd.File), filepath.Ext(cmd.File))),
		Author:   cmd.Author,
		Format:   entities.BookFormatHTML,
		Language: cmd.Language,
		Chapters: parsed.Chapters,
	}

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			cmd.Log.Warn("failed to close database", logger.Error(err))
		}
	}()

	if err := books.NewRepository(db.DB).SaveBook(book); err != nil {
		return err
	}
	cmd.invalidateCache(ctx, book.ID)

	fmt.Fprintf(cmd.Out, "Imported %q (%s): %d chapters, %d words\n",
		book.Title, book.ID, len(book.Chapters), book.TotalWordCount())
	return nil
}

// invalidateCache drops a cached copy of a re-imported book. Failures only
// mean readers see the old content until the cache entry expires.
func (cmd *ImportBookCommand) invalidateCache(ctx context.Context, bookID string) {
	if cmd.Redis.Addr == "" {
		return
	}
	opts := cache.DefaultConnectOptions(cmd.Redis.Addr, cmd.Redis.Password, cmd.Redis.DB)
	opts.ConnectTimeout = 5 * time.Second
	client, err := cache.Connect(opts, cmd.Log)
	if err != nil {
		cmd.Log.Warn("content cache unavailable, skipping invalidation", logger.Error(err))
		return
	}
	defer client.Close()

	if err := cache.NewRedisContentCache(client, 0).InvalidateBook(ctx, bookID); err != nil {
		cmd.Log.Warn("failed to invalidate cached book", logger.String("book_id", bookID), logger.Error(err))
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
