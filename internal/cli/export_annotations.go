package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/readnwin/reader/internal/config"
	"github.com/readnwin/reader/internal/exporters"
	"github.com/readnwin/reader/internal/logger"
	"github.com/readnwin/reader/internal/reader"
	"github.com/readnwin/reader/internal/readerapi"
)

// ExportAnnotationsCommand loads a book through the reading API and writes
// the user's highlights, notes and bookmarks to a markdown file.
type ExportAnnotationsCommand struct {
	BookID    string
	UserID    string
	APIURL    string
	OutputDir string
	Timeout   time.Duration

	Out io.Writer
	Log logger.Logger
}

func NewExportAnnotationsCommand(cfg *config.Config, log logger.Logger) *ExportAnnotationsCommand {
	return &ExportAnnotationsCommand{
		UserID:    cfg.Global.DefaultUserID,
		APIURL:    cfg.Reader.APIURL,
		OutputDir: ".",
		Timeout:   30 * time.Second,
		Out:       os.Stdout,
		Log:       log,
	}
}

func (cmd *ExportAnnotationsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("export-annotations", flag.ContinueOnError)

	fs.StringVar(&cmd.BookID, "book", "", "Book id to export (required)")
	fs.StringVar(&cmd.UserID, "user", cmd.UserID, "User whose annotations are exported")
	fs.StringVar(&cmd.APIURL, "api", cmd.APIURL, "Base URL of the reading API")
	fs.StringVar(&cmd.OutputDir, "out", cmd.OutputDir, "Directory for the markdown file")
	fs.DurationVar(&cmd.Timeout, "timeout", cmd.Timeout, "Timeout for loading the book")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s export-annotations [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Export highlights, notes and bookmarks of a book as markdown.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s export-annotations -book garden -out ./vault/Books\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.BookID == "" {
		fs.Usage()
		return fmt.Errorf("book is required")
	}
	return nil
}

func (cmd *ExportAnnotationsCommand) Run(ctx context.Context) error {
	client, err := readerapi.NewClient(cmd.APIURL)
	if err != nil {
		return err
	}

	store := reader.New(client, reader.WithLogger(cmd.Log), reader.WithoutSessions())
	defer store.Wait()

	loadCtx, cancel := context.WithTimeout(ctx, cmd.Timeout)
	defer cancel()
	if err := store.LoadBook(loadCtx, cmd.BookID, cmd.UserID); err != nil {
		return fmt.Errorf("failed to load book %s: %w", cmd.BookID, err)
	}
	st := store.State()
	store.UnloadBook()

	path, result, err := exporters.NewMarkdownExporter(cmd.OutputDir).Export(exporters.BookAnnotations{
		Book:       st.Book,
		Progress:   st.Progress,
		Highlights: st.Highlights,
		Notes:      st.Notes,
		Bookmarks:  st.Bookmarks,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.Out, "Exported %q to %s: %d highlights, %d notes, %d bookmarks\n",
		st.Book.Title, path, result.HighlightsProcessed, result.NotesProcessed, result.BookmarksProcessed)
	return nil
}
