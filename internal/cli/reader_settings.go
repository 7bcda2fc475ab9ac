package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/readnwin/reader/internal/config"
	"github.com/readnwin/reader/internal/database"
	"github.com/readnwin/reader/internal/database/settings"
	"github.com/readnwin/reader/internal/entities"
	"github.com/readnwin/reader/internal/logger"
	"github.com/readnwin/reader/internal/reader"
	"github.com/readnwin/reader/internal/settingsstore"
)

const (
	settingsShow  = "show"
	settingsSet   = "set"
	settingsReset = "reset"
)

// ReaderSettingsCommand shows and edits the locally persisted reader display
// settings.
type ReaderSettingsCommand struct {
	Action string
	Path   string
	Update string // JSON object with the fields to change

	Out io.Writer
	Log logger.Logger
}

func NewReaderSettingsCommand(cfg *config.Config, log logger.Logger) *ReaderSettingsCommand {
	return &ReaderSettingsCommand{
		Path: cfg.Reader.SettingsPath,
		Out:  os.Stdout,
		Log:  log,
	}
}

func (cmd *ReaderSettingsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("reader-settings", flag.ContinueOnError)
	fs.StringVar(&cmd.Path, "path", cmd.Path, "Path to the local settings database")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s reader-settings [options] show|set|reset [json]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Show or change reader display settings.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s reader-settings show\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s reader-settings set '{\"theme\":\"dark\",\"fontSize\":20}'\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s reader-settings reset\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		cmd.Action = settingsShow
		return nil
	}
	cmd.Action = rest[0]
	switch cmd.Action {
	case settingsShow, settingsReset:
		return nil
	case settingsSet:
		if len(rest) < 2 {
			fs.Usage()
			return fmt.Errorf("set requires a JSON object")
		}
		cmd.Update = rest[1]
		return nil
	default:
		fs.Usage()
		return fmt.Errorf("unknown action %q", cmd.Action)
	}
}

func (cmd *ReaderSettingsCommand) Run() error {
	db, err := database.NewSettingsDatabase(cmd.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			cmd.Log.Warn("failed to close settings database", logger.Error(err))
		}
	}()
	persister := settingsstore.New(settings.NewRepository(db.DB))

	// The store only needs the API for books; settings work offline.
	store := reader.New(nil, reader.WithSettingsPersister(persister), reader.WithLogger(cmd.Log))

	var current entities.ReaderSettings
	switch cmd.Action {
	case settingsSet:
		var update entities.SettingsUpdate
		if err := json.Unmarshal([]byte(cmd.Update), &update); err != nil {
			return fmt.Errorf("invalid settings update: %w", err)
		}
		if current, err = store.UpdateSettings(update); err != nil {
			return err
		}
	case settingsReset:
		if current, err = store.ResetSettings(); err != nil {
			return err
		}
	default:
		info, err := persister.GetReaderSettingsInfo()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.Out, "source: %s\n", info.Source)
		current = store.Settings()
	}

	enc := json.NewEncoder(cmd.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(current)
}
