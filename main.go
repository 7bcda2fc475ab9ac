package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"github.com/readnwin/reader/internal/cli"
	"github.com/readnwin/reader/internal/config"
	"github.com/readnwin/reader/internal/entrypoint"
	"github.com/readnwin/reader/internal/logger"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	cfg := config.NewConfig()
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty).With(logger.String("commit", Commit))

	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		entrypoint.Run(cfg, Version, log)
		return
	}

	command := os.Args[1]
	args := os.Args[2:]

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch command {
	case "import-book":
		cmd := cli.NewImportBookCommand(cfg, log)
		if err = cmd.ParseFlags(args); err == nil {
			err = cmd.Run(ctx)
		}

	case "export-annotations":
		cmd := cli.NewExportAnnotationsCommand(cfg, log)
		if err = cmd.ParseFlags(args); err == nil {
			err = cmd.Run(ctx)
		}

	case "reader-settings":
		cmd := cli.NewReaderSettingsCommand(cfg, log)
		if err = cmd.ParseFlags(args); err == nil {
			err = cmd.Run()
		}

	case "-h", "--help", "help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve               Start the reading API server (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  import-book         Split an HTML book into chapters and store it\n")
	fmt.Fprintf(os.Stderr, "  export-annotations  Export a book's highlights, notes and bookmarks as markdown\n")
	fmt.Fprintf(os.Stderr, "  reader-settings     Show or change local reader display settings\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
