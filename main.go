package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mrlokans/placebook/internal/cli"
	"github.com/mrlokans/placebook/internal/config"
	"github.com/mrlokans/placebook/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

// command is implemented by every CLI subcommand that works on the database.
type command interface {
	ParseFlags(args []string) error
	Run(ctx context.Context) error
}

func main() {
	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "place-import":
		run(cli.NewPlaceImportCommand(config.NewConfig()), args)

	case "export":
		run(cli.NewExportCommand(config.NewConfig()), args)

	case "import":
		run(cli.NewImportCommand(config.NewConfig()), args)

	case "prune-photos":
		run(cli.NewPrunePhotosCommand(config.NewConfig()), args)

	case "create-user":
		run(cli.NewCreateUserCommand(config.NewConfig()), args)

	case "set-api-key":
		cmd := cli.NewSetAPIKeyCommand()
		exitOnError(cmd.ParseFlags(args))
		exitOnError(cmd.Run())

	case "version":
		fmt.Printf("placebook %s (%s)\n", Version, Commit)

	case "-h", "--help", "help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func run(cmd command, args []string) {
	exitOnError(cmd.ParseFlags(args))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx); err != nil {
		stop()
		exitOnError(err)
	}
}

func exitOnError(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve          Start the HTTP server (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  place-import   Bookmark places by place id\n")
	fmt.Fprintf(os.Stderr, "  export         Export bookmarks as JSON or YAML\n")
	fmt.Fprintf(os.Stderr, "  import         Import bookmarks from a JSON or YAML export\n")
	fmt.Fprintf(os.Stderr, "  prune-photos   Delete photos left behind by removed bookmarks\n")
	fmt.Fprintf(os.Stderr, "  create-user    Create a user for local authentication\n")
	fmt.Fprintf(os.Stderr, "  set-api-key    Store the places API key in the OS keyring\n")
	fmt.Fprintf(os.Stderr, "  version        Print the version\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
