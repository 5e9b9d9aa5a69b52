package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrlokans/placebook/internal/config"
	"github.com/mrlokans/placebook/internal/exporters"
	"github.com/mrlokans/placebook/internal/importers"
)

// ImportCommand loads bookmarks from a document written by export.
type ImportCommand struct {
	storageFlags
	FilePath string
	Format   string
	DryRun   bool

	cfg    *config.Config
	format exporters.Format
	Out    io.Writer
}

func NewImportCommand(cfg *config.Config) *ImportCommand {
	return &ImportCommand{cfg: cfg}
}

func (cmd *ImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	cmd.storageFlags.register(fs, cmd.cfg)
	fs.StringVar(&cmd.FilePath, "file", "", "Document to import (required)")
	fs.StringVar(&cmd.Format, "format", "", "Input format: json or yaml (default: from file extension)")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Validate the document without importing it")
	fs.Usage = usage(fs, "import -file <path> [options]",
		"Import bookmarks from a JSON or YAML export. Bookmarks whose place id\nalready exists are skipped.")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.FilePath == "" {
		return fmt.Errorf("required flag -file not provided")
	}

	name := cmd.Format
	if name == "" {
		name = strings.TrimPrefix(filepath.Ext(cmd.FilePath), ".")
	}
	format, err := exporters.ParseFormat(name)
	if err != nil {
		return err
	}
	cmd.format = format
	return nil
}

func (cmd *ImportCommand) Run(ctx context.Context) error {
	out := outOrStdout(cmd.Out)

	data, err := os.ReadFile(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", cmd.FilePath, err)
	}

	if cmd.DryRun {
		doc := data
		if cmd.format == exporters.FormatYAML {
			if doc, err = importers.YAMLToJSON(data); err != nil {
				return err
			}
		}
		if err := importers.Validate(doc); err != nil {
			return err
		}
		fmt.Fprintf(out, "DRY RUN: %s is a valid bookmark document\n", cmd.FilePath)
		return nil
	}

	core, log, err := cmd.open(cmd.cfg)
	if err != nil {
		return err
	}
	defer core.Close()

	pipeline := importers.NewPipeline(core.Bookmarks, log)
	pipeline.SetAuditor(core.Audit)

	var result importers.ImportResult
	if cmd.format == exporters.FormatYAML {
		result, err = pipeline.ImportYAML(ctx, data)
	} else {
		result, err = pipeline.ImportJSON(ctx, data)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Imported %d bookmarks (%d skipped, %d failed)\n", result.Imported, result.Skipped, result.Failed)
	for _, msg := range result.Errors {
		fmt.Fprintf(out, "  %s\n", msg)
	}
	return nil
}
