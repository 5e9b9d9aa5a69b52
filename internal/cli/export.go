package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/placebook/internal/config"
	"github.com/mrlokans/placebook/internal/exporters"
)

// ExportCommand writes all bookmarks to a JSON or YAML file.
type ExportCommand struct {
	storageFlags
	Format     string
	OutputPath string

	cfg    *config.Config
	format exporters.Format
	Out    io.Writer
}

func NewExportCommand(cfg *config.Config) *ExportCommand {
	return &ExportCommand{cfg: cfg}
}

func (cmd *ExportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	cmd.storageFlags.register(fs, cmd.cfg)
	fs.StringVar(&cmd.Format, "format", "json", "Output format: json or yaml")
	fs.StringVar(&cmd.OutputPath, "out", "", "Output file (default: standard output)")
	fs.Usage = usage(fs, "export [-format json|yaml] [-out <file>]", "Export every bookmark to a portable document.")

	if err := fs.Parse(args); err != nil {
		return err
	}

	format, err := exporters.ParseFormat(cmd.Format)
	if err != nil {
		return err
	}
	cmd.format = format
	return nil
}

func (cmd *ExportCommand) Run(ctx context.Context) error {
	core, _, err := cmd.open(cmd.cfg)
	if err != nil {
		return err
	}
	defer core.Close()

	w := outOrStdout(cmd.Out)
	if cmd.OutputPath != "" {
		f, err := os.Create(cmd.OutputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	exporter := exporters.NewExporter(core.Bookmarks)
	exporter.SetAuditor(core.Audit)

	result, err := exporter.Export(ctx, w, cmd.format)
	if err != nil {
		return err
	}

	if cmd.OutputPath != "" {
		fmt.Fprintf(outOrStdout(cmd.Out), "Exported %d bookmarks to %s\n", result.BookmarksExported, cmd.OutputPath)
	}
	return nil
}
