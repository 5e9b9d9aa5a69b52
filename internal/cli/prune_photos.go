package cli

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/mrlokans/placebook/internal/config"
)

// PrunePhotosCommand deletes photo files whose bookmark no longer exists.
type PrunePhotosCommand struct {
	storageFlags

	cfg *config.Config
	Out io.Writer
}

func NewPrunePhotosCommand(cfg *config.Config) *PrunePhotosCommand {
	return &PrunePhotosCommand{cfg: cfg}
}

func (cmd *PrunePhotosCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("prune-photos", flag.ContinueOnError)
	cmd.storageFlags.register(fs, cmd.cfg)
	fs.Usage = usage(fs, "prune-photos [options]", "Delete photo files left behind by removed bookmarks.")
	return fs.Parse(args)
}

func (cmd *PrunePhotosCommand) Run(ctx context.Context) error {
	core, _, err := cmd.open(cmd.cfg)
	if err != nil {
		return err
	}
	defer core.Close()

	removed, err := core.Bookmarks.PruneOrphanPhotos(ctx)
	fmt.Fprintf(outOrStdout(cmd.Out), "Removed %d orphan photos\n", removed)
	return err
}
