package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/mrlokans/placebook/internal/config"
	"github.com/mrlokans/placebook/internal/entrypoint"
	"github.com/mrlokans/placebook/internal/logger"
)

// PlaceImportCommand bookmarks places by their place id.
type PlaceImportCommand struct {
	storageFlags
	PlaceIDs  []string
	SkipPhoto bool

	cfg *config.Config
	Out io.Writer
}

func NewPlaceImportCommand(cfg *config.Config) *PlaceImportCommand {
	return &PlaceImportCommand{cfg: cfg}
}

func (cmd *PlaceImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("place-import", flag.ContinueOnError)
	cmd.storageFlags.register(fs, cmd.cfg)

	var ids string
	fs.StringVar(&ids, "place", "", "Place id to bookmark; separate several ids with commas (required)")
	fs.BoolVar(&cmd.SkipPhoto, "no-photo", false, "Do not download the place photo")
	fs.Usage = usage(fs, "place-import -place <id>[,<id>...] [options]",
		"Look places up in the places service and save them as bookmarks.\nRequires PLACES_API_KEY or a key stored with set-api-key.")

	if err := fs.Parse(args); err != nil {
		return err
	}

	for _, id := range strings.Split(ids, ",") {
		if id = strings.TrimSpace(id); id != "" {
			cmd.PlaceIDs = append(cmd.PlaceIDs, id)
		}
	}
	if len(cmd.PlaceIDs) == 0 {
		return fmt.Errorf("required flag -place not provided")
	}
	return nil
}

func (cmd *PlaceImportCommand) Run(ctx context.Context) error {
	out := outOrStdout(cmd.Out)

	core, log, err := cmd.open(cmd.cfg)
	if err != nil {
		return err
	}
	defer core.Close()

	client := entrypoint.NewPlacesClient(ctx, cmd.cfg, log)
	if !client.Configured() {
		return fmt.Errorf("places API key is not set")
	}

	var failed []error
	for _, id := range cmd.PlaceIDs {
		place, err := client.Details(ctx, id)
		if err != nil {
			failed = append(failed, fmt.Errorf("%s: %w", id, err))
			continue
		}

		b, err := core.Bookmarks.AddFromPlace(ctx, place, nil)
		if err != nil {
			failed = append(failed, fmt.Errorf("%s: %w", id, err))
			continue
		}
		fmt.Fprintf(out, "Bookmarked %q as %s (id %d)\n", b.Name, b.Category, b.ID)

		if photo, ok := place.FirstPhoto(); ok && !cmd.SkipPhoto {
			url := client.PhotoURL(photo.Reference, cmd.cfg.Places.PhotoMaxWidth, cmd.cfg.Places.PhotoMaxHeight)
			if err := core.Bookmarks.FetchPhoto(ctx, b.ID, url); err != nil {
				log.Warn("failed to download place photo", logger.Uint("bookmark_id", b.ID), logger.Error(err))
				fmt.Fprintf(out, "  photo download failed: %v\n", err)
			}
		}
	}

	return errors.Join(failed...)
}
