package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/placebook/internal/config"
	"github.com/mrlokans/placebook/internal/entrypoint"
	"github.com/mrlokans/placebook/internal/logger"
)

// storageFlags are the flags every command that opens the database shares.
type storageFlags struct {
	DatabasePath string
	PhotosDir    string
	Verbose      bool
}

func (s *storageFlags) register(fs *flag.FlagSet, cfg *config.Config) {
	fs.StringVar(&s.DatabasePath, "db", cfg.Database.Path, "Path to the bookmark database")
	fs.StringVar(&s.PhotosDir, "photos", cfg.Photos.Dir, "Directory holding bookmark photos")
	fs.BoolVar(&s.Verbose, "verbose", false, "Enable verbose logging")
}

// open applies the flags to cfg and opens the storage stack.
func (s *storageFlags) open(cfg *config.Config) (*entrypoint.Core, logger.Logger, error) {
	cfg.Database.Path = s.DatabasePath
	cfg.Photos.Dir = s.PhotosDir

	logCfg := cfg.Log
	logCfg.Pretty = true
	if s.Verbose {
		logCfg.Level = "debug"
	} else {
		logCfg.Level = "warn"
	}
	log := entrypoint.NewLogger(logCfg)

	core, err := entrypoint.OpenCore(cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return core, log, nil
}

func outOrStdout(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}

func usage(fs *flag.FlagSet, synopsis, description string) func() {
	return func() {
		fmt.Fprintf(os.Stderr, "Usage: %s %s\n\n", os.Args[0], synopsis)
		fmt.Fprintf(os.Stderr, "%s\n\n", description)
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}
}
