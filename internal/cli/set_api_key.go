package cli

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mrlokans/placebook/internal/config"
)

// SetAPIKeyCommand stores the places API key in the OS keyring so it does
// not have to live in the environment.
type SetAPIKeyCommand struct {
	Key string

	In    io.Reader
	Out   io.Writer
	store func(string) error
}

func NewSetAPIKeyCommand() *SetAPIKeyCommand {
	return &SetAPIKeyCommand{store: config.StorePlacesAPIKey}
}

func (cmd *SetAPIKeyCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("set-api-key", flag.ContinueOnError)
	fs.StringVar(&cmd.Key, "key", "", "API key (default: read one line from standard input)")
	fs.Usage = usage(fs, "set-api-key [-key <key>]", "Store the places API key in the OS keyring.")
	return fs.Parse(args)
}

func (cmd *SetAPIKeyCommand) Run() error {
	key := cmd.Key
	if key == "" {
		in := cmd.In
		if in == nil {
			in = os.Stdin
		}
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("failed to read key: %w", err)
		}
		key = line
	}

	if err := cmd.store(strings.TrimSpace(key)); err != nil {
		return fmt.Errorf("failed to store key: %w", err)
	}
	fmt.Fprintln(outOrStdout(cmd.Out), "Places API key stored in the OS keyring")
	return nil
}
