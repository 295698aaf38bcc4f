package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nadzzz/voxlist/internal/command"
	"github.com/nadzzz/voxlist/internal/transcribe"
)

var errNotRecognized = errors.New("command not recognized")

func newParseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <utterance>...",
		Short: "Parse an utterance and print the structured command",
		Example: `  voxlist parse "add bohemian rhapsody by queen to my favorites playlist"
  voxlist parse delete my workout playlist`,
		Args: cobra.MinimumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Parsing is pure; no configuration needed.
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			text := transcribe.Normalize(strings.Join(args, " "))

			parsed, ok := command.Parse(text)
			if !ok {
				return fmt.Errorf("%w: %q", errNotRecognized, text)
			}
			out, err := json.MarshalIndent(parsed, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
}
