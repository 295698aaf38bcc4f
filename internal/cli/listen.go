package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nadzzz/voxlist/internal/config"
	"github.com/nadzzz/voxlist/internal/turn"
)

func newListenCommand(opts *options) *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Run the interactive command loop on the console",
		Long: `Reads one utterance per line from stdin, runs it through the parser and the
dispatcher, and prints the outcome. An empty line counts as an utterance with
no speech. Press Ctrl+C to exit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Keep logs off the conversation.
			logCfg := opts.cfg.Logging
			logCfg.Output = "stderr"
			config.SetupLogging(logCfg)

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			svc, err := newPlaylistService(ctx, opts.cfg.Spotify, nil)
			if err != nil {
				return err
			}
			proc := newProcessor(opts.cfg, svc, nil, nil)

			return runLoop(ctx, cmd, source, proc)
		},
	}

	cmd.Flags().StringVar(&source, "source", "console", "sender name recorded on each utterance")
	return cmd
}

func runLoop(ctx context.Context, cmd *cobra.Command, source string, proc *turn.Processor) error {
	src := turn.NewLineSource(cmd.InOrStdin(), source)
	defer src.Close()
	return turn.NewLoop(src, proc, cmd.OutOrStdout()).Run(ctx)
}
