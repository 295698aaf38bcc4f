// Package cli wires configuration, the playlist service and the transports
// into the voxlist commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nadzzz/voxlist/internal/config"
)

// Version is set at build time via ldflags.
var Version = "dev"

// options carries state shared by the subcommands.
type options struct {
	configFile string
	v          *viper.Viper
	cfg        *config.Config
}

// NewRootCommand builds the voxlist command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:          "voxlist",
		Short:        "Manage streaming playlists with spoken commands",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "path to config file (e.g. configs/voxlist.yaml)")
	cmd.PersistentFlags().String("log-level", "", "override logging.level (debug, info, warn, error)")

	cmd.AddCommand(
		newListenCommand(opts),
		newServeCommand(opts),
		newParseCommand(),
		newVersionCommand(),
	)
	return cmd
}

// load reads the configuration and installs the logger.
func (o *options) load(cmd *cobra.Command) error {
	o.v = config.NewViper(o.configFile)
	if f := cmd.Flags().Lookup("log-level"); f != nil {
		if err := o.v.BindPFlag("logging.level", f); err != nil {
			return fmt.Errorf("binding --log-level: %w", err)
		}
	}

	cfg, err := config.Read(o.v)
	if err != nil {
		return err
	}
	o.cfg = cfg
	config.SetupLogging(cfg.Logging)
	return nil
}
