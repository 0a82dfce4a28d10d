// Package cmd implements the webOS remote CLI commands
package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wrale/webos-remote/internal/tvremotectl/client"
	"github.com/wrale/webos-remote/internal/tvremotectl/config"
	"github.com/wrale/webos-remote/internal/tvremotectl/util"
)

// options holds the global flags and the loaded configuration
type options struct {
	cfgFile string
	server  string
	output  string
	timeout time.Duration

	cfg *config.Config
}

// NewRootCmd creates the tvremotectl command tree
func NewRootCmd() *cobra.Command {
	o := &options{}

	cmd := &cobra.Command{
		Use:   "tvremotectl",
		Short: "webOS TV remote control tool",
		Long: `tvremotectl is a command line client for the tvremoted gateway. It
controls volume, channels, power, inputs and applications of an LG webOS
television, and schedules the shutdown announcement sequences.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.load(cmd)
		},
	}

	// Global flags
	flags := cmd.PersistentFlags()
	flags.StringVar(&o.cfgFile, "config", "", "config file (default is $HOME/.tvremotectl.yaml)")
	flags.StringVar(&o.server, "server", "", "gateway address")
	flags.StringVarP(&o.output, "output", "o", "", "output format: text or json")
	flags.DurationVar(&o.timeout, "timeout", 0, "request timeout")

	// Add commands
	cmd.AddCommand(
		newStatusCmd(o),
		newConnectCmd(o),
		newVolumeCmd(o),
		newChannelCmd(o),
		newPowerCmd(o),
		newNavigateCmd(o),
		newAppCmd(o),
		newInputCmd(o),
		newMessageCmd(o),
		newMessageMuteCmd(o),
		newComboCmd(o),
		newShutdownCmd(o),
		newCancelShutdownCmd(o),
		newAppsCmd(o),
		newInputsCmd(o),
		newSystemCmd(o),
		newVersionCmd(),
	)

	return cmd
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// load reads the config file and lets command line flags override it
func (o *options) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.cfgFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("server") {
		cfg.Server = o.server
	}
	if flags.Changed("output") {
		cfg.Output = o.output
	}
	if flags.Changed("timeout") {
		cfg.Timeout = o.timeout
	}

	switch cfg.Output {
	case "text", "json":
	default:
		return fmt.Errorf("invalid output format %q - use text or json", cfg.Output)
	}

	o.cfg = cfg
	return nil
}

// client creates an API client for the configured gateway
func (o *options) client() (*client.Client, error) {
	c, err := client.NewClient(o.cfg.Server, client.WithTimeout(o.cfg.Timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}
	return c, nil
}

// print writes v as JSON when requested, otherwise through text
func (o *options) print(cmd *cobra.Command, v interface{}, text func(w io.Writer) error) error {
	if o.cfg.Output == "json" || text == nil {
		return util.PrintJSON(cmd.OutOrStdout(), v)
	}
	return text(cmd.OutOrStdout())
}
