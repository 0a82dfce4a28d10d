// The tvremoted command runs the webOS remote-control gateway
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wrale/webos-remote/internal/tvremoted/config"
	"github.com/wrale/webos-remote/internal/tvremoted/server"
)

var (
	// These variables are set during build
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "tvremoted",
		Short: "webOS TV remote-control gateway",
		Long: `tvremoted exposes a REST API that translates simple requests into
commands for an LG webOS television on the local network.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to config file")
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tvremoted version %s\n", version)
			if verbose {
				fmt.Printf("  commit: %s\n", commit)
				fmt.Printf("  built:  %s\n", date)
			}
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "include build details")
	return cmd
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := server.NewLogger(cfg.Log, os.Stdout)
	if err != nil {
		return err
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to initialize server")
		return err
	}

	// Set up graceful shutdown on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}
