package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/noon-labs/namecycler/config"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "namecycler",
		Short: "Cycle a Telegram business account's display name",
		Long: `namecycler keeps renaming a connected Telegram business account through
a pool of look-alike variants of a base name, slowing down whenever the
Bot API reports rate limiting.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRoot(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a TOML config file")
	return cmd
}

func runRoot(parent context.Context, configPath string) error {
	if parent == nil {
		parent = context.Background()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "namecycler: %v\n", err)
		return err
	}

	logger, err := newLogger(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "namecycler: failed to build logger: %v\n", err)
		return err
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("Startup failed", "error", err)
		_ = logger.Sync()
		return err
	}

	if err := a.run(ctx); err != nil {
		logger.Error("Exited with error", "error", err)
		return err
	}
	return nil
}
