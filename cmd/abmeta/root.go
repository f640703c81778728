package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/abmeta/internal/config"
	logpkg "github.com/kailas-cloud/abmeta/internal/logger"
	"github.com/kailas-cloud/abmeta/internal/version"
)

// cli holds state shared by all subcommands, filled in by loadConfig.
type cli struct {
	env        string
	configFile string
	cfg        config.Config
	logger     *zap.Logger
}

// Execute runs the root command with signal handling.
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "abmeta",
		Short: "Fetch acoustic attributes from AcousticBrainz",
		Long: `abmeta fetches AcousticBrainz low-level and high-level data for
library items by MusicBrainz recording ID and stores a fixed set of
attributes (bpm, initial_key, moods, ...) on each item.`,
		PersistentPreRunE: c.loadConfig,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	root.PersistentFlags().StringVar(&c.env, "env", config.GetEnv(), "environment: local, dev, prod")
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default config/<env>.yaml)")

	root.AddCommand(
		newServeCmd(c),
		newFetchCmd(c),
		newMapCmd(c),
		newSchemeCmd(c),
		newVersionCmd(),
	)
	return root
}

// loadConfig is called before any command runs.
func (c *cli) loadConfig(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" || cmd.Name() == "help" {
		return nil
	}

	var err error
	if c.configFile != "" {
		c.cfg, err = config.LoadFile(c.configFile)
	} else {
		c.cfg, err = config.Load(c.env)
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	c.logger, err = logpkg.NewLogger(c.env, c.cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	cmd.SetContext(logpkg.ContextWithLogger(cmd.Context(), c.logger))
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(version.String())
		},
	}
}
