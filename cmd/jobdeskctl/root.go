package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	dbfs "github.com/garnizeh/jobdesk/db"
	"github.com/garnizeh/jobdesk/internal/config"
	"github.com/garnizeh/jobdesk/internal/db"
	"github.com/garnizeh/jobdesk/internal/logging"
)

type options struct {
	configPath string
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "jobdeskctl",
		Short:         "Maintenance commands for the jobdesk database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config YAML file")

	// Add subcommands
	rootCmd.AddCommand(
		newMigrateCommand(opts),
		newSeedCommand(opts),
		newBackupCommand(opts),
		newRestoreCommand(opts),
	)

	return rootCmd
}

func (o *options) load() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logging.New(os.Stderr, cfg.Env, cfg.LogLevel), nil
}

// open loads the configuration and opens the database with every migration
// applied.
func (o *options) open(ctx context.Context) (*db.DB, *slog.Logger, error) {
	cfg, logger, err := o.load()
	if err != nil {
		return nil, nil, err
	}
	conn, err := db.New(ctx, cfg.DatabasePath, logger)
	if err != nil {
		return nil, nil, err
	}
	if _, err := db.Migrate(ctx, conn, dbfs.Migrations); err != nil {
		conn.Close()
		return nil, nil, err
	}
	return conn, logger, nil
}
