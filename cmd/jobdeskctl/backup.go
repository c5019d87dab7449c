package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/garnizeh/jobdesk/internal/db"
)

func newBackupCommand(opts *options) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "backup",
		Args:  cobra.NoArgs,
		Short: "Write a consistent copy of the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			if out == "" {
				out = fmt.Sprintf("%s.%s.bak", cfg.DatabasePath, time.Now().UTC().Format("20060102T150405"))
			}

			conn, err := db.New(cmd.Context(), cfg.DatabasePath, logger)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := conn.Backup(cmd.Context(), out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Database backup written to %s.\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Backup file (defaults to <database>.<timestamp>.bak)")

	return cmd
}

func newRestoreCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <backup-file>",
		Args:  cobra.ExactArgs(1),
		Short: "Replace the database with a backup; the server must be stopped",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.load()
			if err != nil {
				return err
			}
			if err := db.Restore(args[0], cfg.DatabasePath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Database restored from %s.\n", args[0])
			return nil
		},
	}
}
