package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "migrate",
		Args:    cobra.NoArgs,
		Aliases: []string{"m"},
		Short:   "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, _, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer conn.Close()

			fmt.Fprintln(cmd.OutOrStdout(), "Database migrated successfully.")
			return nil
		},
	}
}
