package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	dbfs "github.com/garnizeh/jobdesk/db"
	"github.com/garnizeh/jobdesk/internal/repository/sqlite"
	"github.com/garnizeh/jobdesk/internal/seed"
)

func newSeedCommand(opts *options) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Args:  cobra.NoArgs,
		Short: "Load demo fixtures into a freshly migrated database",
		Long: `Load businesses, users, jobs, contacts and notes from a JSON fixture file.
The file is validated against the embedded fixture schema first. Without
--file the embedded demo fixtures are used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var (
				fixtures *seed.Fixtures
				err      error
			)
			if file == "" {
				fixtures, err = seed.ReadFS(ctx, dbfs.SeedFiles, nil, "")
			} else {
				abs, aerr := filepath.Abs(file)
				if aerr != nil {
					return aerr
				}
				fixtures, err = seed.ReadFS(ctx, dbfs.SeedFiles, os.DirFS(filepath.Dir(abs)), filepath.Base(abs))
			}
			if err != nil {
				return err
			}

			conn, logger, err := opts.open(ctx)
			if err != nil {
				return err
			}
			defer conn.Close()

			sum, err := seed.NewLoader(sqlite.New(conn, logger), logger).Load(ctx, fixtures)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d businesses, %d users, %d jobs, %d contacts, %d notes.\n",
				sum.Businesses, sum.Users, sum.Jobs, sum.Contacts, sum.Notes)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Fixture JSON file (defaults to the embedded demo data)")

	return cmd
}
