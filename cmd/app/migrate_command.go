package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/andreyxaxa/Fitness-Center/migrations"
	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database schema migrations",
	}

	migrateCmd.AddCommand(newMigrateUpCommand())
	migrateCmd.AddCommand(newMigrateDownCommand())

	return migrateCmd
}

func newMigrateUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := databaseURL()
			if err != nil {
				return err
			}

			version, noChange, err := migrations.Up(url)
			if err != nil {
				return err
			}

			if noChange {
				fmt.Fprintf(cmd.OutOrStdout(), "schema is up to date (version %d)\n", version)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrated to version %d\n", version)

			return nil
		},
	}
}

func newMigrateDownCommand() *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps < 1 {
				return errors.New("--steps must be at least 1")
			}

			url, err := databaseURL()
			if err != nil {
				return err
			}

			if err := migrations.Down(url, steps); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d migration(s)\n", steps)

			return nil
		},
	}

	cmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	return cmd
}

// databaseURL reads PG_URL only, the rest of the config is not needed here.
func databaseURL() (string, error) {
	url := os.Getenv("PG_URL")
	if url == "" {
		return "", errors.New("PG_URL is not set")
	}

	return url, nil
}
