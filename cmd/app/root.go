package main

import (
	"fmt"
	"os"

	"github.com/andreyxaxa/Fitness-Center/config"
	"github.com/andreyxaxa/Fitness-Center/internal/app"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "fitness-center",
		Short:         "Fitness Center body transformation service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadDotEnv()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	root.AddCommand(newServeCommand())
	root.AddCommand(newMigrateCommand())
	root.AddCommand(newTokenCommand())

	return root
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and background workers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	cfg, err := config.New()
	if err != nil {
		return err
	}

	app.Run(cfg)

	return nil
}

// loadDotEnv reads .env from the working directory when it exists.
func loadDotEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}

	if err := godotenv.Load(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	return nil
}
