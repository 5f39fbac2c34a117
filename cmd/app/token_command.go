package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/andreyxaxa/Fitness-Center/internal/infrastructure/identity"
	"github.com/spf13/cobra"
)

func newTokenCommand() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token <owner-id>",
		Short: "Issue a member token for local testing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := os.Getenv("AUTH_JWT_SECRET")
			if secret == "" {
				return errors.New("AUTH_JWT_SECRET is not set")
			}

			issuer := os.Getenv("AUTH_JWT_ISSUER")
			if issuer == "" {
				issuer = "fitness-center"
			}

			token, err := identity.NewJWTResolver(secret, issuer).Issue(strings.TrimSpace(args[0]), ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)

			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")

	return cmd
}
