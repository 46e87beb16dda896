package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"companion-app/frontend/pkg/jwt"

	"github.com/spf13/cobra"
)

// tokenCmd mints a session token signed with the configured secret, for
// local development without the hosted identity provider.
func tokenCmd() *cobra.Command {
	var (
		plan        string
		features    []string
		permissions []string
		ttl         time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Mint a development session token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := bootstrap()
			if err != nil {
				return err
			}
			if cfg.IsProduction() {
				return errors.New("token minting is disabled in production")
			}

			tokens := jwt.NewService(cfg.Identity.JWTSecret, cfg.Identity.Issuer, ttl)
			token, err := tokens.GenerateToken(args[0], jwt.Claims{
				Plan:        plan,
				Features:    strings.Join(features, ","),
				Permissions: permissions,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&plan, "plan", "", "plan slug, e.g. u:pro")
	cmd.Flags().StringSliceVar(&features, "feature", nil, "feature slug, repeatable")
	cmd.Flags().StringSliceVar(&permissions, "permission", nil, "permission, repeatable")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}
