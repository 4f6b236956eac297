package main

import (
	"fmt"
	"time"

	"github.com/hosico-labs/bounty-backend/pkg/jwt"
	"github.com/spf13/cobra"
)

var (
	tokenSubject string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage service tokens for the admin API",
}

var tokenIssueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue an operator service token signed with jwt.secret",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		ttl := cfg.JWT.ExpiresIn
		if tokenTTL > 0 {
			ttl = tokenTTL
		}
		token, err := jwt.NewServiceTokenService(cfg.JWT.Secret, cfg.JWT.Issuer, ttl).Issue(tokenSubject, jwt.RoleOperator)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenIssueCmd.Flags().StringVar(&tokenSubject, "subject", "operator", "subject recorded in the token")
	tokenIssueCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (defaults to jwt.expires_in)")
	tokenCmd.AddCommand(tokenIssueCmd)
}
