package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/adapters/driven/auth"
	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/domain"
)

var tokenCmd = &cobra.Command{
	Use:   "token [user-id]",
	Short: "Issue a development bearer token",
	Long:  `Signs a token with JWT_SECRET for local testing. Production tokens come from the platform auth service.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runToken,
}

var (
	tokenEmail string
	tokenTTL   time.Duration
)

func init() {
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "Email claim")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	var opts []auth.Option
	if cfg.JWTIssuer != "" {
		opts = append(opts, auth.WithIssuer(cfg.JWTIssuer))
	}

	now := time.Now()
	token, err := auth.NewAdapter(cfg.JWTSecret, opts...).IssueToken(&domain.TokenClaims{
		UserID:    args[0],
		Email:     tokenEmail,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(tokenTTL).Unix(),
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
