package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"taskmanager/internal/adapter/auth"
	"taskmanager/internal/config"
)

var (
	tokenUserID string
	tokenTTL    time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Sign a development bearer token for a user id",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := config.LoadConfig()
		if cfg.JWTSecret == "" {
			return errors.New("JWT_SECRET is not set")
		}

		token, err := auth.NewJWTResolver(cfg.JWTSecret).IssueToken(tokenUserID, tokenTTL)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
		return err
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUserID, "user", "", "user id to embed in the token")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("user")
}
