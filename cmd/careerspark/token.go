package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/SahilShaikh-7/careerspark-pplx/internal/config"
	"github.com/SahilShaikh-7/careerspark-pplx/internal/services"
)

var (
	tokenUserID string
	tokenEmail  string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for local development",
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().StringVarP(&tokenUserID, "user-id", "u", "", "User ID (defaults to a new UUID)")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "Email claim")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	if len(cfg.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}

	userID := uuid.New()
	if tokenUserID != "" {
		parsed, err := uuid.Parse(tokenUserID)
		if err != nil {
			return fmt.Errorf("invalid user ID: %w", err)
		}
		userID = parsed
	}

	auth := services.NewAuthService(cfg.Auth.JWTSecret, cfg.Auth.Expiration, cfg.Auth.Issuer)
	token, err := auth.GenerateToken(services.Identity{UserID: userID, Email: tokenEmail})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "user_id: %s\ntoken:   %s\n", userID, token)
	return nil
}
