/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/medilearn/apiserver/internal/server"
	"github.com/medilearn/apiserver/internal/services"
	"github.com/medilearn/apiserver/internal/store"
	"github.com/spf13/cobra"
)

var (
	userEmail    string
	userName     string
	userPassword string
)

// userCmd represents the user command
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage learner accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an account with a bcrypt-hashed password",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(userPassword) < 8 {
			return errors.New("--password must be at least 8 characters")
		}

		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		repos, err := server.OpenRepositories(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		defer repos.Close(context.Background())

		user, err := services.NewUserService(repos.Users).Register(cmd.Context(), userEmail, userName, userPassword)
		if err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return fmt.Errorf("an account for %s already exists", userEmail)
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", user.ID, user.Email)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userCreateCmd)

	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "login email")
	userCreateCmd.Flags().StringVar(&userName, "name", "", "display name")
	userCreateCmd.Flags().StringVar(&userPassword, "password", "", "initial password")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("password")
}
