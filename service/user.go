package service

import (
	"context"
	"errors"
	"fmt"

	"blogapi/app/config"
	"blogapi/app/repositories"
	"blogapi/app/services"

	"github.com/spf13/cobra"
)

func newUserCmd(s *settings) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage the accounts allowed to write posts",
	}

	var password string
	addCmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Create a user",
		Long: `Create a user who can authenticate with HTTP Basic credentials.

Examples:
  blogapi user add alice --password s3cret`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return addUser(cmd, s, args[0], password)
		},
	}
	addCmd.Flags().StringVarP(&password, "password", "p", "", "Password for the new user")
	_ = addCmd.MarkFlagRequired("password")

	userCmd.AddCommand(addCmd)
	return userCmd
}

func addUser(cmd *cobra.Command, s *settings, username, password string) error {
	if s.cfg.Storage == config.StorageMemory {
		return errors.New("users added to the memory storage are lost on exit; set BLOG_ADMIN_USER and BLOG_ADMIN_PASSWORD for serve instead")
	}

	store, err := s.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	users := services.NewUserService(store.Users(), s.cfg.BcryptCost, nil)
	user, err := users.CreateUser(cmd.Context(), username, password)
	if errors.Is(err, services.ErrUsernameTaken) {
		return fmt.Errorf("user %q already exists", username)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (id %d)\n", user.Username, user.ID)
	return nil
}

// seedAdmin creates the account named by BLOG_ADMIN_USER if it does not exist.
// An existing account keeps its password.
func seedAdmin(ctx context.Context, s *settings, store repositories.Store) error {
	if s.cfg.AdminUser == "" {
		return nil
	}

	users := services.NewUserService(store.Users(), s.cfg.BcryptCost, nil)
	user, err := users.CreateUser(ctx, s.cfg.AdminUser, s.cfg.AdminPassword)
	if errors.Is(err, services.ErrUsernameTaken) {
		s.logger.Info("admin user exists", "username", s.cfg.AdminUser)
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	s.logger.Info("created admin user", "username", user.Username, "id", user.ID)
	return nil
}
