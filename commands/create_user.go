package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/modifikasi/partsdesk/models"
	"github.com/modifikasi/partsdesk/store"
	"github.com/modifikasi/partsdesk/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// create-user flags
	newUserEmail    string
	newUserPassword string
	newUserName     string
	newUserRole     string
)

// createUserCmd bootstraps an account without going through approval
var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create an active owner or admin account",
	Long: `Create an account that can sign in immediately. Use it once to create
the first owner, who then approves everyone else.

Examples:
  partsdesk create-user --email owner@shop.test --password secret1 --role owner`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		user, err := createActiveUser(cmd.Context(), a.store, newUserEmail, newUserPassword, newUserName, newUserRole)
		if err != nil {
			return err
		}

		a.log.Info("user created", zap.Uint("user_id", user.ID), zap.String("role", user.Role))
		fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (id %d)\n", user.Role, user.Email, user.ID)
		return nil
	},
}

func init() {
	createUserCmd.Flags().StringVar(&newUserEmail, "email", "", "Email address (required)")
	createUserCmd.Flags().StringVar(&newUserPassword, "password", "", "Password, at least 6 characters (required)")
	createUserCmd.Flags().StringVar(&newUserName, "name", "", "Full name")
	createUserCmd.Flags().StringVar(&newUserRole, "role", models.RoleOwner, "Role: owner or admin")
	_ = createUserCmd.MarkFlagRequired("email")
	_ = createUserCmd.MarkFlagRequired("password")
}

func createActiveUser(ctx context.Context, st *store.Store, email, password, name, role string) (*models.User, error) {
	if role != models.RoleOwner && role != models.RoleAdmin {
		return nil, fmt.Errorf("role must be %q or %q", models.RoleOwner, models.RoleAdmin)
	}
	if strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("email is required")
	}
	if len(password) < utils.MinPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters", utils.MinPasswordLength)
	}

	hash, err := utils.HashSecret(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:    email,
		FullName: strings.TrimSpace(name),
		Password: hash,
		Role:     role,
		Status:   models.StatusActive,
	}
	if err := st.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
