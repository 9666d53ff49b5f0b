package main

import (
	"strings"

	"backoffice/internal/repositories"
	"backoffice/internal/services"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newCreateUserCmd() *cobra.Command {
	var u repositories.User
	var password string
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Add a back-office login",
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := services.HashPassword(password)
			if err != nil {
				return err
			}
			u.ID = uuid.NewString()
			u.Email = strings.ToLower(strings.TrimSpace(u.Email))
			u.PasswordHash = hash
			if err := (repositories.UserRepository{}).Create(cmd.Context(), u); err != nil {
				return err
			}
			cmd.Printf("created %s (%s)\n", u.Email, u.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&u.Email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "initial password (min 8 characters)")
	cmd.Flags().StringVar(&u.FirstName, "first-name", "", "")
	cmd.Flags().StringVar(&u.LastName, "last-name", "", "")
	cmd.Flags().StringVar(&u.Role, "role", "admin", "owner | admin | staff")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
