package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"mealplan/internal/model"
	"mealplan/internal/repository"
	"mealplan/internal/service"
)

type adminInput struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
}

var adminFlags adminInput

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account or promote an existing user",
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := seedAdmin(cmd.Context(), repository.NewUserRepository(gormDB), adminFlags)
		if err != nil {
			return err
		}
		if created {
			log.Printf("Admin %q created", adminFlags.Username)
		} else {
			log.Printf("User %q promoted to admin", adminFlags.Username)
		}
		return nil
	},
}

func init() {
	f := createAdminCmd.Flags()
	f.StringVar(&adminFlags.Username, "username", "", "Admin username (required)")
	f.StringVar(&adminFlags.Password, "password", "", "Password for a new admin (required unless the user exists)")
	f.StringVar(&adminFlags.Email, "email", "", "Email for a new admin")
	f.StringVar(&adminFlags.FirstName, "first-name", "Site", "First name for a new admin")
	f.StringVar(&adminFlags.LastName, "last-name", "Admin", "Last name for a new admin")
	_ = createAdminCmd.MarkFlagRequired("username")
	rootCmd.AddCommand(createAdminCmd)
}

// seedAdmin promotes an existing user or creates a new admin. It reports
// whether a new record was created.
func seedAdmin(ctx context.Context, repo repository.UserRepository, in adminInput) (bool, error) {
	existing, err := repo.FindByUsername(ctx, in.Username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("look up %s: %w", in.Username, err)
	}
	if existing != nil {
		existing.Role = model.RoleAdmin
		if err := repo.Update(ctx, existing); err != nil {
			return false, fmt.Errorf("promote %s: %w", in.Username, err)
		}
		return false, nil
	}

	v := service.NewProfileValidator()
	email := service.NormalizeEmail(in.Email)
	for _, check := range []error{
		v.ValidateUsername(in.Username),
		v.ValidatePassword(in.Password),
		v.ValidateEmail(email),
		v.ValidateName("firstName", in.FirstName),
		v.ValidateName("lastName", in.LastName),
	} {
		if check != nil {
			return false, check
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	user := &model.User{
		Username:     in.Username,
		Email:        email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	}
	if err := repo.Create(ctx, user); err != nil {
		return false, fmt.Errorf("create %s: %w", in.Username, err)
	}
	return true, nil
}
