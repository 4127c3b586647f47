package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"storefront/business/user"
	psqlRepo "storefront/internal/repository/postgres"
	"storefront/pkg/config"
	"storefront/pkg/database"
	"storefront/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// bootDB loads config and opens the database connection.
func bootDB() (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.App.Environment)

	return database.InitPostgres(cfg)
}

// storefront-cli migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := bootDB()
		if err != nil {
			return err
		}
		fmt.Println("Running migrations…")
		if err := psqlRepo.Migrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		fmt.Println("Done.")
		return nil
	},
}

var seedAdmin struct {
	name     string
	email    string
	password string
}

// storefront-cli seed-admin --email admin@shop.io
var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create a super admin, or promote an existing account",
	RunE: func(cmd *cobra.Command, args []string) error {
		password := seedAdmin.password
		if password == "" {
			password = os.Getenv("ADMIN_PASSWORD")
		}
		if seedAdmin.email == "" || password == "" {
			return errors.New("seed-admin: --email and --password (or ADMIN_PASSWORD) are required")
		}

		db, err := bootDB()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		svc := user.NewUserService(psqlRepo.NewUserRepository(db), validator.New())
		admin, err := svc.SeedAdmin(ctx, user.RegisterInput{
			Name:     seedAdmin.name,
			Email:    seedAdmin.email,
			Password: password,
		})
		if err != nil {
			return fmt.Errorf("seed-admin: %w", err)
		}

		fmt.Printf("Super admin ready: id=%d email=%s\n", admin.ID, admin.Email)
		return nil
	},
}

func init() {
	seedAdminCmd.Flags().StringVar(&seedAdmin.name, "name", "Administrator", "display name")
	seedAdminCmd.Flags().StringVar(&seedAdmin.email, "email", "", "account email")
	seedAdminCmd.Flags().StringVar(&seedAdmin.password, "password", "", "account password")
}
