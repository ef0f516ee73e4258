package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"mealplan/internal/config"
	"mealplan/internal/db"
)

var (
	cfg    *config.Config
	gormDB *gorm.DB
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the meal planning database",
	Long: `seed prepares a fresh deployment.

Examples:
  seed create-admin --username root --password s3cret --email root@example.com
  seed ban-words spam scam
  seed recipes --source ./recipes.json`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()

		var err error
		gormDB, err = db.NewSQL(cfg.DBDriver, cfg.DatabaseDSN)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		log.Println("Connected to database")

		if err := db.Migrate(gormDB); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		log.Println("Database migrations completed")
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
