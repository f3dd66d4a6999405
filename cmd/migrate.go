package cmd

import (
	"fmt"

	"reminders/core/config"
	"reminders/core/database"
	"reminders/core/logger"
	listModels "reminders/feature/lists/models"
	"reminders/feature/reminders/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// schema lists every table the service owns, in dependency order.
var schema = []any{&listModels.List{}, &models.Reminder{}}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(schema...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer logg.Sync()

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return err
		}
		if err := migrate(db); err != nil {
			return err
		}
		logg.Info("Schema migrated", zap.String("driver", cfg.Database.Driver), zap.String("database", cfg.Database.Name))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}
