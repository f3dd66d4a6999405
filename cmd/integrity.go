package cmd

import (
	"encoding/json"
	"fmt"

	"reminders/core/config"
	"reminders/core/database"
	"reminders/core/logger"
	"reminders/core/storage"
	"reminders/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the database schema and the exports bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrity(cmd, true, true)
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Compare the database schema with the models",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrity(cmd, true, false)
	},
}

var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Check and optionally repair the exports bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrity(cmd, false, true)
	},
}

func runIntegrity(cmd *cobra.Command, schema, bucket bool) error {
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
		return fmt.Errorf("database connection required: %w", err)
	}
	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to create storage client: %w", err)
	}
	svc := integrity.NewService(db, client, cfg.Storage, logg)
	out := map[string]any{}

	if schema {
		report, err := svc.CheckSchema()
		if err != nil {
			return err
		}
		if !report.Matched {
			logg.Warn("Schema does not match the models", zap.Strings("errors", report.Errors))
		}
		out["schema"] = report
	}

	if bucket {
		report, err := svc.CheckStorage(cmd.Context())
		if err != nil {
			return err
		}
		out["storage"] = report
		if !report.Healthy() && fixFlag {
			removed, err := svc.FixStorage(cmd.Context(), report)
			if err != nil {
				return fmt.Errorf("failed to repair storage: %w", err)
			}
			out["removed"] = removed
			logg.Info("Storage repaired", zap.Int("removed", len(removed)))
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func init() {
	storageCmd.Flags().BoolVar(&fixFlag, "fix", false, "create a missing bucket and remove stale exports")
	integrityCmd.AddCommand(schemaCmd, storageCmd)
	RootCmd.AddCommand(integrityCmd)
}
