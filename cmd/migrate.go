package cmd

import (
	"fmt"

	"booking-sync/feature/booking/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCmd creates or updates the booking tables.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the booking tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime(true)
		if err != nil {
			return err
		}
		defer rt.close()

		all := models.AllModels()
		if err := rt.db.AutoMigrate(all...); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		rt.logger.Info("Booking tables migrated", zap.Int("models", len(all)))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}
