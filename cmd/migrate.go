package cmd

import (
	"context"

	"spare-manager/core/registry"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCmd creates or updates the registry table.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the devices table",
	Long: `Runs AutoMigrate for the devices table and verifies that every
expected column is present.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := bootstrap()
		if err != nil {
			return err
		}
		defer d.logger.Sync()

		if err := d.store.Migrate(context.Background()); err != nil {
			return err
		}
		d.logger.Info("Registry schema is up to date", zap.String("table", registry.TableName))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}
