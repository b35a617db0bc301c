package cli

import (
	"college_chatbot_backend/pkg/database"
	"college_chatbot_backend/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables, then exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfigWithLogger()
		if err != nil {
			return err
		}
		defer logger.Log.Sync()

		db, err := database.InitDB(&cfg.Database, false)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		logger.Log.Info("Database migration finished", zap.String("path", cfg.Database.Path))
		return nil
	},
}
