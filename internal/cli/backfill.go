package cli

import (
	"college_chatbot_backend/internal/model"
	"college_chatbot_backend/internal/repository"
	"college_chatbot_backend/internal/service"
	"college_chatbot_backend/pkg/database"
	"college_chatbot_backend/pkg/logger"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var legacyLogPath string

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Queue unanswered questions from the chat log and fill missing registration dates",
	Long: `Scans the stored chat log, plus an optional chat_logs.json export from older
deployments, and queues every question whose reply was empty or a not-found
placeholder. Users without a registration date get the default one.`,
	RunE: runBackfill,
}

func init() {
	backfillCmd.Flags().StringVar(&legacyLogPath, "legacy", "", "chat_logs.json export to scan as well")
}

func runBackfill(cmd *cobra.Command, args []string) error {
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

	var extra []model.ChatLog
	if legacyLogPath != "" {
		extra, err = service.LoadLegacyChatLogs(legacyLogPath)
		if err != nil {
			return fmt.Errorf("read %s: %w", legacyLogPath, err)
		}
	}

	svc := service.NewBackfillService(
		repository.NewChatLogRepository(db),
		repository.NewUnansweredRepository(db),
		repository.NewUserRepository(db),
	)
	report, err := svc.Run(cmd.Context(), extra)
	if err != nil {
		return err
	}

	logger.Log.Info("Backfill finished",
		zap.Int("scanned", report.Scanned),
		zap.Int("unanswered_added", report.UnansweredAdded),
		zap.Int64("users_date_updated", report.UsersDateUpdated))
	fmt.Fprintf(cmd.OutOrStdout(), "scanned %d log entries, queued %d questions, dated %d users\n",
		report.Scanned, report.UnansweredAdded, report.UsersDateUpdated)
	return nil
}
