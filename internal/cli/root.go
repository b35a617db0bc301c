package cli

import (
	"college_chatbot_backend/internal/config"
	"college_chatbot_backend/pkg/logger"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configDir string

var rootCmd = &cobra.Command{
	Use:   "college-chatbot",
	Short: "MMEC college information chatbot backend",
	Long: `MMEC college information chatbot backend.

Serves the chat API, the admin dashboard API and the bundled pages.

Examples:
  college-chatbot                      # same as serve
  college-chatbot serve                # start the HTTP server
  college-chatbot migrate              # create or update database tables and exit
  college-chatbot backfill --legacy data/chat_logs.json
  college-chatbot crawl --max-pages 40 # refresh site_pages.json
  college-chatbot check-env            # show which AI providers are configured`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configDir, "config", "c", "configs", "directory holding config.yaml")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(backfillCmd)
	rootCmd.AddCommand(crawlCmd)
	rootCmd.AddCommand(checkEnvCmd)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// loadConfigWithLogger is used by the one-shot commands that skip NewApp.
func loadConfigWithLogger() (*config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger.InitLogger(cfg)
	return cfg, nil
}
