package cli

import (
	"college_chatbot_backend/internal/qa"
	"college_chatbot_backend/internal/service"
	"college_chatbot_backend/pkg/logger"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var crawlMaxPages int

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Crawl the college website into site_pages.json for the site index",
	RunE:  runCrawl,
}

func init() {
	crawlCmd.Flags().IntVar(&crawlMaxPages, "max-pages", 40, "stop after this many pages")
}

func runCrawl(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigWithLogger()
	if err != nil {
		return err
	}
	defer logger.Log.Sync()

	scraper := service.NewScraperService(cfg.Scrape)
	pages, err := scraper.Crawl(cmd.Context(), crawlMaxPages)
	if err != nil {
		return err
	}

	out := filepath.Join(cfg.CollegeData.Dir, qa.SitePagesFile)
	if err := writePages(out, pages); err != nil {
		return err
	}

	logger.Log.Info("Crawl finished", zap.Int("pages", len(pages)), zap.String("file", out))
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d pages to %s\n", len(pages), out)
	return nil
}

func writePages(path string, pages []qa.Page) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(pages, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".part"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
