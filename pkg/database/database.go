package database

import (
	"college_chatbot_backend/internal/config"
	"college_chatbot_backend/internal/model"
	applog "college_chatbot_backend/pkg/logger"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every table owned by the application, in migration order.
var Models = []interface{}{
	&model.User{},
	&model.Login{},
	&model.AdminFAQ{},
	&model.UnansweredQuery{},
	&model.ChatLog{},
	&model.History{},
	&model.Setting{},
	&model.GeneralInfo{},
	&model.Course{},
	&model.Faculty{},
	&model.FeeStructure{},
	&model.Timetable{},
}

func InitDB(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	if dir := filepath.Dir(cfg.Path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	// busy_timeout lets concurrent writers wait on SQLite's own lock instead of failing
	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_foreign_keys=on", cfg.Path)

	mode := logger.Warn
	if debug {
		mode = logger.Info
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(mode),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	applog.Log.Info("Database connection established", zap.String("path", cfg.Path))

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	applog.Log.Info("Database migration completed")
	return nil
}
