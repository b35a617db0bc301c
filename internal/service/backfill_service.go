package service

import (
	"college_chatbot_backend/internal/model"
	"college_chatbot_backend/internal/repository"
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"
)

// DefaultRegistrationDate is stamped on users imported without a created_at.
var DefaultRegistrationDate = time.Date(2025, 11, 22, 0, 0, 0, 0, time.UTC)

type BackfillService struct {
	ChatLogRepo    *repository.ChatLogRepository
	UnansweredRepo *repository.UnansweredRepository
	UserRepo       *repository.UserRepository
}

func NewBackfillService(chatLogRepo *repository.ChatLogRepository, unansweredRepo *repository.UnansweredRepository,
	userRepo *repository.UserRepository) *BackfillService {
	return &BackfillService{
		ChatLogRepo:    chatLogRepo,
		UnansweredRepo: unansweredRepo,
		UserRepo:       userRepo,
	}
}

type BackfillReport struct {
	Scanned          int
	UnansweredAdded  int
	UsersDateUpdated int64
}

// IsUnansweredLog reports whether a stored bot reply means the question was never
// really answered.
func IsUnansweredLog(botMsg string) bool {
	bot := strings.ToLower(strings.TrimSpace(botMsg))
	return bot == "" || strings.Contains(bot, "not found") || strings.Contains(bot, "found relevant data")
}

// LoadLegacyChatLogs reads a chat_logs.json export, as written by older deployments.
func LoadLegacyChatLogs(path string) ([]model.ChatLog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var logs []model.ChatLog
	if err := json.Unmarshal(raw, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// Run queues every unanswered question found in the chat log plus extra, then sets
// the default registration date on users missing one.
func (s *BackfillService) Run(ctx context.Context, extra []model.ChatLog) (*BackfillReport, error) {
	logs, err := s.ChatLogRepo.List()
	if err != nil {
		return nil, err
	}
	logs = append(logs, extra...)

	report := &BackfillReport{Scanned: len(logs)}
	for _, entry := range logs {
		question := strings.TrimSpace(entry.UserMsg)
		if question == "" || !IsUnansweredLog(entry.BotMsg) {
			continue
		}
		at := entry.Timestamp
		if at.IsZero() {
			at = time.Now().UTC()
		}
		added, err := s.UnansweredRepo.Record(ctx, question, at)
		if err != nil {
			return report, err
		}
		if added {
			report.UnansweredAdded++
		}
	}

	n, err := s.UserRepo.BackfillCreatedAt(DefaultRegistrationDate)
	if err != nil {
		return report, err
	}
	report.UsersDateUpdated = n
	return report, nil
}
