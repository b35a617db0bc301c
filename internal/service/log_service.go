package service

import (
	"college_chatbot_backend/internal/model"
	"college_chatbot_backend/internal/qa"
	"college_chatbot_backend/internal/repository"
	"college_chatbot_backend/internal/util"
	"college_chatbot_backend/pkg/monitoring"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Persist outcomes reported to metrics.
const (
	OutcomeSaved   = "saved"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"

	minBotMsgLen = 5
)

type LogService struct {
	Repo *repository.ChatLogRepository
}

func NewLogService(repo *repository.ChatLogRepository) *LogService {
	return &LogService{Repo: repo}
}

type AppendLogRequest struct {
	User    string `json:"user"`
	UserMsg string `json:"user_msg"`
	BotMsg  string `json:"bot_msg"`
	Source  string `json:"source"`
	Offline bool   `json:"offline"`
}

// Append stores one exchange. An exchange whose bot reply contains boilerplate is
// dropped and reported as skipped. The reply is sanitized before it is written; the
// user's message is kept as typed.
func (s *LogService) Append(req AppendLogRequest) (skipped bool, err error) {
	if qa.ContainsBoilerplate(req.BotMsg) {
		monitoring.RecordPersist("log", OutcomeSkipped)
		return true, nil
	}

	bot := qa.Sanitize(req.BotMsg)
	if utf8.RuneCountInString(bot) < minBotMsgLen {
		bot = ""
	}

	entry := &model.ChatLog{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		User:      req.User,
		UserMsg:   strings.TrimSpace(req.UserMsg),
		BotMsg:    bot,
		Source:    req.Source,
		Offline:   req.Offline,
	}
	if err := s.Repo.Create(entry); err != nil {
		monitoring.RecordPersist("log", OutcomeFailed)
		return false, err
	}
	monitoring.RecordPersist("log", OutcomeSaved)
	return false, nil
}

func (s *LogService) List() ([]model.ChatLog, error) {
	return s.Repo.List()
}

func (s *LogService) Clear() error {
	return s.Repo.Clear()
}

// Reply overwrites the bot message of one entry with an admin answer.
func (s *LogService) Reply(ref, reply, adminEmail string) error {
	n, err := s.Repo.Reply(ref, reply, adminEmail)
	if err != nil {
		return err
	}
	if n == 0 {
		return util.ErrLogNotFound
	}
	return nil
}

func (s *LogService) Delete(ref string) error {
	n, err := s.Repo.Delete(ref)
	if err != nil {
		return err
	}
	if n == 0 {
		return util.ErrLogNotFound
	}
	return nil
}
