package service

import (
	"college_chatbot_backend/internal/model"
	"college_chatbot_backend/internal/qa"
	"college_chatbot_backend/internal/repository"
	"college_chatbot_backend/internal/util"
	"college_chatbot_backend/pkg/monitoring"
	"time"
)

type HistoryService struct {
	Repo *repository.HistoryRepository
}

func NewHistoryService(repo *repository.HistoryRepository) *HistoryService {
	return &HistoryService{Repo: repo}
}

type AppendHistoryRequest struct {
	User string `json:"user"`
	Role string `json:"role"`
	From string `json:"from"`
	Text string `json:"text"`
	TS   string `json:"ts"`
}

// Append adds one bubble to a user's history under the same boilerplate policy as
// the chat log.
func (s *HistoryService) Append(req AppendHistoryRequest) (skipped bool, err error) {
	if qa.ContainsBoilerplate(req.Text) {
		monitoring.RecordPersist("history", OutcomeSkipped)
		return true, nil
	}

	ts := req.TS
	if ts == "" {
		ts = time.Now().UTC().Format(time.RFC3339Nano)
	}
	item := &model.History{
		Username: req.User,
		Role:     req.Role,
		Sender:   req.From,
		Text:     qa.Sanitize(req.Text),
		TS:       ts,
	}
	if err := s.Repo.Create(item); err != nil {
		monitoring.RecordPersist("history", OutcomeFailed)
		return false, err
	}
	monitoring.RecordPersist("history", OutcomeSaved)
	return false, nil
}

// Page clamps page and size to sane values before querying.
func (s *HistoryService) Page(username string, page, size int) ([]model.History, int64, int, int, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = util.DefaultHistoryPageSize
	}
	if size > util.MaxHistoryPageSize {
		size = util.MaxHistoryPageSize
	}
	items, total, err := s.Repo.Page(username, page, size)
	return items, total, page, size, err
}

// Delete removes one item when ts is set, otherwise the user's whole history.
func (s *HistoryService) Delete(username, ts string) (int64, error) {
	if ts != "" {
		return s.Repo.DeleteByTS(username, ts)
	}
	return s.Repo.Clear(username)
}
