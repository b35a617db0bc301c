package service

import (
	"college_chatbot_backend/internal/config"
	"college_chatbot_backend/internal/repository"
	"college_chatbot_backend/pkg/logger"
	"strconv"
	"sync"

	"go.uber.org/zap"
)

// KeyAllowExternal is the settings row behind the admin AI toggle.
const KeyAllowExternal = "allow_external_queries"

type SettingService struct {
	Repo *repository.SettingRepository

	mu  sync.RWMutex
	cfg config.AIConfig
}

func NewSettingService(repo *repository.SettingRepository, cfg config.AIConfig) *SettingService {
	return &SettingService{Repo: repo, cfg: cfg}
}

func (s *SettingService) UpdateConfig(cfg config.AIConfig) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

// ExternalAllowed resolves the effective flag: the environment override wins,
// then the stored setting, then true.
func (s *SettingService) ExternalAllowed() bool {
	s.mu.RLock()
	allowed, set := s.cfg.ExternalOverride()
	s.mu.RUnlock()
	if set {
		return allowed
	}

	value, ok, err := s.Repo.Get(KeyAllowExternal)
	if err != nil {
		logger.Log.Error("Failed to read setting", zap.String("key", KeyAllowExternal), zap.Error(err))
		return true
	}
	if !ok {
		return true
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return true
	}
	return b
}

// ToggleExternal flips the stored flag and returns the effective value afterwards.
func (s *SettingService) ToggleExternal() (bool, error) {
	next := !s.ExternalAllowed()
	if err := s.Repo.Set(KeyAllowExternal, strconv.FormatBool(next)); err != nil {
		return false, err
	}
	return s.ExternalAllowed(), nil
}
