package service

import (
	"college_chatbot_backend/internal/config"
	"college_chatbot_backend/internal/qa"
	"college_chatbot_backend/internal/repository"
	"college_chatbot_backend/pkg/logger"
	"college_chatbot_backend/pkg/monitoring"
	"college_chatbot_backend/pkg/tracing"
	"context"
	"errors"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// SiteScraper supplies website context for the AI chain.
type SiteScraper interface {
	Scrape(ctx context.Context, normalized string) string
}

// AISource is the last answer source: optional website context plus the provider chain.
type AISource struct {
	AI       *AIService
	Scraper  SiteScraper
	MaxChars int
}

func NewAISource(ai *AIService, scraper SiteScraper, maxChars int) *AISource {
	if maxChars <= 0 {
		maxChars = 400
	}
	return &AISource{AI: ai, Scraper: scraper, MaxChars: maxChars}
}

func (s *AISource) Name() string { return qa.SourceAI }

func (s *AISource) Lookup(ctx context.Context, q qa.Query) (string, bool, error) {
	var siteContext string
	if s.Scraper != nil && s.AI.Usable() {
		siteContext = s.Scraper.Scrape(ctx, q.Normalized)
	}

	text, err := s.AI.Answer(ctx, q.Raw, siteContext)
	switch {
	case errors.Is(err, ErrAINotConfigured):
		return "", false, &qa.Failure{Message: MsgAINotConfigured, Err: err}
	case err != nil:
		return "", false, &qa.Failure{Message: MsgAIProviderError, Err: err}
	}

	answer := qa.Sanitize(qa.Truncate(text, s.MaxChars))
	return answer, answer != "", nil
}

type QAService struct {
	Resolver *qa.Resolver
}

// NewQAService wires the answer sources in their fixed order.
func NewQAService(cfg *config.Config, faqRepo *repository.AdminFAQRepository, unansweredRepo *repository.UnansweredRepository,
	ai *AIService, scraper SiteScraper) *QAService {

	var index *qa.SiteIndex
	if cfg.CollegeData.SiteIndex {
		path := filepath.Join(cfg.CollegeData.Dir, qa.SitePagesFile)
		idx, err := qa.LoadSiteIndex(path)
		if err != nil {
			logger.Log.Warn("Site index unavailable", zap.String("path", path), zap.Error(err))
		} else {
			index = idx
			logger.Log.Info("Site index loaded", zap.Int("pages", idx.Len()))
		}
	}

	resolver := qa.NewResolver(unansweredRepo,
		qa.NewAdminFAQSource(faqRepo),
		qa.NewOfflineFAQSource(cfg.CollegeData.Dir),
		qa.NewCollegeDataSource(cfg.CollegeData.Dir, index),
		qa.NewPolicySource(),
		NewAISource(ai, scraper, cfg.AI.MaxAnswerChars),
	)
	return &QAService{Resolver: resolver}
}

type AskRequest struct {
	Message string `json:"message" binding:"required"`
	Role    string `json:"role"`
}

// Ask resolves one chat message. It always returns an answer; failures surface as
// source "error".
func (s *QAService) Ask(ctx context.Context, message, role string) qa.Answer {
	ctx, span := tracing.StartSpan(ctx, "qa.ask", attribute.String("qa.role", role))
	defer span.End()

	answer := s.Resolver.Resolve(ctx, qa.NewQuery(message, role))
	span.SetAttributes(attribute.String("qa.answer_source", answer.Source))
	monitoring.RecordAnswer(answer.Source)
	return answer
}
