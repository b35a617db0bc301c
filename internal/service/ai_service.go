package service

import (
	"bytes"
	"college_chatbot_backend/internal/config"
	"college_chatbot_backend/internal/qa"
	"college_chatbot_backend/pkg/logger"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

var (
	ErrAINotConfigured = errors.New("no usable AI provider configured or external queries are disallowed")
	ErrAIProvider      = errors.New("AI provider call failed")
)

const (
	MsgAINotConfigured = "Sorry, AI service is not configured on the server. The chatbot answers college FAQs from local data."
	MsgAIProviderError = "Error contacting AI provider. Try again later or ask a college-specific question."

	systemPrompt = "You are an assistant for Maratha Mandal Engineering College (MMEC). " +
		"Answer college-related queries concisely and helpfully. If the user asks unrelated topics, say you only provide MMEC information."

	geminiMaxChars = 800
	openAIMaxChars = 600
	aiTimeout      = 30 * time.Second
)

// Provider is one AI backend in the fallback chain.
type Provider interface {
	Name() string
	// Available reports whether the provider has the credentials it needs.
	Available() bool
	Generate(ctx context.Context, message, siteContext string) (string, error)
}

// ExternalPolicy tells the AI chain whether outbound queries are allowed.
type ExternalPolicy interface {
	ExternalAllowed() bool
}

type AIService struct {
	mu        sync.RWMutex
	providers []Provider
	policy    ExternalPolicy
}

func NewAIService(cfg config.AIConfig, policy ExternalPolicy) *AIService {
	s := &AIService{policy: policy}
	s.UpdateConfig(cfg)
	return s
}

// NewAIServiceWithProviders is used by tests and by callers that assemble their own chain.
func NewAIServiceWithProviders(policy ExternalPolicy, providers ...Provider) *AIService {
	return &AIService{policy: policy, providers: providers}
}

// UpdateConfig rebuilds the provider chain, e.g. after the config file changed.
func (s *AIService) UpdateConfig(cfg config.AIConfig) {
	providers := []Provider{
		NewGeminiProvider(cfg.GeminiAPIKey, cfg.GeminiModel),
		NewOpenAIProvider(cfg.BaseURL, cfg.APIKey, cfg.Model),
	}
	s.mu.Lock()
	s.providers = providers
	s.mu.Unlock()
}

func (s *AIService) chain() []Provider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.providers
}

// Answer asks each available provider in turn. It returns ErrAINotConfigured when no
// provider could be tried and wraps ErrAIProvider when every attempt failed.
func (s *AIService) Answer(ctx context.Context, message, siteContext string) (string, error) {
	if s.policy != nil && !s.policy.ExternalAllowed() {
		return "", ErrAINotConfigured
	}

	attempted := false
	var lastErr error
	for _, p := range s.chain() {
		if !p.Available() {
			continue
		}
		attempted = true

		text, err := p.Generate(ctx, message, siteContext)
		if err != nil {
			logger.Log.Warn("AI provider failed", zap.String("provider", p.Name()), zap.Error(err))
			lastErr = err
			continue
		}
		if strings.TrimSpace(text) == "" {
			lastErr = fmt.Errorf("%s returned an empty answer", p.Name())
			continue
		}
		return text, nil
	}

	if !attempted {
		return "", ErrAINotConfigured
	}
	return "", fmt.Errorf("%w: %v", ErrAIProvider, lastErr)
}

// Usable reports whether Answer could reach any provider at all.
func (s *AIService) Usable() bool {
	if s.policy != nil && !s.policy.ExternalAllowed() {
		return false
	}
	for _, p := range s.chain() {
		if p.Available() {
			return true
		}
	}
	return false
}

// AIStatus describes provider readiness without exposing any secret.
type AIStatus struct {
	ProviderAvailable bool `json:"ai_provider_available"`
	OpenAIPresent     bool `json:"openai_present"`
	GeminiKeyPresent  bool `json:"gemini_key_present"`
	GeminiReady       bool `json:"gemini_ready"`
	ExternalAllowed   bool `json:"external_allowed"`
}

func (s *AIService) Status() AIStatus {
	var st AIStatus
	st.ExternalAllowed = s.policy == nil || s.policy.ExternalAllowed()
	for _, p := range s.chain() {
		switch p.Name() {
		case "gemini":
			st.GeminiKeyPresent = p.Available()
			st.GeminiReady = p.Available()
		case "openai":
			st.OpenAIPresent = p.Available()
		}
		if p.Available() {
			st.ProviderAvailable = st.ExternalAllowed
		}
	}
	return st
}

func buildPrompt(message, siteContext string) string {
	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n")
	if siteContext != "" {
		b.WriteString("Additional context from MMEC website:\n")
		b.WriteString(siteContext)
		b.WriteString("\n\n")
	}
	b.WriteString("User: ")
	b.WriteString(message)
	return b.String()
}

// GeminiProvider calls the Gemini API through the genai SDK.
type GeminiProvider struct {
	apiKey string
	model  string
}

func NewGeminiProvider(apiKey, model string) *GeminiProvider {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GeminiProvider{apiKey: apiKey, model: model}
}

func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) Available() bool { return p.apiKey != "" }

func (p *GeminiProvider) Generate(ctx context.Context, message, siteContext string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, aiTimeout)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: p.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("create genai client: %w", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(buildPrompt(message, siteContext), genai.RoleUser),
	}
	resp, err := client.Models.GenerateContent(ctx, p.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	return qa.Truncate(resp.Text(), geminiMaxChars), nil
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model       string          `json:"model"`
	Messages    []AIChatMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// OpenAIProvider talks to any OpenAI-compatible /chat/completions endpoint.
type OpenAIProvider struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewOpenAIProvider(baseURL, apiKey, model string) *OpenAIProvider {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "gpt-3.5-turbo"
	}
	return &OpenAIProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: aiTimeout},
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Available() bool { return p.apiKey != "" }

func (p *OpenAIProvider) Generate(ctx context.Context, message, siteContext string) (string, error) {
	system := systemPrompt
	if siteContext != "" {
		system += "\nAdditional context from MMEC website:\n" + siteContext
	}

	reqBody := ChatCompletionRequest{
		Model: p.model,
		Messages: []AIChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: message},
		},
		MaxTokens:   300,
		Temperature: 0.2,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	if result.Error != nil {
		return "", fmt.Errorf("AI API error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("AI returned no choices")
	}

	return qa.Truncate(result.Choices[0].Message.Content, openAIMaxChars), nil
}
