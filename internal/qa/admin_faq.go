package qa

import (
	"college_chatbot_backend/internal/model"
	"context"
	"fmt"
	"strings"
)

// AdminFAQStore lists admin FAQs, newest first.
type AdminFAQStore interface {
	ListNewestFirst(ctx context.Context) ([]model.AdminFAQ, error)
}

type AdminFAQSource struct {
	Store AdminFAQStore
}

func NewAdminFAQSource(store AdminFAQStore) *AdminFAQSource {
	return &AdminFAQSource{Store: store}
}

func (s *AdminFAQSource) Name() string { return SourceAdminFAQ }

func (s *AdminFAQSource) Lookup(ctx context.Context, q Query) (string, bool, error) {
	faqs, err := s.Store.ListNewestFirst(ctx)
	if err != nil {
		return "", false, fmt.Errorf("list admin faqs: %w", err)
	}
	answer, ok := MatchAdminFAQ(faqs, q.Normalized)
	return answer, ok, nil
}

// MatchAdminFAQ walks the rows in order. A row matches when its question and the
// query contain one another, or when any of its comma-separated keywords occurs in
// the query.
func MatchAdminFAQ(faqs []model.AdminFAQ, normalized string) (string, bool) {
	for _, f := range faqs {
		if strings.TrimSpace(f.Question) == "" {
			continue
		}
		stored := Normalize(f.Question)
		if strings.Contains(stored, normalized) || strings.Contains(normalized, stored) {
			return f.Answer, true
		}
		for _, tok := range strings.Split(f.Keywords, ",") {
			tok = Normalize(tok)
			if tok != "" && strings.Contains(normalized, tok) {
				return f.Answer, true
			}
		}
	}
	return "", false
}
