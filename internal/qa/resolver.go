package qa

import (
	"college_chatbot_backend/pkg/logger"
	"college_chatbot_backend/pkg/tracing"
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Source tags. Every resolved query carries exactly one.
const (
	SourceAdminFAQ    = "admin_faq"
	SourceOffline     = "offline"
	SourceCollegeData = "college_data"
	SourcePolicy      = "policy"
	SourceAI          = "ai"
	SourceError       = "error"
)

const NoAnswerMessage = "Sorry, couldn't generate an answer."

// Source is one answer strategy. A miss is ("", false, nil). Any error other than
// a *Failure is logged and treated as a miss.
type Source interface {
	Name() string
	Lookup(ctx context.Context, q Query) (answer string, ok bool, err error)
}

// Failure ends resolution: the question is queued as unanswered and Message is shown
// to the user.
type Failure struct {
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return f.Message
	}
	return f.Err.Error()
}

func (f *Failure) Unwrap() error { return f.Err }

// UnansweredRecorder queues questions for admin review. Recording the same question
// twice must be a no-op.
type UnansweredRecorder interface {
	RecordUnanswered(ctx context.Context, question string) error
}

type Answer struct {
	Text   string `json:"answer"`
	Source string `json:"source"`
}

type Resolver struct {
	sources    []Source
	unanswered UnansweredRecorder
}

func NewResolver(unanswered UnansweredRecorder, sources ...Source) *Resolver {
	return &Resolver{sources: sources, unanswered: unanswered}
}

func (r *Resolver) Sources() []string {
	names := make([]string, len(r.sources))
	for i, s := range r.sources {
		names[i] = s.Name()
	}
	return names
}

// Resolve tries each source in order and returns the first answer.
func (r *Resolver) Resolve(ctx context.Context, q Query) Answer {
	for _, src := range r.sources {
		answer, ok, err := r.lookup(ctx, src, q)
		if err != nil {
			var failure *Failure
			if errors.As(err, &failure) {
				logger.Log.Warn("Answer source failed",
					zap.String("source", src.Name()),
					zap.Error(err))
				r.recordUnanswered(ctx, q.Raw)
				return Answer{Text: failure.Message, Source: SourceError}
			}
			logger.Log.Error("Answer source error, skipping",
				zap.String("source", src.Name()),
				zap.Error(err))
			continue
		}
		if ok {
			return Answer{Text: answer, Source: src.Name()}
		}
	}

	r.recordUnanswered(ctx, q.Raw)
	return Answer{Text: NoAnswerMessage, Source: SourceError}
}

func (r *Resolver) lookup(ctx context.Context, src Source, q Query) (string, bool, error) {
	ctx, span := tracing.StartSpan(ctx, "qa.source", attribute.String("qa.source", src.Name()))
	defer span.End()

	answer, ok, err := src.Lookup(ctx, q)
	span.SetAttributes(attribute.Bool("qa.hit", ok && err == nil))
	if err != nil {
		span.RecordError(err)
	}
	return answer, ok, err
}

func (r *Resolver) recordUnanswered(ctx context.Context, question string) {
	if r.unanswered == nil || question == "" {
		return
	}
	if err := r.unanswered.RecordUnanswered(ctx, question); err != nil {
		logger.Log.Error("Failed to record unanswered query", zap.Error(err))
	}
}
