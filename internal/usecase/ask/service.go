// Package ask orchestrates the retrieval-augmented answer pipeline:
// embed question → nearest-neighbor retrieval → context assembly →
// prompt templating → generation → response normalization.
package ask

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campusqa/campusqa/internal/domain"
	"github.com/campusqa/campusqa/internal/logger"
	"github.com/campusqa/campusqa/internal/metrics"
)

// Secrets are the credentials the pipeline refuses to run without.
// Clients are process-wide singletons built at startup; this gates their
// use per request so a misconfigured process fails before any network call.
type Secrets struct {
	ModelAPIKey     string
	IndexCredential string
}

// Service runs the ask pipeline.
type Service struct {
	embed     Embedder
	retriever Retriever
	gen       Generator
	recorder  Recorder
	secrets   Secrets
	topK      int
}

// New creates an ask service retrieving the default top-K neighbors.
func New(embed Embedder, retriever Retriever, gen Generator, secrets Secrets) *Service {
	return &Service{
		embed:     embed,
		retriever: retriever,
		gen:       gen,
		secrets:   secrets,
		topK:      domain.DefaultTopK,
	}
}

// WithRecorder attaches optional chat-history recording.
func (s *Service) WithRecorder(rec Recorder) *Service {
	s.recorder = rec
	return s
}

// WithTopK overrides the retrieval depth.
func (s *Service) WithTopK(k int) *Service {
	if k > 0 {
		s.topK = k
	}
	return s
}

// Ask answers a question from indexed documents. userID and chatID are
// optional (uuid.Nil): when userID is set the exchange is recorded into
// chat history on a best-effort basis.
func (s *Service) Ask(ctx context.Context, question string, userID, chatID uuid.UUID) (string, error) {
	log := logger.FromContext(ctx)

	question = strings.TrimSpace(question)
	if question == "" {
		metrics.AskRequestsTotal.WithLabelValues("rejected").Inc()
		return "", domain.ErrEmptyQuestion
	}

	if s.secrets.ModelAPIKey == "" || s.secrets.IndexCredential == "" {
		metrics.AskRequestsTotal.WithLabelValues("error").Inc()
		return "", domain.ErrMissingCredentials
	}

	embResult, err := s.embed.Embed(ctx, question)
	if err != nil {
		metrics.AskRequestsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("vectorize question: %w", err)
	}

	docs, err := s.retriever.Retrieve(ctx, embResult.Embedding, s.topK)
	if err != nil {
		metrics.AskRequestsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("retrieve documents: %w", err)
	}

	metrics.RetrievedDocuments.Observe(float64(len(docs)))

	// Nothing retrieved: answer with the fixed sentence instead of paying
	// for a generation call over an empty context.
	if len(docs) == 0 {
		metrics.AskRequestsTotal.WithLabelValues("no_context").Inc()
		s.record(ctx, userID, chatID, question, domain.RefusalSentence)
		return domain.RefusalSentence, nil
	}

	prompt := domain.BuildPrompt(domain.BuildContext(docs), question)

	raw, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		metrics.AskRequestsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("generate answer: %w", err)
	}

	answer, ok := domain.ExtractAnswer(raw)
	if !ok {
		log.Warn("unrecognized generation response shape", zap.Any("raw", raw))
		answer = domain.AnswerFallback
	}

	metrics.AskRequestsTotal.WithLabelValues("answered").Inc()
	s.record(ctx, userID, chatID, question, answer)
	return answer, nil
}

// record persists the exchange. Failures are logged, never surfaced:
// losing history must not fail an answered question.
func (s *Service) record(ctx context.Context, userID, chatID uuid.UUID, question, answer string) {
	if s.recorder == nil || userID == uuid.Nil {
		return
	}
	if _, err := s.recorder.Record(ctx, userID, chatID, question, answer); err != nil {
		logger.FromContext(ctx).Warn("record chat history", zap.Error(err))
	}
}
