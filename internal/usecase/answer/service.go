// Package answer synthesizes the final natural-language answer from a
// query plus its supporting context (retrieved chunks or a weather
// report) via the language model.
package answer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sagarpimpale/weather-rag-agent/internal/domain"
)

// NoInformationText is returned verbatim when the corpus has nothing
// relevant. The model is never invoked in that case, so it cannot
// fabricate an answer.
const NoInformationText = "No relevant information was found in the document corpus for this question."

// UsageRecorder is the local interface for usage accounting.
type UsageRecorder interface {
	RecordGeneration(prompt, completion int)
}

// Service builds prompts and invokes the language model.
type Service struct {
	llm    domain.Completer
	usage  UsageRecorder
	logger *zap.Logger
}

// New creates a synthesizer. usage can be nil.
func New(llm domain.Completer, usage UsageRecorder, logger *zap.Logger) *Service {
	return &Service{llm: llm, usage: usage, logger: logger}
}

// FromChunks synthesizes a document-grounded answer. An empty
// retrieval result short-circuits to NoInformationText without a
// model call. Model failures propagate; there is no canned fallback.
func (s *Service) FromChunks(ctx context.Context, query string, retrieval domain.RetrievalResult) (domain.Answer, error) {
	if len(retrieval) == 0 {
		s.logger.Info("No retrieval context, skipping model call", zap.String("query", query))
		return domain.Answer{
			Text:       NoInformationText,
			Provenance: domain.ProvenanceDocumentQA,
		}, nil
	}

	res, err := s.complete(ctx, documentPrompt(query, retrieval.Texts()))
	if err != nil {
		return domain.Answer{}, fmt.Errorf("synthesize document answer: %w", err)
	}

	return domain.Answer{
		Text:       res,
		Provenance: domain.ProvenanceDocumentQA,
		Retrieval:  retrieval,
	}, nil
}

// FromWeather synthesizes an answer from a weather report.
func (s *Service) FromWeather(ctx context.Context, query string, report domain.WeatherReport) (domain.Answer, error) {
	res, err := s.complete(ctx, weatherPrompt(query, report))
	if err != nil {
		return domain.Answer{}, fmt.Errorf("synthesize weather answer: %w", err)
	}

	return domain.Answer{
		Text:       res,
		Provenance: domain.ProvenanceWeather,
		Weather:    &report,
	}, nil
}

func (s *Service) complete(ctx context.Context, prompt string) (string, error) {
	res, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	if s.usage != nil {
		s.usage.RecordGeneration(res.PromptTokens, res.CompletionTokens)
	}
	return strings.TrimSpace(res.Content), nil
}
