// Package agent orchestrates one query end to end: classify, dispatch
// to the weather or document-QA handler, and return a single Answer.
// All per-query state is local, so independent queries can run
// concurrently; the only shared resources are the read-mostly index
// snapshot and the outbound clients.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sagarpimpale/weather-rag-agent/internal/domain"
	"github.com/sagarpimpale/weather-rag-agent/internal/metrics"
	"github.com/sagarpimpale/weather-rag-agent/internal/usecase/router"
)

// defaultRetryBackoff is the pause before the single weather retry.
const defaultRetryBackoff = 500 * time.Millisecond

// Service is the single entry point the core exposes to any front end.
type Service struct {
	weather WeatherSource
	retr    Retriever
	synth   Synthesizer
	usage   UsageRecorder
	logger  *zap.Logger
	backoff time.Duration
}

// New creates the query-handling service. usage can be nil.
func New(
	weather WeatherSource, retr Retriever, synth Synthesizer,
	usage UsageRecorder, logger *zap.Logger,
) *Service {
	return &Service{
		weather: weather,
		retr:    retr,
		synth:   synth,
		usage:   usage,
		logger:  logger,
		backoff: defaultRetryBackoff,
	}
}

// WithRetryBackoff overrides the pause before the weather retry.
func (s *Service) WithRetryBackoff(d time.Duration) *Service {
	if d > 0 {
		s.backoff = d
	}
	return s
}

// HandleQuery processes one query end to end. Degraded outcomes
// (unknown place, weather source down after a retry, retrieval
// failure) come back as explanatory Answers; generation failures
// propagate as errors and are never replaced by fabricated content.
func (s *Service) HandleQuery(ctx context.Context, text string) (domain.Answer, error) {
	query := domain.Query{Text: strings.TrimSpace(text)}
	if query.Text == "" {
		return domain.Answer{}, fmt.Errorf("empty query")
	}

	route := router.Classify(query.Text)
	if s.usage != nil {
		s.usage.RecordQuery(route)
	}

	start := time.Now()
	var ans domain.Answer
	var err error
	switch route {
	case domain.RouteWeather:
		ans, err = s.handleWeather(ctx, query)
	default:
		ans, err = s.handleDocumentQA(ctx, query)
	}
	metrics.QueryDuration.WithLabelValues(string(route)).Observe(time.Since(start).Seconds())

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.QueriesTotal.WithLabelValues(string(route), status).Inc()

	s.logger.Info("Query handled",
		zap.String("route", string(route)),
		zap.String("status", status),
		zap.Duration("duration", time.Since(start)),
	)

	return ans, err
}

func (s *Service) handleWeather(ctx context.Context, query domain.Query) (domain.Answer, error) {
	place := router.ExtractPlace(query.Text)

	report, err := s.lookupWithRetry(ctx, place)
	switch {
	case errors.Is(err, domain.ErrPlaceNotFound):
		return domain.Answer{
			Text:       fmt.Sprintf("I couldn't find weather for %q. Please check the place name and try again.", place),
			Provenance: domain.ProvenanceWeather,
		}, nil
	case err != nil:
		// Transient failure, already retried once. Say so instead of
		// returning a silent empty answer.
		return domain.Answer{
			Text:       "The weather service is currently unavailable. Please try again in a moment.",
			Provenance: domain.ProvenanceWeather,
		}, nil
	}

	ans, err := s.synth.FromWeather(ctx, query.Text, report)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("weather answer: %w", err)
	}
	return ans, nil
}

// lookupWithRetry retries exactly once, only for transient failures.
// An unknown place fails immediately.
func (s *Service) lookupWithRetry(ctx context.Context, place string) (domain.WeatherReport, error) {
	report, err := s.weather.Current(ctx, place)
	if err == nil || !errors.Is(err, domain.ErrWeatherUnavailable) {
		return report, err
	}

	s.logger.Warn("Weather lookup failed, retrying once",
		zap.String("place", place),
		zap.Error(err),
	)

	select {
	case <-ctx.Done():
		return domain.WeatherReport{}, fmt.Errorf("weather retry: %w: %w", ctx.Err(), domain.ErrWeatherUnavailable)
	case <-time.After(s.backoff):
	}

	return s.weather.Current(ctx, place)
}

func (s *Service) handleDocumentQA(ctx context.Context, query domain.Query) (domain.Answer, error) {
	retrieval, err := s.retr.Retrieve(ctx, query.Text)
	switch {
	case errors.Is(err, domain.ErrIndexNotReady):
		return domain.Answer{}, fmt.Errorf("document query: %w", err)
	case err != nil:
		s.logger.Error("Retrieval failed", zap.String("query", query.Text), zap.Error(err))
		return domain.Answer{
			Text:       "I couldn't search the document corpus for this question because retrieval failed. Please try again later.",
			Provenance: domain.ProvenanceDocumentQA,
		}, nil
	}

	ans, err := s.synth.FromChunks(ctx, query.Text, retrieval)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("document answer: %w", err)
	}
	return ans, nil
}
