// Package embedding wraps the embedding provider with observability:
// debug logging and usage accounting. Transport metrics (requests,
// duration, tokens) are recorded in transport/openai; this layer owns
// process-level usage only.
package embedding

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sagarpimpale/weather-rag-agent/internal/domain"
)

// UsageRecorder is the local interface for usage accounting.
type UsageRecorder interface {
	RecordEmbedding(tokens int)
}

// InstrumentedEmbedder wraps an Embedder with usage recording and logging.
type InstrumentedEmbedder struct {
	inner  domain.Embedder
	model  string
	usage  UsageRecorder
	logger *zap.Logger
}

// NewInstrumentedEmbedder wraps an embedder with observability.
// usage can be nil.
func NewInstrumentedEmbedder(
	inner domain.Embedder, model string,
	usage UsageRecorder, logger *zap.Logger,
) *InstrumentedEmbedder {
	return &InstrumentedEmbedder{
		inner:  inner,
		model:  model,
		usage:  usage,
		logger: logger,
	}
}

// Embed delegates to the inner embedder and records usage.
func (p *InstrumentedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	start := time.Now()

	result, err := p.inner.Embed(ctx, text)

	duration := time.Since(start)

	if err != nil {
		p.logger.Error("Embedding request failed",
			zap.String("model", p.model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}

	if p.usage != nil {
		p.usage.RecordEmbedding(result.TotalTokens)
	}

	p.logger.Debug("Embedding request completed",
		zap.String("model", p.model),
		zap.Duration("duration", duration),
		zap.Int("dimensions", len(result.Embedding)),
		zap.Int("total_tokens", result.TotalTokens),
	)

	return result, nil
}

// BatchEmbed delegates to the inner embedder, falling back to one
// Embed call per text when the inner embedder has no native batch.
func (p *InstrumentedEmbedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return domain.BatchEmbeddingResult{}, nil
	}

	start := time.Now()

	var result domain.BatchEmbeddingResult
	var err error
	if be, ok := p.inner.(domain.BatchEmbedder); ok {
		result, err = be.BatchEmbed(ctx, texts)
	} else {
		result, err = domain.BatchFallback(ctx, p.inner, texts)
	}

	duration := time.Since(start)

	if err != nil {
		p.logger.Error("Batch embedding request failed",
			zap.String("model", p.model),
			zap.Int("batch_size", len(texts)),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed: %w", err)
	}

	if p.usage != nil {
		p.usage.RecordEmbedding(result.TotalTokens)
	}

	p.logger.Debug("Batch embedding completed",
		zap.String("model", p.model),
		zap.Int("batch_size", len(texts)),
		zap.Duration("duration", duration),
		zap.Int("total_tokens", result.TotalTokens),
	)

	return result, nil
}
