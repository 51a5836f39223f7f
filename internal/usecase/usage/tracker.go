// Package usage accounts for token consumption and query volume over
// the process lifetime. Counters are atomic; nothing is persisted.
package usage

import (
	"sync/atomic"
	"time"

	"github.com/sagarpimpale/weather-rag-agent/internal/domain"
)

// Tracker accumulates process-lifetime usage counters. Safe for
// concurrent use.
type Tracker struct {
	startedAt time.Time

	embeddingTokens  atomic.Int64
	promptTokens     atomic.Int64
	completionTokens atomic.Int64
	weatherQueries   atomic.Int64
	documentQueries  atomic.Int64
}

// NewTracker creates a tracker anchored at the current time.
func NewTracker() *Tracker {
	return &Tracker{startedAt: time.Now().UTC()}
}

// RecordEmbedding adds consumed embedding tokens.
func (t *Tracker) RecordEmbedding(tokens int) {
	if tokens > 0 {
		t.embeddingTokens.Add(int64(tokens))
	}
}

// RecordGeneration adds consumed language model tokens.
func (t *Tracker) RecordGeneration(prompt, completion int) {
	if prompt > 0 {
		t.promptTokens.Add(int64(prompt))
	}
	if completion > 0 {
		t.completionTokens.Add(int64(completion))
	}
}

// RecordQuery counts a handled query by route.
func (t *Tracker) RecordQuery(route domain.Route) {
	switch route {
	case domain.RouteWeather:
		t.weatherQueries.Add(1)
	case domain.RouteDocumentQA:
		t.documentQueries.Add(1)
	}
}

// Report is a point-in-time usage snapshot.
type Report struct {
	StartedAt        time.Time `json:"started_at"`
	EmbeddingTokens  int64     `json:"embedding_tokens"`
	PromptTokens     int64     `json:"prompt_tokens"`
	CompletionTokens int64     `json:"completion_tokens"`
	WeatherQueries   int64     `json:"weather_queries"`
	DocumentQueries  int64     `json:"document_queries"`
}

// Report snapshots the counters.
func (t *Tracker) Report() Report {
	return Report{
		StartedAt:        t.startedAt,
		EmbeddingTokens:  t.embeddingTokens.Load(),
		PromptTokens:     t.promptTokens.Load(),
		CompletionTokens: t.completionTokens.Load(),
		WeatherQueries:   t.weatherQueries.Load(),
		DocumentQueries:  t.documentQueries.Load(),
	}
}
