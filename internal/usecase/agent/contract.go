package agent

import (
	"context"

	"github.com/sagarpimpale/weather-rag-agent/internal/domain"
)

// WeatherSource fetches current conditions for a place.
type WeatherSource interface {
	Current(ctx context.Context, place string) (domain.WeatherReport, error)
}

// Retriever finds the chunks most similar to the query.
type Retriever interface {
	Retrieve(ctx context.Context, query string) (domain.RetrievalResult, error)
}

// Synthesizer produces the final answer from a query plus context.
type Synthesizer interface {
	FromChunks(ctx context.Context, query string, retrieval domain.RetrievalResult) (domain.Answer, error)
	FromWeather(ctx context.Context, query string, report domain.WeatherReport) (domain.Answer, error)
}

// UsageRecorder is the local interface for usage accounting.
type UsageRecorder interface {
	RecordQuery(route domain.Route)
}
