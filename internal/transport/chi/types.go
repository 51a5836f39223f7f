package chi

import (
	"github.com/sagarpimpale/weather-rag-agent/internal/domain"
	"github.com/sagarpimpale/weather-rag-agent/internal/usecase/health"
)

type queryRequest struct {
	Query string `json:"query"`
}

type queryResponse struct {
	Answer     string           `json:"answer"`
	Provenance string           `json:"provenance"`
	Sources    []sourceChunk    `json:"sources,omitempty"`
	Weather    *weatherSnapshot `json:"weather,omitempty"`
}

type sourceChunk struct {
	DocumentID string  `json:"document_id"`
	Index      int     `json:"index"`
	Score      float64 `json:"score"`
	Text       string  `json:"text"`
}

type weatherSnapshot struct {
	Place        string `json:"place"`
	TemperatureC string `json:"temperature_c"`
	FeelsLikeC   string `json:"feels_like_c"`
	Condition    string `json:"condition"`
	Humidity     string `json:"humidity"`
	WindSpeedMph string `json:"wind_speed_mph"`
}

type rebuildResponse struct {
	Status  string `json:"status"`
	Entries int    `json:"entries"`
}

type healthResponse struct {
	Status string                        `json:"status"`
	Checks map[string]health.CheckResult `json:"checks"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func answerToResponse(ans domain.Answer) queryResponse {
	resp := queryResponse{
		Answer:     ans.Text,
		Provenance: string(ans.Provenance),
	}

	if len(ans.Retrieval) > 0 {
		resp.Sources = make([]sourceChunk, len(ans.Retrieval))
		for i, sc := range ans.Retrieval {
			resp.Sources[i] = sourceChunk{
				DocumentID: sc.Chunk.DocumentID,
				Index:      sc.Chunk.Index,
				Score:      sc.Score,
				Text:       sc.Chunk.Text,
			}
		}
	}

	if ans.Weather != nil {
		resp.Weather = &weatherSnapshot{
			Place:        ans.Weather.Place,
			TemperatureC: ans.Weather.TemperatureC,
			FeelsLikeC:   ans.Weather.FeelsLikeC,
			Condition:    ans.Weather.Condition,
			Humidity:     ans.Weather.Humidity,
			WindSpeedMph: ans.Weather.WindSpeedMph,
		}
	}

	return resp
}
