package router

import (
	"testing"

	"github.com/sagarpimpale/weather-rag-agent/internal/domain"
)

func TestClassify_WeatherCues(t *testing.T) {
	queries := []string{
		"What's the weather in London?",
		"Is it raining in Tokyo",
		"current temperature in Berlin",
		"forecast for Paris tomorrow",
		"how many degrees is it in Oslo",
		"Is it sunny in Madrid?",
	}
	for _, q := range queries {
		t.Run(q, func(t *testing.T) {
			if got := Classify(q); got != domain.RouteWeather {
				t.Errorf("Classify(%q) = %q, want %q", q, got, domain.RouteWeather)
			}
		})
	}
}

func TestClassify_DocumentCues(t *testing.T) {
	queries := []string{
		"What services does the company offer?",
		"Who are the main clients?",
		"Summarize the company profile",
		"What is the team's mission?",
		"What does the document say about healthcare?",
	}
	for _, q := range queries {
		t.Run(q, func(t *testing.T) {
			if got := Classify(q); got != domain.RouteDocumentQA {
				t.Errorf("Classify(%q) = %q, want %q", q, got, domain.RouteDocumentQA)
			}
		})
	}
}

func TestClassify_NoCuesFallsBackToDocuments(t *testing.T) {
	if got := Classify("tell me something interesting"); got != domain.RouteDocumentQA {
		t.Errorf("expected fallback to %q, got %q", domain.RouteDocumentQA, got)
	}
}

// A query matching both cue sets stays on the document path, which can
// report "not found" instead of hitting the weather source with a bogus
// place.
func TestClassify_BothCueSetsTieBreakToDocuments(t *testing.T) {
	q := "What does the company policy say about weather delays?"
	if got := Classify(q); got != domain.RouteDocumentQA {
		t.Errorf("Classify(%q) = %q, want %q", q, got, domain.RouteDocumentQA)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	q := "What's the weather in London?"
	first := Classify(q)
	for i := 0; i < 100; i++ {
		if got := Classify(q); got != first {
			t.Fatalf("classification changed between calls: %q then %q", first, got)
		}
	}
}

func TestClassify_CaseAndPunctuationInsensitive(t *testing.T) {
	if got := Classify("WEATHER, London!"); got != domain.RouteWeather {
		t.Errorf("expected weather route, got %q", got)
	}
}

func TestExtractPlace(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"What's the weather in London?", "London"},
		{"weather in New York", "New York"},
		{"forecast for Tokyo", "Tokyo"},
		{"temperature at the airport in Oslo", "Oslo"},
		{"Is it raining in San Francisco?", "San Francisco"},
		{"London weather", "weather"},
		{"weather London", "London"},
		{"weather New York", "New York"},
		{"", ""},
	}
	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			if got := ExtractPlace(tc.query); got != tc.want {
				t.Errorf("ExtractPlace(%q) = %q, want %q", tc.query, got, tc.want)
			}
		})
	}
}

// "weather" introduces the place when no in/for/at follows, so a bare
// "weather <place>" query keeps every word of a multi-word place.
func TestExtractPlace_WeatherAsIndicatorKeepsMultiWordPlace(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"weather New York", "New York"},
		{"What is the weather San Francisco?", "San Francisco"},
		{"weather in New York", "New York"}, // "in" still wins over "weather"
	}
	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			if got := ExtractPlace(tc.query); got != tc.want {
				t.Errorf("ExtractPlace(%q) = %q, want %q", tc.query, got, tc.want)
			}
		})
	}
}

func TestExtractPlace_TrailingIndicatorFallsBackToLastWord(t *testing.T) {
	// "in" with nothing after it is not a usable indicator.
	if got := ExtractPlace("what is it like in"); got != "in" {
		t.Errorf("got %q, want %q", got, "in")
	}
}
