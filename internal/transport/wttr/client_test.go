package wttr

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/sagarpimpale/weather-rag-agent/internal/domain"
)

const j1Payload = `{
	"current_condition": [{
		"temp_C": "18",
		"FeelsLikeC": "16",
		"humidity": "72",
		"weatherDesc": [{"value": "Partly cloudy"}],
		"windspeedMiles": "9"
	}]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(&Config{
		BaseURL:   srv.URL,
		UserAgent: "test-agent/1.0",
		Logger:    zap.NewNop(),
	})
	return client
}

func TestCurrent_ParsesConditions(t *testing.T) {
	var gotPath, gotQuery, gotUA string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(j1Payload))
	})

	report, err := client.Current(context.Background(), "london")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/london" {
		t.Errorf("path = %q, want %q", gotPath, "/london")
	}
	if gotQuery != "format=j1" {
		t.Errorf("query = %q, want %q", gotQuery, "format=j1")
	}
	if gotUA != "test-agent/1.0" {
		t.Errorf("user agent = %q", gotUA)
	}

	if report.Place != "London" {
		t.Errorf("place = %q, want %q", report.Place, "London")
	}
	if report.TemperatureC != "18" || report.FeelsLikeC != "16" {
		t.Errorf("temperature = %q / %q", report.TemperatureC, report.FeelsLikeC)
	}
	if report.Condition != "Partly cloudy" {
		t.Errorf("condition = %q", report.Condition)
	}
	if report.Humidity != "72" {
		t.Errorf("humidity = %q", report.Humidity)
	}
	if report.WindSpeedMph != "9" {
		t.Errorf("wind speed = %q", report.WindSpeedMph)
	}
}

func TestCurrent_EmptyPlace(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for empty place")
	})

	_, err := client.Current(context.Background(), "   ")
	if !errors.Is(err, domain.ErrPlaceNotFound) {
		t.Errorf("expected ErrPlaceNotFound, got %v", err)
	}
}

func TestCurrent_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.Current(context.Background(), "atlantis")
	if !errors.Is(err, domain.ErrPlaceNotFound) {
		t.Errorf("expected ErrPlaceNotFound, got %v", err)
	}
	if errors.Is(err, domain.ErrWeatherUnavailable) {
		t.Error("not-found must not be retryable")
	}
}

func TestCurrent_NoCurrentCondition(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"current_condition": []}`))
	})

	_, err := client.Current(context.Background(), "nowhere")
	if !errors.Is(err, domain.ErrPlaceNotFound) {
		t.Errorf("expected ErrPlaceNotFound, got %v", err)
	}
}

func TestCurrent_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Current(context.Background(), "london")
	if !errors.Is(err, domain.ErrWeatherUnavailable) {
		t.Errorf("expected ErrWeatherUnavailable, got %v", err)
	}
}

func TestCurrent_MalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})

	_, err := client.Current(context.Background(), "london")
	if !errors.Is(err, domain.ErrWeatherUnavailable) {
		t.Errorf("expected ErrWeatherUnavailable, got %v", err)
	}
}

func TestCurrent_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(&Config{BaseURL: srv.URL, UserAgent: "test", Logger: zap.NewNop()})
	_, err := client.Current(context.Background(), "london")
	if !errors.Is(err, domain.ErrWeatherUnavailable) {
		t.Errorf("expected ErrWeatherUnavailable, got %v", err)
	}
}

func TestCurrent_PlaceWithSpaces(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(j1Payload))
	})

	report, err := client.Current(context.Background(), "  new   york ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/new%20york" {
		t.Errorf("path = %q, want %q", gotPath, "/new%20york")
	}
	if report.Place != "New York" {
		t.Errorf("place = %q, want %q", report.Place, "New York")
	}
}

func TestNormalizePlace(t *testing.T) {
	tests := []struct{ in, want string }{
		{"London", "London"},
		{"  London  ", "London"},
		{"new   york", "new york"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range tests {
		if got := NormalizePlace(tc.in); got != tc.want {
			t.Errorf("NormalizePlace(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
