// Package wttr is the weather source client. It speaks the wttr.in
// JSON interface (format=j1) and normalizes the current-condition
// block into a domain.WeatherReport.
package wttr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sagarpimpale/weather-rag-agent/internal/domain"
	"github.com/sagarpimpale/weather-rag-agent/internal/metrics"
)

// DefaultTimeout bounds a single weather lookup.
const DefaultTimeout = 15 * time.Second

// Client fetches current conditions for a place.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	logger    *zap.Logger
}

// Config holds the weather source settings. The service requires a
// descriptive client identifier on every request; UserAgent must not
// be empty.
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Logger    *zap.Logger
}

// NewClient creates a weather source client.
func NewClient(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		http:      &http.Client{Timeout: timeout},
		logger:    cfg.Logger,
	}
}

// j1Response mirrors the fields of the format=j1 payload we consume.
type j1Response struct {
	CurrentCondition []struct {
		TempC       string `json:"temp_C"`
		FeelsLikeC  string `json:"FeelsLikeC"`
		Humidity    string `json:"humidity"`
		WeatherDesc []struct {
			Value string `json:"value"`
		} `json:"weatherDesc"`
		WindspeedMiles string `json:"windspeedMiles"`
	} `json:"current_condition"`
}

// Current fetches and normalizes current conditions for place.
// Unknown place: domain.ErrPlaceNotFound (do not retry). Transient
// failure (timeout, network, 5xx, malformed body):
// domain.ErrWeatherUnavailable (caller may retry once).
func (c *Client) Current(ctx context.Context, place string) (domain.WeatherReport, error) {
	place = NormalizePlace(place)
	if place == "" {
		metrics.WeatherLookupsTotal.WithLabelValues("not_found").Inc()
		return domain.WeatherReport{}, fmt.Errorf("empty place name: %w", domain.ErrPlaceNotFound)
	}

	reqURL := c.baseURL + "/" + url.PathEscape(place) + "?format=j1"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.WeatherReport{}, fmt.Errorf("build weather request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.WeatherLookupsTotal.WithLabelValues("unavailable").Inc()
		c.logger.Warn("Weather request failed", zap.String("place", place), zap.Error(err))
		return domain.WeatherReport{}, fmt.Errorf("weather request: %v: %w", err, domain.ErrWeatherUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		metrics.WeatherLookupsTotal.WithLabelValues("not_found").Inc()
		return domain.WeatherReport{}, fmt.Errorf("place %q: %w", place, domain.ErrPlaceNotFound)
	case resp.StatusCode != http.StatusOK:
		metrics.WeatherLookupsTotal.WithLabelValues("unavailable").Inc()
		return domain.WeatherReport{}, fmt.Errorf(
			"weather source status %d: %w", resp.StatusCode, domain.ErrWeatherUnavailable)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		metrics.WeatherLookupsTotal.WithLabelValues("unavailable").Inc()
		return domain.WeatherReport{}, fmt.Errorf("read weather response: %v: %w", err, domain.ErrWeatherUnavailable)
	}

	var parsed j1Response
	if err := json.Unmarshal(body, &parsed); err != nil {
		metrics.WeatherLookupsTotal.WithLabelValues("unavailable").Inc()
		return domain.WeatherReport{}, fmt.Errorf("decode weather response: %v: %w", err, domain.ErrWeatherUnavailable)
	}
	if len(parsed.CurrentCondition) == 0 {
		metrics.WeatherLookupsTotal.WithLabelValues("not_found").Inc()
		return domain.WeatherReport{}, fmt.Errorf("no current conditions for %q: %w", place, domain.ErrPlaceNotFound)
	}

	cur := parsed.CurrentCondition[0]
	condition := ""
	if len(cur.WeatherDesc) > 0 {
		condition = cur.WeatherDesc[0].Value
	}

	metrics.WeatherLookupsTotal.WithLabelValues("ok").Inc()

	return domain.WeatherReport{
		Place:        titleCase(place),
		TemperatureC: cur.TempC,
		FeelsLikeC:   cur.FeelsLikeC,
		Condition:    condition,
		Humidity:     cur.Humidity,
		WindSpeedMph: cur.WindspeedMiles,
	}, nil
}

// HealthCheck verifies the weather source is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("weather source unreachable: %w", err)
	}
	_ = resp.Body.Close()
	return nil
}

// NormalizePlace trims the place name and collapses inner whitespace.
func NormalizePlace(place string) string {
	return strings.Join(strings.Fields(place), " ")
}

// titleCase uppercases the first letter of each word, matching how the
// original surfaced place names ("london" -> "London").
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 {
			r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		}
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
