package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks across the outbound dependencies.
type Service struct {
	embedding Checker
	llm       Checker
	weather   Checker
	cache     Pinger
}

// New creates a Service. Any dependency can be nil and is then skipped.
func New(embedding, llm, weather Checker, cache Pinger) *Service {
	return &Service{embedding: embedding, llm: llm, weather: weather, cache: cache}
}

// Check probes all configured components. A single failing check
// degrades the overall status; the service keeps answering what it can.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	probe := func(name string, err error) {
		if err != nil {
			checks[name] = CheckError
		} else {
			checks[name] = CheckOK
		}
	}

	if s.embedding != nil {
		probe("embedding", s.embedding.HealthCheck(ctx))
	}
	if s.llm != nil {
		probe("llm", s.llm.HealthCheck(ctx))
	}
	if s.weather != nil {
		probe("weather", s.weather.HealthCheck(ctx))
	}
	if s.cache != nil {
		probe("cache", s.cache.Ping(ctx))
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
