package health

import "context"

// Checker probes an outbound dependency.
type Checker interface {
	HealthCheck(ctx context.Context) error
}

// Pinger checks cache availability.
type Pinger interface {
	Ping(ctx context.Context) error
}
