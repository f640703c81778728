package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// UpstreamChecker checks an upstream API.
type UpstreamChecker interface {
	HealthCheck(ctx context.Context) error
}
