package health

import "context"

// DBPinger checks relational database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// IndexPinger checks vector index availability.
type IndexPinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
