package ports

import "context"

// HealthChecker reports whether a dependency the runner needs is reachable.
// The guarded watermark store is the only checker today.
type HealthChecker interface {
	// Name keys the checker's result in readiness responses, e.g. "watermark-s3".
	Name() string

	// HealthCheck returns nil when the dependency is usable. It must return
	// once ctx is done.
	HealthCheck(ctx context.Context) error
}

// HealthRegistry collects checkers for the readiness endpoint.
type HealthRegistry interface {
	Register(checker HealthChecker)

	// CheckAll runs every checker and returns one entry per name. A nil
	// entry means healthy.
	CheckAll(ctx context.Context) map[string]error
}
