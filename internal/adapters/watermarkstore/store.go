// Package watermarkstore implements ports.WatermarkStore on top of process
// memory, the local filesystem, Amazon S3 and Azure Blob Storage.
//
// Records are addressed by (container, key). The container maps to a
// directory, S3 bucket or blob container; the key is the object name inside
// it and may contain "/" separators. Every backend stores the watermark as a
// single small text document that is replaced on each write.
//
// Guarded wraps any backend with a circuit breaker, a rate limiter,
// tracing spans and operation metrics, and reports the breaker state as a
// health check.
package watermarkstore

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/jsamuelsen11/go-job-core/internal/domain"
	"github.com/jsamuelsen11/go-job-core/internal/ports"
)

// Backend names.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendS3     = "s3"
	BackendAzure  = "azure"
)

var (
	_ ports.WatermarkStore = (*Memory)(nil)
	_ ports.WatermarkStore = (*File)(nil)
	_ ports.WatermarkStore = (*S3)(nil)
	_ ports.WatermarkStore = (*Azure)(nil)
	_ ports.WatermarkStore = (*Guarded)(nil)
	_ ports.HealthChecker  = (*Guarded)(nil)
)

// validateRef rejects addresses that are empty or would escape the
// container.
func validateRef(container, key string) error {
	var errs []error
	if container == "" {
		errs = append(errs, errors.New("container must not be empty"))
	} else if strings.ContainsAny(container, `/\`) || container == "." || container == ".." {
		errs = append(errs, fmt.Errorf("container %q must be a single path segment", container))
	}
	if key == "" {
		errs = append(errs, errors.New("key must not be empty"))
	} else if clean := path.Clean(key); clean != key || strings.HasPrefix(key, "/") || clean == ".." || strings.HasPrefix(clean, "../") {
		errs = append(errs, fmt.Errorf("key %q must be a clean relative path", key))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidArgument, err)
	}
	return nil
}

func notFound(container, key string) error {
	return fmt.Errorf("watermark %s/%s: %w", container, key, domain.ErrNotFound)
}
