package ports

import "context"

// WatermarkStore is durable storage addressed by (container, name) holding
// one text document per record. Implemented by the memory, file, S3 and
// Azure Blob adapters.
type WatermarkStore interface {
	// Exists reports whether a record exists at container/key.
	Exists(ctx context.Context, container, key string) (bool, error)

	// Read returns the full contents of the record.
	// Returns domain.ErrNotFound if the record does not exist.
	Read(ctx context.Context, container, key string) (string, error)

	// Write replaces the record with contents. No append, no versioning.
	Write(ctx context.Context, container, key, contents string) error
}
