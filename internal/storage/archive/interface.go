// Package archive persists analysis results as JSON documents on a
// pluggable cold-storage backend.
package archive

import "context"

// Storage is a flat blob store keyed by slash-separated paths,
// whatever the backend.
type Storage interface {
	// Write stores data under path, replacing any previous content.
	Write(ctx context.Context, path string, data []byte) error

	// Read returns the content stored under path.
	Read(ctx context.Context, path string) ([]byte, error)

	// List returns every stored path under the prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	// Delete removes path.
	Delete(ctx context.Context, path string) error

	// Exists reports whether path holds content.
	Exists(ctx context.Context, path string) (bool, error)
}
