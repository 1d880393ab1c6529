// Package blob defines the object-storage contract used for product
// photos, along with a MinIO-backed implementation.
//
// Upload takes a locally staged file and returns a durable URL that is
// persisted on the product. Delete releases a previously uploaded object by
// that URL; it is best-effort by contract and callers log failures instead
// of propagating them.
package blob

import (
	"context"
	"errors"
)

// ErrUpload is returned when an upload fails.
var ErrUpload = errors.New("blob upload failed")

// Store is the external blob-store collaborator.
type Store interface {
	// Upload stores the file at localPath and returns its durable URL.
	Upload(ctx context.Context, localPath string) (string, error)

	// Delete removes a previously uploaded object given its durable URL.
	// Failures are expected to be logged by the caller, not propagated.
	Delete(ctx context.Context, url string) error
}
