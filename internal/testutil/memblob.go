package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/storebase/catalog/pkg/blob"
)

// MemBlob is an in-memory blob.Store that records uploads and deletes and
// supports failure injection.
type MemBlob struct {
	mu sync.Mutex

	// Failure injection.
	UploadErr error
	DeleteErr error

	// Tracking.
	Uploaded []string // staged local paths passed to Upload
	Deleted  []string // durable URLs passed to Delete

	seq int
}

// NewMemBlob creates an empty in-memory blob store.
func NewMemBlob() *MemBlob {
	return &MemBlob{}
}

// Upload implements blob.Store. URLs are unique per call so re-uploads of
// the same file never alias.
func (b *MemBlob) Upload(_ context.Context, localPath string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.UploadErr != nil {
		return "", fmt.Errorf("%w: %v", blob.ErrUpload, b.UploadErr)
	}
	b.seq++
	b.Uploaded = append(b.Uploaded, localPath)
	return fmt.Sprintf("memblob://photos/%d-%s", b.seq, filepath.Base(localPath)), nil
}

// Delete implements blob.Store.
func (b *MemBlob) Delete(_ context.Context, url string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.DeleteErr != nil {
		return b.DeleteErr
	}
	b.Deleted = append(b.Deleted, url)
	return nil
}

// UploadCount returns the number of successful uploads.
func (b *MemBlob) UploadCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.Uploaded)
}

// DeletedURLs returns a copy of the deleted URL list.
func (b *MemBlob) DeletedURLs() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.Deleted))
	copy(out, b.Deleted)
	return out
}
