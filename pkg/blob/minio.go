package blob

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// MinIOConfig holds connection settings for a MinIO (or S3-compatible)
// endpoint.
type MinIOConfig struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// MinIO is a Store backed by a MinIO bucket. Uploaded objects are publicly
// addressable under the bucket, so the returned URL is durable as long as
// the object exists.
type MinIO struct {
	cl     *minio.Client
	bucket string
	scheme string
	host   string
	logger zerolog.Logger
}

// NewMinIO creates a MinIO blob store.
func NewMinIO(cfg MinIOConfig) (*MinIO, error) {
	cl, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, err
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return &MinIO{
		cl:     cl,
		bucket: cfg.Bucket,
		scheme: scheme,
		host:   cfg.Endpoint,
		logger: log.With().Str("component", "blob-minio").Logger(),
	}, nil
}

// Upload implements Store. The object key keeps the staged file's extension
// but is otherwise random, so re-uploads of the same filename never collide.
func (m *MinIO) Upload(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %v", ErrUpload, localPath, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("%w: stat %s: %v", ErrUpload, localPath, err)
	}

	key := objectKey(localPath)
	_, err = m.cl.PutObject(ctx, m.bucket, key, f, st.Size(), minio.PutObjectOptions{
		ContentType: contentTypeFor(localPath),
	})
	if err != nil {
		return "", fmt.Errorf("%w: put %s: %v", ErrUpload, key, err)
	}

	objURL := m.objectURL(key)
	m.logger.Debug().Str("key", key).Str("url", objURL).Msg("Photo uploaded")
	return objURL, nil
}

// Delete implements Store. The object key is resolved back out of the URL
// produced by Upload.
func (m *MinIO) Delete(ctx context.Context, rawURL string) error {
	key, err := m.keyFromURL(rawURL)
	if err != nil {
		return err
	}
	return m.cl.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
}

func (m *MinIO) objectURL(key string) string {
	return fmt.Sprintf("%s://%s/%s/%s", m.scheme, m.host, m.bucket, key)
}

func (m *MinIO) keyFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("malformed blob url %q: %w", rawURL, err)
	}
	prefix := "/" + m.bucket + "/"
	if !strings.HasPrefix(u.Path, prefix) {
		return "", fmt.Errorf("blob url %q does not belong to bucket %q", rawURL, m.bucket)
	}
	return strings.TrimPrefix(u.Path, prefix), nil
}

func objectKey(localPath string) string {
	return "products/" + uuid.NewString() + filepath.Ext(localPath)
}

func contentTypeFor(localPath string) string {
	switch strings.ToLower(filepath.Ext(localPath)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
