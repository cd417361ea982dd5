package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"skillbox/internal/config"
	"skillbox/internal/logging"
	"skillbox/internal/textutil"
)

// ErrDisabled reports a publish request while storage is not configured.
var ErrDisabled = errors.New("storage publishing disabled")

// Uploader stores a local artifact and returns a URL for it.
type Uploader interface {
	Publish(ctx context.Context, localPath, kind string) (string, error)
}

// objectStore is the subset of the minio client the publisher uses.
type objectStore interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	FPutObject(ctx context.Context, bucket, object, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// S3Publisher uploads artifacts to an S3-compatible bucket.
type S3Publisher struct {
	store   objectStore
	cfg     config.Storage
	logger  *slog.Logger
	now     func() time.Time
	newUUID func() string
}

// NewS3Publisher connects to the configured endpoint and checks that the
// bucket exists.
func NewS3Publisher(ctx context.Context, cfg config.Storage, logger *slog.Logger) (*S3Publisher, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}
	return newPublisher(ctx, client, cfg, logger)
}

func newPublisher(ctx context.Context, store objectStore, cfg config.Storage, logger *slog.Logger) (*S3Publisher, error) {
	exists, err := store.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist", cfg.Bucket)
	}
	return &S3Publisher{
		store:   store,
		cfg:     cfg,
		logger:  logging.NewComponentLogger(logger, "publish"),
		now:     time.Now,
		newUUID: uuid.NewString,
	}, nil
}

// Publish uploads localPath under "<prefix>/<kind>/<date>/<uuid>-<name>".
func (p *S3Publisher) Publish(ctx context.Context, localPath, kind string) (string, error) {
	if _, err := os.Stat(localPath); err != nil {
		return "", fmt.Errorf("publish %s: %w", localPath, err)
	}
	key := p.ObjectKey(localPath, kind)
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(localPath)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	info, err := p.store.FPutObject(ctx, p.cfg.Bucket, key, localPath, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"uploaded-at": p.now().UTC().Format(time.RFC3339)},
	})
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	publicURL := p.PublicURL(key)
	p.logger.Info("artifact published", "key", key, "size", info.Size, "url", publicURL)
	return publicURL, nil
}

// ObjectKey builds the storage key for a local file.
func (p *S3Publisher) ObjectKey(localPath, kind string) string {
	base := filepath.Base(localPath)
	ext := strings.ToLower(filepath.Ext(base))
	name := textutil.SanitizeToken(strings.TrimSuffix(base, filepath.Ext(base))) + ext
	parts := []string{
		strings.Trim(p.cfg.Prefix, "/"),
		textutil.SanitizeToken(kind),
		p.now().UTC().Format("2006/01/02"),
		p.newUUID() + "-" + name,
	}
	return strings.TrimPrefix(path.Join(parts...), "/")
}

// PublicURL returns the URL for key, using public_base_url when set.
func (p *S3Publisher) PublicURL(key string) string {
	escaped := escapeKey(key)
	if base := strings.TrimRight(p.cfg.PublicBaseURL, "/"); base != "" {
		return base + "/" + escaped
	}
	scheme := "https"
	if !p.cfg.UseSSL {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, p.cfg.Endpoint, p.cfg.Bucket, escaped)
}

func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}
