package storage

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
	"github.com/ecoleta-service/internal/domain/repository"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

type gcsStore struct {
	client *gcs.Client
	bucket string
	logger *zap.Logger
}

// NewGCSStore создает хранилище изображений в бакете Google Cloud Storage.
// Пустой credentialsFile означает Application Default Credentials.
func NewGCSStore(ctx context.Context, bucket, credentialsFile string, logger *zap.Logger) (repository.MediaRepository, func() error, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("storage.NewClient failed: %w", err)
	}

	logger.Info("GCS media store ready", zap.String("bucket", bucket))
	return &gcsStore{client: client, bucket: bucket, logger: logger}, client.Close, nil
}

func (s *gcsStore) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	// Ключи уникальны (uuid), поэтому объект создается только если его еще нет
	obj := s.client.Bucket(s.bucket).Object(key).If(gcs.Conditions{DoesNotExist: true})

	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=31536000, immutable"

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("write object bucket=%s object=%s: %w", s.bucket, key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close object bucket=%s object=%s: %w", s.bucket, key, err)
	}

	s.logger.Debug("Media stored in GCS",
		zap.String("bucket", s.bucket),
		zap.String("key", key))
	return nil
}

func (s *gcsStore) Delete(ctx context.Context, key string) error {
	err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if err != nil && !stderrors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("delete object bucket=%s object=%s: %w", s.bucket, key, err)
	}
	return nil
}
