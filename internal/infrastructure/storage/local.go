package storage

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ecoleta-service/internal/domain/repository"
	"go.uber.org/zap"
)

const mediaFileMode os.FileMode = 0o644

type localStore struct {
	dir    string
	logger *zap.Logger
}

// NewLocalStore создает файловое хранилище изображений в каталоге dir
func NewLocalStore(dir string, logger *zap.Logger) (repository.MediaRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	logger.Info("Local media store ready", zap.String("dir", dir))
	return &localStore{dir: dir, logger: logger}, nil
}

func (s *localStore) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	// Пишем во временный файл и переименовываем, чтобы не оставлять частично записанный объект
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, readerWithContext(ctx, r)); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write media: %w", err)
	}
	// CreateTemp создает файл с правами 0600
	if err := tmp.Chmod(mediaFileMode); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set media permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close media file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move media into place: %w", err)
	}

	s.logger.Debug("Media stored",
		zap.String("key", key),
		zap.String("content_type", contentType))
	return nil
}

func (s *localStore) Delete(ctx context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !stderrors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete media: %w", err)
	}
	return nil
}

func (s *localStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid media key %q", key)
	}
	return filepath.Join(s.dir, key), nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return ctxReader{ctx: ctx, r: r}
}
