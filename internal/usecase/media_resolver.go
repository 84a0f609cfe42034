package usecase

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ecoleta-service/internal/domain/repository"
	"github.com/ecoleta-service/internal/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// acceptedImageTypes - допустимые форматы изображений и расширения ключей
var acceptedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// MediaResolver строит URL изображений и сохраняет загруженные файлы
type MediaResolver struct {
	store   repository.MediaRepository
	baseURL string
	logger  *zap.Logger
}

func NewMediaResolver(store repository.MediaRepository, baseURL string, logger *zap.Logger) *MediaResolver {
	return &MediaResolver{
		store:   store,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Resolve возвращает URL вида {base}/uploads/{key}. Формат стабилен:
// сохраненные ключи - единственная долговременная ссылка на файлы.
func (m *MediaResolver) Resolve(imageKey string) string {
	return fmt.Sprintf("%s/uploads/%s", m.baseURL, url.PathEscape(imageKey))
}

// DetectImageType определяет MIME тип по содержимому и проверяет, что формат допустим
func DetectImageType(data []byte) (string, bool) {
	contentType := http.DetectContentType(data)
	_, ok := acceptedImageTypes[contentType]
	return contentType, ok
}

// Store сохраняет изображение и возвращает сгенерированный ключ
func (m *MediaResolver) Store(ctx context.Context, data []byte, contentType string) (string, error) {
	ext, ok := acceptedImageTypes[contentType]
	if !ok {
		return "", errors.Validation("image", "image_format", fmt.Sprintf("unsupported image type %q", contentType))
	}

	key := uuid.NewString() + ext
	if err := m.store.Put(ctx, key, bytes.NewReader(data), contentType); err != nil {
		m.logger.Error("Failed to store media",
			zap.String("key", key),
			zap.Int("size", len(data)),
			zap.Error(err),
		)
		return "", errors.ErrStorage.Wrap(err)
	}

	return key, nil
}

// Discard удаляет осиротевший файл; ошибки только логируются
func (m *MediaResolver) Discard(ctx context.Context, imageKey string) {
	if err := m.store.Delete(ctx, imageKey); err != nil {
		m.logger.Warn("Failed to discard orphaned media",
			zap.String("key", imageKey),
			zap.Error(err),
		)
		return
	}
	m.logger.Info("Orphaned media discarded", zap.String("key", imageKey))
}
