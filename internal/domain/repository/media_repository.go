package repository

import (
	"context"
	"io"
)

// MediaRepository - хранилище бинарных объектов (изображений) по ключу
type MediaRepository interface {
	// Put записывает объект под ключом key
	Put(ctx context.Context, key string, r io.Reader, contentType string) error

	// Delete удаляет объект; отсутствие объекта не считается ошибкой
	Delete(ctx context.Context, key string) error
}
