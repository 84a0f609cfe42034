package usecase_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ecoleta-service/internal/domain"
	"github.com/ecoleta-service/internal/pkg/errors"
	"github.com/ecoleta-service/internal/usecase"
)

func TestCategoryCatalog(t *testing.T) {
	catalog := usecase.NewCategoryCatalog([]*domain.Category{
		{ID: 1, Title: "Lâmpadas", IconKey: "lampadas.svg"},
		nil,
		{ID: 2, Title: "Pilhas e Baterias", IconKey: "baterias.svg"},
		{ID: 1, Title: "Duplicate", IconKey: "dup.svg"},
	})

	t.Run("exists", func(t *testing.T) {
		assert.True(t, catalog.Exists(1))
		assert.True(t, catalog.Exists(2))
		assert.False(t, catalog.Exists(3))
		assert.False(t, catalog.Exists(0))
	})

	t.Run("get keeps first occurrence", func(t *testing.T) {
		cat, err := catalog.Get(1)
		require.NoError(t, err)
		assert.Equal(t, "Lâmpadas", cat.Title)
	})

	t.Run("get unknown", func(t *testing.T) {
		_, err := catalog.Get(42)
		assert.True(t, stderrors.Is(err, errors.ErrNotFound))
	})

	t.Run("all returns a copy", func(t *testing.T) {
		all := catalog.All()
		require.Len(t, all, 2)
		all[0].Title = "changed"

		cat, _ := catalog.Get(1)
		assert.Equal(t, "Lâmpadas", cat.Title)
		assert.Equal(t, "Lâmpadas", catalog.All()[0].Title)
	})
}

func TestLoadCategoryCatalog(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := &MockCategoryRepository{}
		repo.On("GetAll", mock.Anything).Return([]*domain.Category{
			{ID: 1, Title: "Lâmpadas", IconKey: "lampadas.svg"},
		}, nil)

		catalog, err := usecase.LoadCategoryCatalog(ctx, repo, logger)

		require.NoError(t, err)
		assert.True(t, catalog.Exists(1))
	})

	t.Run("empty catalog", func(t *testing.T) {
		repo := &MockCategoryRepository{}
		repo.On("GetAll", mock.Anything).Return([]*domain.Category{}, nil)

		_, err := usecase.LoadCategoryCatalog(ctx, repo, logger)

		assert.Error(t, err)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := &MockCategoryRepository{}
		repo.On("GetAll", mock.Anything).Return(nil, stderrors.New("db down"))

		_, err := usecase.LoadCategoryCatalog(ctx, repo, logger)

		assert.Error(t, err)
	})
}
