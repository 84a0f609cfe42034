package usecase_test

import (
	"context"
	stderrors "errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ecoleta-service/internal/domain"
	"github.com/ecoleta-service/internal/pkg/errors"
	"github.com/ecoleta-service/internal/usecase"
	"github.com/ecoleta-service/internal/usecase/dto"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

func testCatalog() *usecase.CategoryCatalog {
	cats := make([]*domain.Category, 0, len(domain.DefaultCategories))
	for i := range domain.DefaultCategories {
		cat := domain.DefaultCategories[i]
		cats = append(cats, &cat)
	}
	return usecase.NewCategoryCatalog(cats)
}

func validRequest() dto.CreatePointRequest {
	return dto.CreatePointRequest{
		Name:      "Eco A",
		Email:     "a@x.com",
		Whatsapp:  "5511999999999",
		Latitude:  -23.55,
		Longitude: -46.63,
		State:     "SP",
		City:      "São Paulo",
		Items:     []int64{1, 4},
		Image:     &dto.ImageUpload{Filename: "eco.png", Data: pngHeader},
	}
}

func assertCode(t *testing.T, err error, code string) *errors.AppError {
	t.Helper()
	require.Error(t, err)
	appErr, ok := errors.As(err)
	require.True(t, ok, "expected AppError, got %T", err)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

func TestPointRegistrationUseCase_Register(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("success publishes event and returns summary", func(t *testing.T) {
		mockPoints := &MockPointRepository{}
		mockMedia := &MockMediaRepository{}
		mockStream := &MockStreamRepository{}

		media := usecase.NewMediaResolver(mockMedia, "http://localhost:3333/", logger)
		uc := usecase.NewPointRegistrationUseCase(mockPoints, testCatalog(), media, mockStream, domain.StreamPointCreated, logger)

		mockMedia.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
			return strings.HasSuffix(key, ".png")
		}), mock.Anything, "image/png").Return(nil)
		mockPoints.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Point) bool {
			return p.Name == "Eco A" && p.State == "SP" && strings.HasSuffix(p.ImageKey, ".png")
		}), []int64{1, 4}).Return(int64(7), nil)
		mockStream.On("Publish", mock.Anything, domain.StreamPointCreated, mock.MatchedBy(func(e domain.PointCreatedEvent) bool {
			return e.PointID == 7 && assert.ObjectsAreEqual([]int64{1, 4}, e.CategoryIDs)
		})).Return("1-0", nil)

		summary, err := uc.Register(ctx, validRequest())

		require.NoError(t, err)
		assert.Equal(t, int64(7), summary.ID)
		assert.Equal(t, "SP", summary.State)
		assert.True(t, strings.HasPrefix(summary.ImageURL, "http://localhost:3333/uploads/"))
		assert.True(t, strings.HasSuffix(summary.ImageURL, summary.Image))
		mockPoints.AssertExpectations(t)
		mockMedia.AssertExpectations(t)
		mockStream.AssertExpectations(t)
	})

	t.Run("normalizes fields and collapses duplicate items", func(t *testing.T) {
		mockPoints := &MockPointRepository{}
		mockMedia := &MockMediaRepository{}
		media := usecase.NewMediaResolver(mockMedia, "http://localhost:3333", logger)
		uc := usecase.NewPointRegistrationUseCase(mockPoints, testCatalog(), media, nil, "", logger)

		req := validRequest()
		req.Name = "  Eco A  "
		req.State = "sp"
		req.Items = []int64{4, 1, 4, 1}

		mockMedia.On("Put", mock.Anything, mock.Anything, mock.Anything, "image/png").Return(nil)
		mockPoints.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Point) bool {
			return p.Name == "Eco A" && p.State == "SP"
		}), []int64{4, 1}).Return(int64(1), nil)

		_, err := uc.Register(ctx, req)

		require.NoError(t, err)
		mockPoints.AssertExpectations(t)
	})

	t.Run("storage failure writes nothing", func(t *testing.T) {
		mockPoints := &MockPointRepository{}
		mockMedia := &MockMediaRepository{}
		media := usecase.NewMediaResolver(mockMedia, "http://localhost:3333", logger)
		uc := usecase.NewPointRegistrationUseCase(mockPoints, testCatalog(), media, nil, "", logger)

		mockMedia.On("Put", mock.Anything, mock.Anything, mock.Anything, "image/png").Return(stderrors.New("disk full"))

		summary, err := uc.Register(ctx, validRequest())

		assert.Nil(t, summary)
		assertCode(t, err, errors.CodeStorage)
		mockPoints.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("persistence failure discards stored image", func(t *testing.T) {
		mockPoints := &MockPointRepository{}
		mockMedia := &MockMediaRepository{}
		mockStream := &MockStreamRepository{}
		media := usecase.NewMediaResolver(mockMedia, "http://localhost:3333", logger)
		uc := usecase.NewPointRegistrationUseCase(mockPoints, testCatalog(), media, mockStream, domain.StreamPointCreated, logger)

		var storedKey string
		mockMedia.On("Put", mock.Anything, mock.Anything, mock.Anything, "image/png").
			Run(func(args mock.Arguments) { storedKey = args.String(1) }).
			Return(nil)
		mockPoints.On("Create", mock.Anything, mock.Anything, []int64{1, 4}).
			Return(int64(0), stderrors.New("connection reset"))
		mockMedia.On("Delete", mock.Anything, mock.Anything).Return(nil)

		summary, err := uc.Register(ctx, validRequest())

		assert.Nil(t, summary)
		assertCode(t, err, errors.CodePersistence)
		mockMedia.AssertCalled(t, "Delete", mock.Anything, storedKey)
		mockStream.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("store constraint error is returned unchanged", func(t *testing.T) {
		mockPoints := &MockPointRepository{}
		mockMedia := &MockMediaRepository{}
		media := usecase.NewMediaResolver(mockMedia, "http://localhost:3333", logger)
		uc := usecase.NewPointRegistrationUseCase(mockPoints, testCatalog(), media, nil, "", logger)

		mockMedia.On("Put", mock.Anything, mock.Anything, mock.Anything, "image/png").Return(nil)
		mockPoints.On("Create", mock.Anything, mock.Anything, mock.Anything).
			Return(int64(0), errors.Constraint(errors.RuleUnknownCategory, "category removed"))
		mockMedia.On("Delete", mock.Anything, mock.Anything).Return(stderrors.New("already gone"))

		_, err := uc.Register(ctx, validRequest())

		appErr := assertCode(t, err, errors.CodeConstraintViolation)
		assert.Equal(t, errors.RuleUnknownCategory, appErr.Details["rule"])
	})

	t.Run("publish failure does not fail registration", func(t *testing.T) {
		mockPoints := &MockPointRepository{}
		mockMedia := &MockMediaRepository{}
		mockStream := &MockStreamRepository{}
		media := usecase.NewMediaResolver(mockMedia, "http://localhost:3333", logger)
		uc := usecase.NewPointRegistrationUseCase(mockPoints, testCatalog(), media, mockStream, domain.StreamPointCreated, logger)

		mockMedia.On("Put", mock.Anything, mock.Anything, mock.Anything, "image/png").Return(nil)
		mockPoints.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(int64(3), nil)
		mockStream.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return("", stderrors.New("redis down"))

		summary, err := uc.Register(ctx, validRequest())

		require.NoError(t, err)
		assert.Equal(t, int64(3), summary.ID)
	})
}

func TestPointRegistrationUseCase_Validation(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(r *dto.CreatePointRequest)
		code   string
		field  string
		rule   string
	}{
		{"missing name", func(r *dto.CreatePointRequest) { r.Name = "   " }, errors.CodeValidation, "name", ""},
		{"missing email", func(r *dto.CreatePointRequest) { r.Email = "" }, errors.CodeValidation, "email", ""},
		{"missing whatsapp", func(r *dto.CreatePointRequest) { r.Whatsapp = "" }, errors.CodeValidation, "whatsapp", ""},
		{"malformed email", func(r *dto.CreatePointRequest) { r.Email = "not-an-email" }, errors.CodeValidation, "email", ""},
		{"latitude out of range", func(r *dto.CreatePointRequest) { r.Latitude = 91 }, errors.CodeValidation, "latitude", ""},
		{"latitude NaN", func(r *dto.CreatePointRequest) { r.Latitude = math.NaN() }, errors.CodeValidation, "latitude", ""},
		{"longitude out of range", func(r *dto.CreatePointRequest) { r.Longitude = -180.5 }, errors.CodeValidation, "longitude", ""},
		{"longitude infinite", func(r *dto.CreatePointRequest) { r.Longitude = math.Inf(1) }, errors.CodeValidation, "longitude", ""},
		{"state too long", func(r *dto.CreatePointRequest) { r.State = "SPA" }, errors.CodeValidation, "state", ""},
		{"state with digits", func(r *dto.CreatePointRequest) { r.State = "S1" }, errors.CodeValidation, "state", ""},
		{"missing city", func(r *dto.CreatePointRequest) { r.City = " " }, errors.CodeValidation, "city", ""},
		{"empty items", func(r *dto.CreatePointRequest) { r.Items = nil }, errors.CodeConstraintViolation, "", errors.RuleEmptyCategories},
		{"unknown item", func(r *dto.CreatePointRequest) { r.Items = []int64{1, 99} }, errors.CodeConstraintViolation, "", errors.RuleUnknownCategory},
		{"malformed items", func(r *dto.CreatePointRequest) {
			r.Items = nil
			r.ItemsMalformed = true
		}, errors.CodeValidation, "items", "integer_list"},
		{"missing image", func(r *dto.CreatePointRequest) { r.Image = nil }, errors.CodeValidation, "image", ""},
		{"oversized image", func(r *dto.CreatePointRequest) {
			r.Image = &dto.ImageUpload{Filename: "big.png", TooLarge: true}
		}, errors.CodeValidation, "image", "max_size"},
		{"unreadable image", func(r *dto.CreatePointRequest) {
			r.Image = &dto.ImageUpload{Filename: "a.png", Unreadable: true}
		}, errors.CodeValidation, "image", "readable"},
		{"empty image", func(r *dto.CreatePointRequest) { r.Image = &dto.ImageUpload{} }, errors.CodeValidation, "image", ""},
		{"not an image", func(r *dto.CreatePointRequest) {
			r.Image = &dto.ImageUpload{Filename: "a.png", Data: []byte("plain text pretending")}
		}, errors.CodeValidation, "image", ""},
		{"first violation wins", func(r *dto.CreatePointRequest) {
			r.Name = ""
			r.Latitude = 200
			r.Items = nil
		}, errors.CodeValidation, "name", ""},
		{"name checked before malformed items", func(r *dto.CreatePointRequest) {
			r.Name = ""
			r.ItemsMalformed = true
		}, errors.CodeValidation, "name", "required"},
		{"malformed items checked before oversized image", func(r *dto.CreatePointRequest) {
			r.ItemsMalformed = true
			r.Image = &dto.ImageUpload{TooLarge: true}
		}, errors.CodeValidation, "items", "integer_list"},
		{"coordinates checked before categories", func(r *dto.CreatePointRequest) {
			r.Latitude = 200
			r.Items = []int64{99}
		}, errors.CodeValidation, "latitude", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockPoints := &MockPointRepository{}
			mockMedia := &MockMediaRepository{}
			media := usecase.NewMediaResolver(mockMedia, "http://localhost:3333", logger)
			uc := usecase.NewPointRegistrationUseCase(mockPoints, testCatalog(), media, nil, "", logger)

			req := validRequest()
			tt.mutate(&req)

			summary, err := uc.Register(ctx, req)

			assert.Nil(t, summary)
			appErr := assertCode(t, err, tt.code)
			if tt.field != "" {
				assert.Equal(t, tt.field, appErr.Details["field"])
			}
			if tt.rule != "" {
				assert.Equal(t, tt.rule, appErr.Details["rule"])
			}
			mockMedia.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			mockPoints.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestPointRegistrationUseCase_UnknownCategoryDetails(t *testing.T) {
	logger := zap.NewNop()
	media := usecase.NewMediaResolver(&MockMediaRepository{}, "http://localhost:3333", logger)
	uc := usecase.NewPointRegistrationUseCase(&MockPointRepository{}, testCatalog(), media, nil, "", logger)

	req := validRequest()
	req.Items = []int64{99, 1, 98}

	_, err := uc.Register(context.Background(), req)

	appErr := assertCode(t, err, errors.CodeConstraintViolation)
	assert.Equal(t, []int64{99, 98}, appErr.Details["category_ids"])
	assert.True(t, stderrors.Is(err, errors.ErrConstraintViolation))
}

func TestPointRegistrationUseCase_ConcurrentRegistrations(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	points := newMemPointRepository(1, 2, 3, 4, 5, 6)
	blobs := newMemMediaRepository()
	media := usecase.NewMediaResolver(blobs, "http://localhost:3333", logger)
	catalog := testCatalog()

	registration := usecase.NewPointRegistrationUseCase(points, catalog, media, nil, "", logger)
	query := usecase.NewPointQueryUseCase(points, catalog, media, nil, time.Minute, logger)

	const perGroup = 20
	sets := [][]int64{{1, 2}, {3, 4}}

	var wg sync.WaitGroup
	ids := make([][]int64, len(sets))
	var mu sync.Mutex
	errs := make(chan error, perGroup*len(sets))

	for g, set := range sets {
		for i := 0; i < perGroup; i++ {
			wg.Add(1)
			go func(g int, set []int64, i int) {
				defer wg.Done()
				req := validRequest()
				req.Name = fmt.Sprintf("Eco %d-%d", g, i)
				req.Items = set

				summary, err := registration.Register(ctx, req)
				if err != nil {
					errs <- err
					return
				}
				mu.Lock()
				ids[g] = append(ids[g], summary.ID)
				mu.Unlock()
			}(g, set, i)
		}
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, perGroup*len(sets), blobs.count())

	seen := make(map[int64]bool)
	for g, group := range ids {
		require.Len(t, group, perGroup)
		for _, id := range group {
			assert.False(t, seen[id], "duplicate id %d", id)
			seen[id] = true

			detail, err := query.GetPoint(ctx, id)
			require.NoError(t, err)

			got := make([]int64, 0, len(detail.Categories))
			for _, c := range detail.Categories {
				got = append(got, c.ID)
			}
			assert.Equal(t, sets[g], got)
		}
	}
}
