package usecase_test

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ecoleta-service/internal/domain"
	"github.com/ecoleta-service/internal/pkg/errors"
)

// MockPointRepository is a mock of PointRepository
type MockPointRepository struct {
	mock.Mock
}

func (m *MockPointRepository) Create(ctx context.Context, point *domain.Point, categoryIDs []int64) (int64, error) {
	args := m.Called(ctx, point, categoryIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPointRepository) GetByID(ctx context.Context, id int64) (*domain.Point, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Point), args.Error(1)
}

func (m *MockPointRepository) ListCategoryIDs(ctx context.Context, pointID int64) ([]int64, error) {
	args := m.Called(ctx, pointID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockPointRepository) Query(ctx context.Context, filter domain.PointFilter) ([]*domain.Point, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Point), args.Error(1)
}

// MockMediaRepository is a mock of MediaRepository
type MockMediaRepository struct {
	mock.Mock
}

func (m *MockMediaRepository) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	args := m.Called(ctx, key, r, contentType)
	return args.Error(0)
}

func (m *MockMediaRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockStreamRepository is a mock of StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) Publish(ctx context.Context, stream string, event domain.Event) (string, error) {
	args := m.Called(ctx, stream, event)
	return args.String(0), args.Error(1)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

// MockCategoryRepository is a mock of CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) GetAll(ctx context.Context) ([]*domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) Seed(ctx context.Context, categories []domain.Category) error {
	args := m.Called(ctx, categories)
	return args.Error(0)
}

// MockLocalityRepository is a mock of LocalityRepository
type MockLocalityRepository struct {
	mock.Mock
}

func (m *MockLocalityRepository) GetStates(ctx context.Context) ([]domain.State, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.State), args.Error(1)
}

func (m *MockLocalityRepository) GetCities(ctx context.Context, stateCode string) ([]domain.City, error) {
	args := m.Called(ctx, stateCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.City), args.Error(1)
}

// memPointRepository is a thread-safe in-memory point store that
// mirrors the all-or-nothing semantics of the postgres implementation.
type memPointRepository struct {
	mu         sync.RWMutex
	nextID     int64
	points     map[int64]domain.Point
	categories map[int64][]int64
	known      map[int64]bool
}

func newMemPointRepository(knownCategories ...int64) *memPointRepository {
	known := make(map[int64]bool, len(knownCategories))
	for _, id := range knownCategories {
		known[id] = true
	}
	return &memPointRepository{
		points:     make(map[int64]domain.Point),
		categories: make(map[int64][]int64),
		known:      known,
	}
}

func (r *memPointRepository) Create(ctx context.Context, point *domain.Point, categoryIDs []int64) (int64, error) {
	if len(categoryIDs) == 0 {
		return 0, errors.Constraint(errors.RuleEmptyCategories, "empty")
	}
	for _, id := range categoryIDs {
		if !r.known[id] {
			return 0, errors.Constraint(errors.RuleUnknownCategory, "unknown")
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	point.ID = r.nextID
	point.CreatedAt = time.Now().UTC()
	r.points[point.ID] = *point

	ids := make([]int64, len(categoryIDs))
	copy(ids, categoryIDs)
	r.categories[point.ID] = ids

	return point.ID, nil
}

func (r *memPointRepository) GetByID(ctx context.Context, id int64) (*domain.Point, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.points[id]
	if !ok {
		return nil, errors.ErrPointNotFound
	}
	return &p, nil
}

func (r *memPointRepository) ListCategoryIDs(ctx context.Context, pointID int64) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := append([]int64(nil), r.categories[pointID]...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *memPointRepository) Query(ctx context.Context, filter domain.PointFilter) ([]*domain.Point, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []int64
	for id := range r.points {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	result := make([]*domain.Point, 0)
	for _, id := range ids {
		p := r.points[id]
		if filter.State != "" && p.State != filter.State {
			continue
		}
		if filter.City != "" && p.City != filter.City {
			continue
		}
		if len(filter.CategoryIDs) > 0 && !hasAny(r.categories[id], filter.CategoryIDs) {
			continue
		}
		result = append(result, &p)
	}
	return result, nil
}

func hasAny(have, want []int64) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}

// memMediaRepository stores blobs in memory
type memMediaRepository struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newMemMediaRepository() *memMediaRepository {
	return &memMediaRepository{blobs: make(map[string][]byte)}
}

func (r *memMediaRepository) Put(ctx context.Context, key string, rd io.Reader, contentType string) error {
	data, err := io.ReadAll(rd)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blobs[key] = data
	return nil
}

func (r *memMediaRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.blobs, key)
	return nil
}

func (r *memMediaRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.blobs)
}
