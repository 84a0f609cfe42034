package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/ecoleta-service/internal/domain"
	"github.com/ecoleta-service/internal/domain/repository"
	"github.com/ecoleta-service/internal/pkg/errors"
	"github.com/ecoleta-service/internal/pkg/validator"
	"go.uber.org/zap"
)

const statesCacheKey = "ibge:states"

// LocalityUseCase - штаты и города из внешнего справочника с кешированием
type LocalityUseCase struct {
	localityRepo repository.LocalityRepository
	cacheRepo    repository.CacheRepository
	cacheTTL     time.Duration
	logger       *zap.Logger
}

func NewLocalityUseCase(
	localityRepo repository.LocalityRepository,
	cacheRepo repository.CacheRepository,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *LocalityUseCase {
	return &LocalityUseCase{
		localityRepo: localityRepo,
		cacheRepo:    cacheRepo,
		cacheTTL:     cacheTTL,
		logger:       logger,
	}
}

func (uc *LocalityUseCase) GetStates(ctx context.Context) ([]domain.State, error) {
	var states []domain.State
	if uc.readCache(ctx, statesCacheKey, &states) {
		return states, nil
	}

	states, err := uc.localityRepo.GetStates(ctx)
	if err != nil {
		uc.logger.Error("Failed to fetch states", zap.Error(err))
		return nil, errors.ErrExternalService.Wrap(err)
	}

	uc.writeCache(ctx, statesCacheKey, states)
	return states, nil
}

func (uc *LocalityUseCase) GetCities(ctx context.Context, stateCode string) ([]domain.City, error) {
	stateCode = strings.ToUpper(strings.TrimSpace(stateCode))
	if !validator.IsStateCode(stateCode) {
		return nil, errors.Validation("uf", "state_code", "state must be a 2-letter code")
	}

	key := "ibge:cities:" + stateCode

	var cities []domain.City
	if uc.readCache(ctx, key, &cities) {
		return cities, nil
	}

	cities, err := uc.localityRepo.GetCities(ctx, stateCode)
	if err != nil {
		uc.logger.Error("Failed to fetch cities", zap.String("state", stateCode), zap.Error(err))
		return nil, errors.ErrExternalService.Wrap(err)
	}

	uc.writeCache(ctx, key, cities)
	return cities, nil
}

func (uc *LocalityUseCase) readCache(ctx context.Context, key string, out interface{}) bool {
	data, err := uc.cacheRepo.Get(ctx, key)
	if err != nil {
		uc.logger.Warn("Locality cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if data == nil {
		return false
	}

	if err := json.Unmarshal(data, out); err != nil {
		uc.logger.Warn("Failed to unmarshal cached localities", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (uc *LocalityUseCase) writeCache(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := uc.cacheRepo.Set(ctx, key, data, uc.cacheTTL); err != nil {
		uc.logger.Warn("Locality cache write failed", zap.String("key", key), zap.Error(err))
	}
}
