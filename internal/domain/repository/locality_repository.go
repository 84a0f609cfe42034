package repository

import (
	"context"

	"github.com/ecoleta-service/internal/domain"
)

// LocalityRepository - внешний справочник административного деления (только чтение)
type LocalityRepository interface {
	GetStates(ctx context.Context) ([]domain.State, error)
	GetCities(ctx context.Context, stateCode string) ([]domain.City, error)
}
