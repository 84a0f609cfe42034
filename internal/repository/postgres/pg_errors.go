package postgres

import (
	"context"
	stderrors "errors"

	"github.com/ecoleta-service/internal/pkg/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// SQLSTATE codes
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
)

// sqlState извлекает SQLSTATE из ошибки драйвера (pgx в рантайме, lib/pq в тестах)
func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		return pgErr.Code
	}

	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) {
		return string(pqErr.Code)
	}

	return ""
}

// mapWriteError переводит ошибку записи в таксономию приложения
func mapWriteError(err error) *errors.AppError {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return errors.ErrPersistence.Wrap(err)
	}

	switch sqlState(err) {
	case pgForeignKeyViolation:
		return errors.Constraint(errors.RuleUnknownCategory, "Referenced category does not exist").Wrap(err)
	case pgUniqueViolation:
		return errors.Constraint(errors.RuleDuplicateCategory, "Category is linked to the point more than once").Wrap(err)
	case pgCheckViolation:
		return errors.ErrValidation.Wrap(err)
	}

	return errors.ErrPersistence.Wrap(err)
}
