package errors

import "net/http"

const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeConstraintViolation = "CONSTRAINT_VIOLATION"
	CodeNotFound            = "NOT_FOUND"
	CodeStorage             = "STORAGE_ERROR"
	CodePersistence         = "PERSISTENCE_ERROR"
	CodeExternalService     = "EXTERNAL_SERVICE_ERROR"
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeInternalServer      = "INTERNAL_SERVER_ERROR"
)

// Constraint rules
const (
	RuleEmptyCategories   = "categories_required"
	RuleUnknownCategory   = "category_exists"
	RuleDuplicateCategory = "category_unique"
)

var (
	ErrValidation = New(
		CodeValidation,
		"Validation failed",
		http.StatusBadRequest,
	)

	ErrConstraintViolation = New(
		CodeConstraintViolation,
		"Referential integrity would be broken",
		http.StatusBadRequest,
	)

	ErrNotFound = New(
		CodeNotFound,
		"Resource not found",
		http.StatusNotFound,
	)

	ErrPointNotFound = New(
		CodeNotFound,
		"Point not found",
		http.StatusNotFound,
	)

	ErrCategoryNotFound = New(
		CodeNotFound,
		"Category not found",
		http.StatusNotFound,
	)

	ErrStorage = New(
		CodeStorage,
		"Media storage operation failed",
		http.StatusInternalServerError,
	)

	ErrPersistence = New(
		CodePersistence,
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrExternalService = New(
		CodeExternalService,
		"External service request failed",
		http.StatusBadGateway,
	)

	ErrInvalidRequest = New(
		CodeInvalidRequest,
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		CodeInternalServer,
		"Internal server error",
		http.StatusInternalServerError,
	)
)
