package dto

import (
	"errors"
	"net/http"

	"github.com/retailsim/backend/internal/domain/shared"
)

// Error codes surfaced to API clients.
const (
	ErrCodeInternal          = "ERR_INTERNAL"
	ErrCodeBadRequest        = "ERR_BAD_REQUEST"
	ErrCodeValidation        = "ERR_VALIDATION"
	ErrCodeNotFound          = "ERR_NOT_FOUND"
	ErrCodeTenantRequired    = "ERR_TENANT_REQUIRED"
	ErrCodeDimensionMismatch = "ERR_DIMENSION_MISMATCH"
	ErrCodeCapacity          = "ERR_CAPACITY"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:          http.StatusInternalServerError,
	ErrCodeBadRequest:        http.StatusBadRequest,
	ErrCodeValidation:        http.StatusBadRequest,
	ErrCodeNotFound:          http.StatusNotFound,
	ErrCodeTenantRequired:    http.StatusBadRequest,
	ErrCodeDimensionMismatch: http.StatusBadRequest,
	ErrCodeCapacity:          http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status for an error code
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// MapDomainError translates a domain error into an API error code and
// message. Unknown errors map to an opaque internal error so storage
// details never leak to clients.
func MapDomainError(err error) (code, message string) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return ErrCodeNotFound, "resource not found"
	case errors.Is(err, shared.ErrTenantRequired):
		return ErrCodeTenantRequired, "tenant context is required"
	case errors.Is(err, shared.ErrDimensionMismatch):
		return ErrCodeDimensionMismatch, "query vector dimension matches no embedding space"
	case errors.Is(err, shared.ErrPoolSaturated):
		return ErrCodeCapacity, "service is at capacity, retry later"
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return ErrCodeValidation, domainErr.Message
	}
	return ErrCodeInternal, "internal server error"
}
