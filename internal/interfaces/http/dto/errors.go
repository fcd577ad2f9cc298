package dto

import "net/http"

// General error codes
const (
	ErrCodeInternal    = "INTERNAL_ERROR"
	ErrCodeBadRequest  = "BAD_REQUEST"
	ErrCodeValidation  = "VALIDATION_ERROR"
	ErrCodeNotFound    = "NOT_FOUND"
	ErrCodeRateLimited = "RATE_LIMITED"
)

// Authentication error codes
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeTokenExpired       = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid       = "INVALID_TOKEN"
	ErrCodeEmailExists        = "EMAIL_EXISTS"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
)

// Dashboard and ingestion error codes
const (
	ErrCodeInvalidDate         = "INVALID_DATE"
	ErrCodeQueryFailed         = "QUERY_FAILED"
	ErrCodeExportFailed        = "EXPORT_FAILED"
	ErrCodeIngestionInProgress = "INGESTION_IN_PROGRESS"
	ErrCodeTenantNotConfigured = "TENANT_NOT_CONFIGURED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:    http.StatusInternalServerError,
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeValidation:  http.StatusBadRequest,
	ErrCodeNotFound:    http.StatusNotFound,
	ErrCodeRateLimited: http.StatusTooManyRequests,

	// Registration rejects duplicates with 400, not 409
	ErrCodeEmailExists: http.StatusBadRequest,

	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeUserNotFound:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeTokenExpired:       http.StatusForbidden,
	ErrCodeTokenInvalid:       http.StatusForbidden,

	ErrCodeInvalidDate:         http.StatusBadRequest,
	ErrCodeQueryFailed:         http.StatusInternalServerError,
	ErrCodeExportFailed:        http.StatusInternalServerError,
	ErrCodeIngestionInProgress: http.StatusConflict,
	ErrCodeTenantNotConfigured: http.StatusNotFound,

	// Field rules raised by domain constructors
	"INVALID_NAME":     http.StatusBadRequest,
	"INVALID_EMAIL":    http.StatusBadRequest,
	"INVALID_PASSWORD": http.StatusBadRequest,
	"INVALID_TENANT":   http.StatusBadRequest,
	"ALREADY_EXISTS":   http.StatusConflict,
	"INVALID_INPUT":    http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
