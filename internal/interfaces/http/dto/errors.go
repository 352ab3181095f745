package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeValidation is used for request validation failures
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Lease lifecycle error codes
const (
	// ErrCodeInvalidSchedule is used when lease terms cannot produce a valid schedule
	ErrCodeInvalidSchedule = "ERR_INVALID_SCHEDULE"
	// ErrCodeInvalidAmount is used when a payment amount or method is invalid
	ErrCodeInvalidAmount = "ERR_INVALID_AMOUNT"
	// ErrCodeOverpayment is used when a payment exceeds the outstanding balance
	ErrCodeOverpayment = "ERR_OVERPAYMENT"
	// ErrCodeInvalidExtension is used when an extension request or decision is not allowed
	ErrCodeInvalidExtension = "ERR_INVALID_EXTENSION"
	// ErrCodeRenewalNotAllowed is used when a lease cannot be renewed
	ErrCodeRenewalNotAllowed = "ERR_RENEWAL_NOT_ALLOWED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeValidation:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Schedule and payment input errors -> 400 Bad Request
	ErrCodeInvalidSchedule: http.StatusBadRequest,
	ErrCodeInvalidAmount:   http.StatusBadRequest,

	// Business rule violations -> 422 Unprocessable Entity
	ErrCodeOverpayment:       http.StatusUnprocessableEntity,
	ErrCodeInvalidExtension:  http.StatusUnprocessableEntity,
	ErrCodeRenewalNotAllowed: http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the standardized
// ERR_* codes exposed over the API
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"INVALID_INPUT":        ErrCodeValidation,
	"INVALID_SCHEDULE":     ErrCodeInvalidSchedule,
	"INVALID_AMOUNT":       ErrCodeInvalidAmount,
	"OVERPAYMENT":          ErrCodeOverpayment,
	"INVALID_EXTENSION":    ErrCodeInvalidExtension,
	"RENEWAL_NOT_ALLOWED":  ErrCodeRenewalNotAllowed,
}

// NormalizeErrorCode converts a domain error code to the standardized format
// If the code is already in the new format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
