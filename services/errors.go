package services

import "net/http"

// Error kinds returned alongside the HTTP status so callers can react to the
// failure class, not just the message.
const (
	KindValidationFailed    = "VALIDATION_FAILED"
	KindNotFound            = "NOT_FOUND"
	KindInvalidTransition   = "INVALID_TRANSITION"
	KindAlreadyDecided      = "ALREADY_DECIDED"
	KindGenerationExhausted = "GENERATION_EXHAUSTED"
	KindForbidden           = "FORBIDDEN"
	KindInternal            = "INTERNAL"
)

// ServiceError is a typed error with an HTTP status code and an error kind.
type ServiceError struct {
	StatusCode int
	Kind       string
	Message    string
}

func (e *ServiceError) Error() string { return e.Message }

func validationFailed(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusBadRequest, Kind: KindValidationFailed, Message: msg}
}

func notFound(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusNotFound, Kind: KindNotFound, Message: msg}
}

func invalidTransition(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusConflict, Kind: KindInvalidTransition, Message: msg}
}

func alreadyDecided(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusConflict, Kind: KindAlreadyDecided, Message: msg}
}

func generationExhausted(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusInternalServerError, Kind: KindGenerationExhausted, Message: msg}
}

func forbidden(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusForbidden, Kind: KindForbidden, Message: msg}
}

func internalError(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusInternalServerError, Kind: KindInternal, Message: msg}
}
