package services

import (
	"errors"
	"net/http"
)

// ErrorKind classifies a ServiceError independently of transport.
type ErrorKind string

const (
	KindUnauthenticated  ErrorKind = "unauthenticated"
	KindPermissionDenied ErrorKind = "permission_denied"
	KindNotFound         ErrorKind = "not_found"
	KindInvalidArgument  ErrorKind = "invalid_argument"
	KindInvalidState     ErrorKind = "invalid_state"
	KindAlreadyExists    ErrorKind = "already_exists"
	KindInternal         ErrorKind = "internal"
)

// ServiceError represents a typed error with an HTTP status code.
type ServiceError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func unauthenticated(msg string) *ServiceError {
	return &ServiceError{Kind: KindUnauthenticated, StatusCode: http.StatusUnauthorized, Message: msg}
}

func permissionDenied(msg string) *ServiceError {
	return &ServiceError{Kind: KindPermissionDenied, StatusCode: http.StatusForbidden, Message: msg}
}

func notFound(msg string) *ServiceError {
	return &ServiceError{Kind: KindNotFound, StatusCode: http.StatusNotFound, Message: msg}
}

func invalidArgument(msg string) *ServiceError {
	return &ServiceError{Kind: KindInvalidArgument, StatusCode: http.StatusBadRequest, Message: msg}
}

func invalidState(msg string) *ServiceError {
	return &ServiceError{Kind: KindInvalidState, StatusCode: http.StatusConflict, Message: msg}
}

func alreadyExists(msg string) *ServiceError {
	return &ServiceError{Kind: KindAlreadyExists, StatusCode: http.StatusConflict, Message: msg}
}

func internal(msg string) *ServiceError {
	return &ServiceError{Kind: KindInternal, StatusCode: http.StatusInternalServerError, Message: msg}
}

// asServiceError unwraps a *ServiceError returned through an error-typed callback such as a
// transaction body. Anything else becomes an internal error carrying fallback.
func asServiceError(err error, fallback string) *ServiceError {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return internal(fallback)
}
