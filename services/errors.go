package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a service failure for the transport layer
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindConflict
	KindForbidden
	KindUnauthorized
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// ServiceError is a classified failure with a stable code for API clients
type ServiceError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Details map[string]string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// KindOf returns the kind of err, or KindInternal for unclassified errors
func KindOf(err error) ErrorKind {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	var transErr *TransitionError
	if errors.As(err, &transErr) {
		return KindConflict
	}
	return KindInternal
}

// AsServiceError converts err to a ServiceError when it is classified
func AsServiceError(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr, true
	}
	var transErr *TransitionError
	if errors.As(err, &transErr) {
		return transErr.ServiceError(), true
	}
	return nil, false
}

func validationError(code, message string, details map[string]string) *ServiceError {
	return &ServiceError{Kind: KindValidation, Code: code, Message: message, Details: details}
}

func conflictError(code, message string) *ServiceError {
	return &ServiceError{Kind: KindConflict, Code: code, Message: message}
}

func forbiddenError(code, message string) *ServiceError {
	return &ServiceError{Kind: KindForbidden, Code: code, Message: message}
}

func notFoundError(code, format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: KindNotFound, Code: code, Message: fmt.Sprintf(format, args...)}
}

// UnauthorizedError reports a caller without a usable identity
func UnauthorizedError(code, message string) *ServiceError {
	return &ServiceError{Kind: KindUnauthorized, Code: code, Message: message}
}
