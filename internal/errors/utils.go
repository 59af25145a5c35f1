package errors

import (
	"errors"
)

// Wrap wraps an error with additional context, creating an SEOError if the
// input is not already one.
func Wrap(err error, errType ErrorType, code, message string) *SEOError {
	if err == nil {
		return nil
	}

	// Keep the location details of an inner SEOError.
	var se *SEOError
	if errors.As(err, &se) {
		return &SEOError{
			Type:        errType,
			Code:        code,
			Message:     message,
			Cause:       se,
			Context:     se.Context,
			Component:   se.Component,
			FilePath:    se.FilePath,
			Recoverable: se.Recoverable,
		}
	}

	return &SEOError{
		Type:        errType,
		Code:        code,
		Message:     message,
		Cause:       err,
		Recoverable: errType == ErrorTypeValidation || errType == ErrorTypeRender,
	}
}

// WrapWithContext wraps an error with context information.
func WrapWithContext(err error, errType ErrorType, code, message string, context map[string]interface{}) *SEOError {
	wrapped := Wrap(err, errType, code, message)
	if wrapped != nil {
		wrapped.Context = context
	}
	return wrapped
}

// WrapConfig wraps an error as a configuration error.
func WrapConfig(err error, code, message string) *SEOError {
	wrapped := Wrap(err, ErrorTypeConfig, code, message)
	if wrapped != nil {
		wrapped.Recoverable = false
	}
	return wrapped
}

// WrapIO wraps an error as an I/O error.
func WrapIO(err error, code, message string) *SEOError {
	wrapped := Wrap(err, ErrorTypeIO, code, message)
	if wrapped != nil {
		wrapped.Recoverable = false
	}
	return wrapped
}

// WrapRender wraps an error as a rendering error with component context.
func WrapRender(err error, message, component string) *SEOError {
	wrapped := Wrap(err, ErrorTypeRender, ErrCodeRenderFailed, message)
	if wrapped != nil {
		wrapped.Component = component
	}
	return wrapped
}

// GetErrorType extracts the error type, ErrorTypeInternal for foreign errors.
func GetErrorType(err error) ErrorType {
	var se *SEOError
	if errors.As(err, &se) {
		return se.Type
	}
	return ErrorTypeInternal
}

// GetErrorCode extracts the error code, "" for foreign errors.
func GetErrorCode(err error) string {
	var se *SEOError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}
