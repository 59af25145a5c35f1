// Package errors provides the structured error type used across seo.
//
// Errors carry a category, a stable code for programmatic checks, and an
// optional cause. Configuration mistakes such as an unknown Flipp template
// alias or a missing signing key surface as ErrorTypeConfig so callers can
// fail at startup instead of emitting a broken image URL.
package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeRender     ErrorType = "render"
	ErrorTypeInternal   ErrorType = "internal"
)

// SEOError is a structured error type with context.
type SEOError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	Component   string
	FilePath    string
	Recoverable bool
}

// Error implements the error interface.
func (e *SEOError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Component != "" {
		parts = append(parts, "component:"+e.Component)
	}

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *SEOError) Unwrap() error {
	return e.Cause
}

// Is matches another SEOError with the same type and code.
func (e *SEOError) Is(target error) bool {
	var t *SEOError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *SEOError) WithContext(key string, value interface{}) *SEOError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithFile adds the file the error relates to.
func (e *SEOError) WithFile(filePath string) *SEOError {
	e.FilePath = filePath

	return e
}

// WithComponent adds component context.
func (e *SEOError) WithComponent(component string) *SEOError {
	e.Component = component

	return e
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *SEOError {
	return &SEOError{
		Type:        ErrorTypeValidation,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *SEOError {
	return &SEOError{
		Type:        ErrorTypeIO,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *SEOError {
	return &SEOError{
		Type:        ErrorTypeConfig,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewRenderError creates a rendering error.
func NewRenderError(code, message string, cause error) *SEOError {
	return &SEOError{
		Type:        ErrorTypeRender,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *SEOError {
	return &SEOError{
		Type:        ErrorTypeInternal,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// IsRecoverable checks if an error is recoverable.
func IsRecoverable(err error) bool {
	var se *SEOError
	if errors.As(err, &se) {
		return se.Recoverable
	}

	return false
}

// IsConfigError checks if an error is a configuration error.
func IsConfigError(err error) bool {
	var se *SEOError
	if errors.As(err, &se) {
		return se.Type == ErrorTypeConfig
	}

	return false
}

// HasCode checks if any error in the chain carries code.
func HasCode(err error, code string) bool {
	for err != nil {
		var se *SEOError
		if !errors.As(err, &se) {
			return false
		}
		if se.Code == code {
			return true
		}
		err = se.Cause
	}

	return false
}

// ErrorHandler provides centralized error handling.
type ErrorHandler struct {
	logger Logger
}

// Logger interface for error logging.
type Logger interface {
	Error(ctx context.Context, err error, msg string, fields ...interface{})
	Warn(ctx context.Context, err error, msg string, fields ...interface{})
}

// NewErrorHandler creates a new error handler.
func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle logs an error at a level chosen by its category.
func (h *ErrorHandler) Handle(ctx context.Context, err error) {
	if err == nil || h.logger == nil {
		return
	}

	var se *SEOError
	if !errors.As(err, &se) {
		h.logger.Error(ctx, err, "Unhandled error occurred")
		return
	}

	switch se.Type {
	case ErrorTypeValidation, ErrorTypeRender:
		h.logger.Warn(ctx, err, "Recoverable error occurred",
			"type", se.Type,
			"code", se.Code,
			"component", se.Component)
	default:
		h.logger.Error(ctx, err, "Error occurred",
			"type", se.Type,
			"code", se.Code,
			"component", se.Component,
			"file", se.FilePath)
	}
}

// Common error codes.
const (
	ErrCodeConfigInvalid        = "ERR_CONFIG_INVALID"
	ErrCodeFlippKeyMissing      = "ERR_FLIPP_KEY_MISSING"
	ErrCodeFlippTemplateMissing = "ERR_FLIPP_TEMPLATE_MISSING"
	ErrCodeFlippPayload         = "ERR_FLIPP_PAYLOAD"
	ErrCodeDirectiveArgs        = "ERR_DIRECTIVE_ARGS"
	ErrCodeRenderFailed         = "ERR_RENDER_FAILED"
	ErrCodeInvalidPath          = "ERR_INVALID_PATH"
	ErrCodeFileNotFound         = "ERR_FILE_NOT_FOUND"
	ErrCodeImageDecode          = "ERR_IMAGE_DECODE"
	ErrCodeInternalError        = "ERR_INTERNAL"
	ErrCodeServiceNotRegistered = "ERR_SERVICE_NOT_REGISTERED"
	ErrCodeCircularDependency   = "ERR_CIRCULAR_DEPENDENCY"
)

// ErrFlippTemplateMissing reports an invocation of an unconfigured alias.
func ErrFlippTemplateMissing(alias string) *SEOError {
	return NewConfigError(
		ErrCodeFlippTemplateMissing,
		fmt.Sprintf("no flipp template configured for alias %q", alias),
	).WithContext("alias", alias)
}

// ErrFlippKeyMissing reports signing without a configured secret key.
func ErrFlippKeyMissing() *SEOError {
	return NewConfigError(
		ErrCodeFlippKeyMissing,
		"flipp signing key is not configured (services.flipp.key)",
	)
}

// ErrInvalidPath creates a path validation error.
func ErrInvalidPath(path string) *SEOError {
	return NewValidationError(ErrCodeInvalidPath, "invalid path: "+path)
}
