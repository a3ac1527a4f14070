// Package apperr defines the error type that crosses the service boundary.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Machine codes carried by AppError.
const (
	CodeConfig             = "CONFIG_ERROR"
	CodeNetwork            = "NETWORK_ERROR"
	CodeNotFound           = "API_NOT_FOUND"
	CodeRateLimited        = "RATE_LIMITED"
	CodePermissionDenied   = "PERMISSION_DENIED"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeAPI                = "API_ERROR"
	CodeUnknown            = "UNKNOWN_ERROR"
)

// AppError pairs an internal error with a machine code and a message safe to show users
type AppError struct {
	Code        string
	Message     string
	UserMessage string
	Err         error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError
func New(code, message, userMessage string, err error) *AppError {
	return &AppError{
		Code:        code,
		Message:     message,
		UserMessage: userMessage,
		Err:         err,
	}
}

// Config reports a non-transient deployment problem such as missing credentials
func Config(message string, err error) *AppError {
	return New(CodeConfig, message,
		"This feature is not configured. Please contact support.", err)
}

// IsConfig reports whether err is, or wraps, a configuration AppError
func IsConfig(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == CodeConfig
}

// As extracts an AppError from err. Errors that are not already classified become
// network errors when they come from the transport, unknown errors otherwise.
func As(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &netErr) {
		return New(CodeNetwork, err.Error(),
			"Network connection failed. Please check your internet connection.", err)
	}

	return New(CodeUnknown, err.Error(), "An unexpected error occurred.", err)
}
