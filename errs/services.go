package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Third-Party API Errors
var (
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrStorage            = errors.New("storage operation failed")
	ErrNotification       = errors.New("notification failed")
)

// Configuration & Environment Errors
var (
	ErrConfigMissing       = errors.New("configuration missing")
	ErrConfigInvalid       = errors.New("configuration invalid")
	ErrEnvironmentVariable = errors.New("environment variable error")
)

// Data Consistency & Integrity Errors
var (
	ErrPartialFailure = errors.New("partial failure")
)

// Configuration & Environment Error Constructors
func NewConfigError(configName string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigMissing,
		Details:    fmt.Sprintf("Configuration error for %s", configName),
		Cause:      cause,
	}
}

func NewConfigInvalidError(configName, reason string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigInvalid,
		Details:    fmt.Sprintf("Configuration %s is invalid: %s", configName, reason),
		Field:      configName,
	}
}

func NewEnvironmentVariableError(varName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrEnvironmentVariable,
		Details:    fmt.Sprintf("Environment variable %s is not set or invalid", varName),
		Field:      varName,
	}
}

// NewStorageError wraps a failure of the blob store (upload or removal).
func NewStorageError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrStorage,
		Details:    fmt.Sprintf("Failed to %s object", operation),
		Cause:      cause,
		Field:      "storage",
	}
}

func NewNotificationError(channel string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrNotification,
		Details:    fmt.Sprintf("Failed to send %s notification", channel),
		Cause:      cause,
	}
}

func NewServiceUnavailableError(service string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrServiceUnavailable,
		Details:    fmt.Sprintf("Service %s is unavailable", service),
		Cause:      cause,
	}
}

func NewPartialFailureError(operation string, failedSteps []string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrPartialFailure,
		Details:    fmt.Sprintf("Partial failure in %s operation. Failed steps: %v", operation, failedSteps),
		Field:      "partial_failure",
	}
}

// Error Type Checkers
func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfigMissing) || errors.Is(err, ErrConfigInvalid)
}

func IsEnvironmentVariableError(err error) bool {
	return errors.Is(err, ErrEnvironmentVariable)
}

func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorage)
}

func IsPartialFailureError(err error) bool {
	return errors.Is(err, ErrPartialFailure)
}
