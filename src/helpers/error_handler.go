package helpers

import (
	"fmt"
	"time"

	"dashboard-builder/src/logger"
)

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type DashboardError struct {
	Message string
	Cause   error
}

func (e *DashboardError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DashboardError) Unwrap() error {
	return e.Cause
}

// Helper to define distinct error types for type assertions if needed
type ConfigurationError struct{ DashboardError }
type NetworkError struct{ DashboardError }
type StorageError struct{ DashboardError }
type ValidationError struct{ DashboardError }
type GenerationError struct{ DashboardError }

// -----------------------------------------------------------------------------
// Retry Logic
// -----------------------------------------------------------------------------

// RetryWithBackoff attempts to execute the operation up to maxRetries times
// with exponential backoff. The delay grows as baseDelay * 2^attempt; no delay
// is taken after the final failed attempt.
func RetryWithBackoff(operation string, maxRetries int, baseDelay time.Duration, fn func() (interface{}, error)) (interface{}, error) {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		res, err := fn()
		if err == nil {
			return res, nil
		}

		lastErr = err
		if attempt == maxRetries-1 {
			break
		}

		delay := baseDelay * (1 << attempt)
		fmt.Printf("Warning: Attempt %d/%d failed for %s: %v. Retrying in %v\n", attempt+1, maxRetries, operation, err, delay)
		time.Sleep(delay)
	}

	return nil, lastErr
}

// -----------------------------------------------------------------------------
// Error Handler
// -----------------------------------------------------------------------------

type ErrorHandler struct {
	Logger *logger.Logger
}

func NewErrorHandler(level string) *ErrorHandler {
	return &ErrorHandler{
		Logger: logger.NewLogger(level, "ErrorHandler"),
	}
}

// -----------------------------------------------------------------------------

// Handle logs an error with its context; nil errors are ignored so call sites
// can pass results through unconditionally.
func (e *ErrorHandler) Handle(err error, context string) {
	if err != nil {
		e.Logger.Error("Error in %s: %v", context, err)
	}
}
