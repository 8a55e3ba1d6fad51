// Package errors classifies failures surfaced by the SDK so retry policy can
// distinguish transient faults from ones that will never succeed.
package errors

import "fmt"

// Category tells retry logic how to treat an error.
type Category int

const (
	// Recoverable errors may succeed on a later attempt.
	// Examples: 5xx responses, timeouts, connection resets.
	Recoverable Category = iota

	// Irrecoverable errors must fail immediately without retry.
	// Examples: 400 Bad Request, 401 Unauthorized, 404 Not Found.
	Irrecoverable
)

func (c Category) String() string {
	switch c {
	case Recoverable:
		return "Recoverable"
	case Irrecoverable:
		return "Irrecoverable"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// ClassifiedError wraps a failure with its category and, for HTTP failures,
// the status code and response body.
type ClassifiedError struct {
	Category   Category
	StatusCode int    // 0 for non-HTTP failures
	Body       string // response body, kept for diagnostics
	Underlying error
}

func (e *ClassifiedError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("[%s] HTTP %d: %v", e.Category, e.StatusCode, e.Underlying)
	}
	return fmt.Sprintf("[%s] %v", e.Category, e.Underlying)
}

func (e *ClassifiedError) Unwrap() error { return e.Underlying }

// IsIrrecoverable reports whether err carries the Irrecoverable category.
// Unclassified errors are treated as recoverable so callers stay conservative.
func IsIrrecoverable(err error) bool {
	if ce, ok := err.(*ClassifiedError); ok {
		return ce.Category == Irrecoverable
	}
	return false
}
