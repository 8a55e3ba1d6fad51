package errors

import "fmt"

// FromStatus builds a classified error for an HTTP failure.
// 4xx responses (except 408 and 429) are irrecoverable; everything else,
// including 5xx and unexpected codes, is treated as retryable.
func FromStatus(operation string, statusCode int, body string) *ClassifiedError {
	return &ClassifiedError{
		Category:   categoryForStatus(statusCode),
		StatusCode: statusCode,
		Body:       body,
		Underlying: fmt.Errorf("%s: status %d", operation, statusCode),
	}
}

// Network builds a classified error for a transport-level failure.
// Network faults may be transient, so they are always recoverable.
func Network(operation string, err error) *ClassifiedError {
	return &ClassifiedError{
		Category:   Recoverable,
		Underlying: fmt.Errorf("%s: %w", operation, err),
	}
}

func categoryForStatus(statusCode int) Category {
	switch {
	case statusCode >= 400 && statusCode < 500:
		switch statusCode {
		case 408, 429: // timeout / throttled, worth retrying
			return Recoverable
		default:
			return Irrecoverable
		}
	default:
		return Recoverable
	}
}
