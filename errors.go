package client

import (
	"errors"

	"github.com/lucidwell/lucidwell-client/exam"
	sdkerrors "github.com/lucidwell/lucidwell-client/internal/errors"
	"github.com/lucidwell/lucidwell-client/internal/persistqueue"
)

// Construction errors.
var (
	ErrEmptyBaseURL = errors.New("baseURL cannot be empty")
	ErrEmptyAPIKey  = errors.New("apiKey cannot be empty")
)

// ErrBackPressure is returned when the client's internal persist queue is
// full.
var ErrBackPressure = persistqueue.ErrQueueFull

// IsBackPressure reports whether err is a back-pressure error.
func IsBackPressure(err error) bool { return errors.Is(err, ErrBackPressure) }

// Exam sentinels re-exported so callers compare against a single symbol.
var (
	ErrNoSavedExam   = exam.ErrNotFound
	ErrNoQuestions   = exam.ErrNoQuestions
	ErrExamCompleted = exam.ErrCompleted
)

// IsIrrecoverable reports whether err is a request failure that retrying
// cannot fix (validation errors, 4xx responses other than 408/429).
func IsIrrecoverable(err error) bool { return sdkerrors.IsIrrecoverable(err) }
