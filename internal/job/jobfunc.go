package job

import (
	"context"
	"errors"
	"fmt"
)

// ErrNilJobFunc is returned when a nil closure is adapted into a job.
var ErrNilJobFunc = errors.New("nil JobFunc")

// jobFunc adapts a plain closure to the persist queue's Job interface.
type jobFunc func(context.Context) error

func (f jobFunc) Run(ctx context.Context) error {
	if f == nil {
		return fmt.Errorf("jobfunc: %w", ErrNilJobFunc)
	}
	return f(ctx)
}

// New creates a job from a closure.
func New(fn func(context.Context) error) jobFunc {
	return jobFunc(fn)
}
