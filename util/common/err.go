package common

import (
	"fmt"

	"github.com/drsdgdbye/user-panel/logger"

	"github.com/pkg/errors"
)

func NewErrorf(format string, a ...any) error {
	return errors.New(fmt.Sprintf(format, a...))
}

// Combine returns the first non-nil error, wrapping the rest into its message.
func Combine(errs ...error) error {
	var combined error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if combined == nil {
			combined = err
			continue
		}
		combined = errors.Wrap(combined, err.Error())
	}
	return combined
}

// Recover logs a panic raised in the calling goroutine. It must be deferred directly.
func Recover(msg string) any {
	panicErr := recover()
	if panicErr != nil {
		if msg != "" {
			logger.Error(msg, "panic:", panicErr)
		}
	}
	return panicErr
}
