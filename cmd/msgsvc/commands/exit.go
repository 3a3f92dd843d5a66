package commands

import (
	"errors"

	"github.com/mrled/suns/msgsvc/internal/model"
	"github.com/mrled/suns/msgsvc/internal/validation"
)

// Process exit codes
const (
	ExitFailure  = 1
	ExitUsage    = 2
	ExitNotFound = 3
	ExitInvalid  = 4
)

// An error type that includes an exit code
type ExitError struct {
	Code int
	Err  error
}

// Implement the error interface
func (e *ExitError) Error() string {
	return e.Err.Error()
}
func (e *ExitError) Unwrap() error {
	return e.Err
}

func ExitWithCode(code int, err error) *ExitError {
	if err == nil {
		return nil
	}
	return &ExitError{
		Code: code,
		Err:  err,
	}
}

type UsageError struct{ error }

func (e *UsageError) Unwrap() error {
	return e.error
}

// ExitCode picks the process exit code for an error returned by Execute
func ExitCode(err error) int {
	var exitErr *ExitError
	var usageErr *UsageError
	var fieldErrs validation.FieldErrors
	switch {
	case err == nil:
		return 0
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.As(err, &usageErr):
		return ExitUsage
	case errors.Is(err, model.ErrNotFound):
		return ExitNotFound
	case errors.As(err, &fieldErrs):
		return ExitInvalid
	default:
		return ExitFailure
	}
}
