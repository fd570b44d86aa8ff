package errors

import (
	"errors"
	"fmt"
)

var (
	ErrConfigMissing = errors.New("config missing")
	ErrInvalidConfig = errors.New("invalid config")
	ErrDataMissing   = errors.New("data missing")
	ErrIOFailure     = errors.New("io failure")
	ErrEncoding      = errors.New("invalid text encoding")
)

const (
	ExitOK      = 0
	ExitFailure = 1
	ExitConfig  = 2
)

// AppError ties a sentinel kind to the document it happened on. Cause is the
// underlying error, if any.
type AppError struct {
	Err      error
	Document string
	Message  string
	Cause    error
}

func (e *AppError) Error() string {
	msg := e.Err.Error()
	if e.Document != "" {
		msg = fmt.Sprintf("%s: document %q", msg, e.Document)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *AppError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

func New(sentinel error, document string, message string) *AppError {
	return &AppError{
		Err:      sentinel,
		Document: document,
		Message:  message,
	}
}

func Newf(sentinel error, document string, format string, args ...any) *AppError {
	return &AppError{
		Err:      sentinel,
		Document: document,
		Message:  fmt.Sprintf(format, args...),
	}
}

func Wrap(sentinel error, document string, cause error) *AppError {
	return &AppError{
		Err:      sentinel,
		Document: document,
		Cause:    cause,
	}
}

// DocumentOf returns the document an error was raised for, or "" when the
// error is not document-scoped.
func DocumentOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Document
	}
	return ""
}

// ExitCode maps a run error to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrConfigMissing), errors.Is(err, ErrInvalidConfig):
		return ExitConfig
	default:
		return ExitFailure
	}
}
