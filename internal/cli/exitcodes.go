package cli

import (
	"errors"

	"github.com/gemrst/rst2gem/pkg/fsutil"
)

// Exit codes for rst2gem, following BSD sysexits where one applies.
const (
	// ExitSuccess indicates successful conversion.
	ExitSuccess = 0

	// ExitConvertError indicates the document could not be converted.
	ExitConvertError = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// exitError carries an exit code with its cause through cobra's error return.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// ExitCode maps a command error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	if errors.Is(err, fsutil.ErrNotFound) ||
		errors.Is(err, fsutil.ErrPermissionDenied) ||
		errors.Is(err, fsutil.ErrIsDirectory) {
		return ExitIOError
	}
	return ExitConvertError
}
