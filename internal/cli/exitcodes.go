package cli

import "errors"

// Exit codes for collation.
const (
	// ExitSuccess indicates the run finished without errors.
	ExitSuccess = 0

	// ExitFailure covers configuration errors, unknown rules, unresolved
	// paths, failed files and, with --check, pending fixes.
	ExitFailure = 1
)

// ErrViolationsFound is returned by run --check when files would change.
var ErrViolationsFound = errors.New("violations found")

// ExitCode maps a command error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	return ExitFailure
}

// IsSilent reports whether err was already reported to the user and
// needs no extra log line.
func IsSilent(err error) bool {
	return errors.Is(err, ErrViolationsFound)
}
