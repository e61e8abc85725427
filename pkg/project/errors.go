package project

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFileNotFound indicates a requested path is not a project source file.
var ErrFileNotFound = errors.New("file not found in project")

// NotFoundError reports a missing file with the closest project paths.
type NotFoundError struct {
	Path        string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s: %s", ErrFileNotFound, e.Path)
	if len(e.Suggestions) == 0 {
		return msg
	}
	quoted := make([]string, len(e.Suggestions))
	for i, s := range e.Suggestions {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return msg + " (did you mean " + strings.Join(quoted, ", ") + "?)"
}

func (e *NotFoundError) Unwrap() error {
	return ErrFileNotFound
}
