// Package stage tags pipeline failures with the stage that produced them.
package stage

import (
	"errors"
	"fmt"
)

// Name identifies a pipeline stage.
type Name string

const (
	Config     Name = "config"
	Import     Name = "import"
	Categorize Name = "categorize"
	Train      Name = "train"
	Predict    Name = "predict"
	Journal    Name = "journal"
	Export     Name = "export"
)

// Error is a failure attributed to one stage.
type Error struct {
	Stage Name
	Err   error
}

// Wrap attributes err to stage s. A nil err stays nil, and an error that
// already carries a stage keeps it.
func Wrap(s Name, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Stage: s, Err: err}
}

// Errorf formats an error and attributes it to stage s.
func Errorf(s Name, format string, args ...any) error {
	return &Error{Stage: s, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Of returns the stage recorded in err's chain, or "" if there is none.
func Of(err error) Name {
	var se *Error
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
