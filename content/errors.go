package content

import "fmt"

// BuildError reports a document that cannot be loaded. Any BuildError fails
// the whole load.
type BuildError struct {
	Path   string
	Field  string
	Reason string
	Err    error
}

func (e *BuildError) Error() string {
	msg := e.Path
	if e.Field != "" {
		msg += ": field " + fmt.Sprintf("%q", e.Field)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

func fieldError(path, field, reason string) *BuildError {
	return &BuildError{Path: path, Field: field, Reason: reason}
}
