package submission

import "errors"

// ErrServerFailure is the only failure callers of Submit can observe.
var ErrServerFailure = errors.New("server error")

// ServerError hides the cause of a failed submission from callers while
// keeping it available to logs through errors.Is/As.
type ServerError struct {
	Op  string
	Err error
}

func (e *ServerError) Error() string {
	if e.Op == "" {
		return ErrServerFailure.Error()
	}
	return "submission: " + e.Op + ": " + ErrServerFailure.Error()
}

// Unwrap exposes both ErrServerFailure and the underlying cause.
func (e *ServerError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrServerFailure}
	}
	return []error{ErrServerFailure, e.Err}
}
