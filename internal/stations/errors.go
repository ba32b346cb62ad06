package stations

import "fmt"

// SourceUnavailableError indicates the backing station directory could
// not be loaded. No partial selection is ever returned alongside it.
type SourceUnavailableError struct {
	Err error
}

func (e *SourceUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("station directory unavailable: %v", e.Err)
	}
	return "station directory unavailable"
}

func (e *SourceUnavailableError) Unwrap() error {
	return e.Err
}

// NewSourceUnavailableError wraps a loader failure
func NewSourceUnavailableError(err error) *SourceUnavailableError {
	return &SourceUnavailableError{Err: err}
}

// InvalidFilterError reports malformed filter input: wrong bounds element
// count, an unknown inventory resolution, or an inverted inventory period.
type InvalidFilterError struct {
	Message string
}

func (e *InvalidFilterError) Error() string {
	return e.Message
}

func NewInvalidFilterError(format string, args ...any) *InvalidFilterError {
	return &InvalidFilterError{Message: fmt.Sprintf(format, args...)}
}
