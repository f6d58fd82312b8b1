package search

import "fmt"

// ValidationError rejects a malformed or incomplete query before any
// provider is contacted.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid query: %s (%s)", e.Message, e.Field)
}

// NewValidationError builds a ValidationError for a field.
func NewValidationError(field, message string) ValidationError {
	return ValidationError{Field: field, Message: message}
}

// ResolutionError reports that a destination could not be resolved. The
// engine degrades to a best-effort fabricated location rather than failing,
// so this error only surfaces when even that is impossible.
type ResolutionError struct {
	Input string
}

func (e ResolutionError) Error() string {
	return fmt.Sprintf("unable to resolve location %q", e.Input)
}
