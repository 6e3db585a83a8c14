package domain

import "fmt"

// ValidationError reports a malformed or missing input field. The route
// layer maps it to a 400-class response.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for a named field.
func NewValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// InvalidIDError reports an identifier that is not a valid document id.
// Distinct from NotFoundError: the id is syntactically broken, the store
// was never consulted.
type InvalidIDError struct {
	ID string
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("invalid object id %q", e.ID)
}

// NotFoundError reports a well-formed id with no matching entity.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// PersistenceError reports a write the store did not acknowledge or a
// driver failure on an operation that should have succeeded. Treated as a
// server-side fault by the route layer.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("persistence failure in %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("persistence failure in %s", e.Op)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
