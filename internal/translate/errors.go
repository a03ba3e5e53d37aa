package translate

import (
	"errors"
	"fmt"
)

// ErrValidation is matched by every *ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError is a request that cannot be forwarded. Its message is
// returned to the caller unchanged.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// expectParam reports a missing or mismatched request parameter.
func expectParam(name string) error {
	return &ValidationError{Message: "Expecting param " + name}
}

// expectParamValue reports a parameter that must carry a specific value.
func expectParamValue(name, value string) error {
	return &ValidationError{Message: fmt.Sprintf("Expecting param %s=%s", name, value)}
}
