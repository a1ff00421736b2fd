package modelregistry

import (
	"fmt"

	dErrors "govintel/pkg/domain-errors"
)

// UnknownCategoryError reports a categorical value that was not part of the
// training vocabulary. It signals data drift and is never mapped to a default.
type UnknownCategoryError struct {
	Domain Domain
	Field  string
	Value  string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown %s %q for %s model", e.Field, e.Value, e.Domain)
}

// Unwrap exposes the coded form so transport code can use dErrors.HasCode.
func (e *UnknownCategoryError) Unwrap() error {
	return dErrors.New(dErrors.CodeUnknownCategory, e.Error())
}

// ModelUnavailableError is returned for a domain whose artifacts failed to load.
type ModelUnavailableError struct {
	Domain Domain
	Err    error
}

func (e *ModelUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("model %s unavailable", e.Domain)
	}
	return fmt.Sprintf("model %s unavailable: %v", e.Domain, e.Err)
}

func (e *ModelUnavailableError) Unwrap() error {
	return dErrors.Wrap(e.Err, dErrors.CodeModelUnavailable, fmt.Sprintf("model %s unavailable", e.Domain))
}
