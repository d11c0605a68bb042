package services

import (
	"errors"
	"fmt"
)

// Failure is the structured reason a provider adapter reports when an
// external call does not produce an artifact. Adapters return *Failure for
// expected provider-side outcomes (bad status codes, missing credentials,
// tool exits) and plain errors for everything unexpected.
type Failure struct {
	Reason string
}

func (f *Failure) Error() string { return f.Reason }

// Failf builds a Failure from a format string.
func Failf(format string, args ...any) *Failure {
	return &Failure{Reason: fmt.Sprintf(format, args...)}
}

// FailureReason extracts the structured reason when err wraps a Failure.
func FailureReason(err error) (string, bool) {
	var failure *Failure
	if errors.As(err, &failure) {
		return failure.Reason, true
	}
	return "", false
}
