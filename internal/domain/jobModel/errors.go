package jobModel

import (
	"errors"
	"fmt"
)

var (
	ErrJobNotFound      = errors.New("job not found")
	ErrDocumentNotFound = errors.New("document not found")
)

// ValidationError rejects malformed input before any state change happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InvalidStateError marks an operation that is illegal for the job's
// current status, such as retrying a job that has not failed.
type InvalidStateError struct {
	Op     string
	Status JobStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s job with status %q", e.Op, e.Status)
}

func IsInvalidState(err error) bool {
	var ise *InvalidStateError
	return errors.As(err, &ise)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
