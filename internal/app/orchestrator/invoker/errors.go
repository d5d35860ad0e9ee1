package invoker

import (
	"errors"
	"fmt"
)

// ConsistencyError reports a divergence between the retry harness and the
// presented retry context. It is fatal and never retried.
type ConsistencyError struct {
	Field    string
	Expected int
	Actual   int
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("retry context mismatch for %s: expected %d, got %d", e.Field, e.Expected, e.Actual)
}

// ExhaustedError reports that all permitted attempts of a logical invocation
// have failed. It wraps the failure of the last attempt.
type ExhaustedError struct {
	CorrelationId string
	Attempts      int
	Cause         error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("invocation %s failed after %d attempts: %v", e.CorrelationId, e.Attempts, e.Cause)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Cause
}

// IsConsistencyError returns whether the error is an internal-consistency
// violation of the retry contract.
func IsConsistencyError(err error) bool {
	var consistencyErr *ConsistencyError
	return errors.As(err, &consistencyErr)
}

// IsExhausted returns whether the error reports exhausted retries.
func IsExhausted(err error) bool {
	var exhaustedErr *ExhaustedError
	return errors.As(err, &exhaustedErr)
}
