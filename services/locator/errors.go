package locator

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrTargetNotDetected means the locator's target was not in the current detections.
	ErrTargetNotDetected = errors.New("target not detected")
	// ErrTargetNotLocalizable means the target was detected but no pose could be computed for it.
	ErrTargetNotLocalizable = errors.New("target detected but not localizable")
)

// LocatorError is returned by Location when no pose can be produced this cycle.
//
//nolint:revive
type LocatorError struct {
	// Locator is the locator that failed.
	Locator Locator
	Reason  string
	Err     error
}

// NewLocatorError returns a LocatorError for loc wrapping cause.
func NewLocatorError(loc Locator, reason string, cause error) *LocatorError {
	return &LocatorError{Locator: loc, Reason: reason, Err: cause}
}

func (e *LocatorError) Error() string {
	if e.Locator == nil {
		return fmt.Sprintf("locator: %s", e.Reason)
	}
	return fmt.Sprintf("locator %s: %s", e.Locator.Name().Name, e.Reason)
}

// Unwrap returns the cause, so errors.Is works against the sentinel errors.
func (e *LocatorError) Unwrap() error {
	return e.Err
}

// IsLocatorError returns the LocatorError in err's chain, if any.
func IsLocatorError(err error) (*LocatorError, bool) {
	var locErr *LocatorError
	if errors.As(err, &locErr) {
		return locErr, true
	}
	return nil, false
}
