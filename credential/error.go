package credential

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyPool      = errors.New("no credential configured")
	ErrEmptySecret    = errors.New("credential key cannot be empty")
	ErrInvalidWeight  = errors.New("credential weight must be positive")
	ErrDuplicateLabel = errors.New("duplicated credential label")
)

// ValidationError reports which entry of a proposed pool failed validation.
// Index is -1 when the failure is not tied to a single entry.
type ValidationError struct {
	Index int
	Label string
	// FirstIndex is the earlier entry sharing Label, set only for ErrDuplicateLabel.
	FirstIndex int
	Err        error
}

func (e *ValidationError) Error() string {
	switch {
	case e.Index < 0:
		return e.Err.Error()
	case errors.Is(e.Err, ErrDuplicateLabel):
		return fmt.Sprintf("%v: '%s' used by entries %d and %d", e.Err, e.Label, e.FirstIndex, e.Index)
	case e.Label != "":
		return fmt.Sprintf("credential entry %d ('%s'): %v", e.Index, e.Label, e.Err)
	}
	return fmt.Sprintf("credential entry %d: %v", e.Index, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
