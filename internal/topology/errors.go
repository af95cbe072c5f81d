package topology

import (
	"errors"
	"fmt"
)

// ErrTopology classifies every failure to obtain or decode the workspace
// mapping. Such failures are fatal to a run.
var ErrTopology = errors.New("workspace topology unavailable")

// Error wraps a topology failure with the source that produced it.
type Error struct {
	Source string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s (%s): %v", ErrTopology.Error(), e.Source, e.Err)
}

func (e *Error) Unwrap() []error { return []error{ErrTopology, e.Err} }
