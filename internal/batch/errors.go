package batch

import "fmt"

// UnitError records the failure of the operation for a single unit.
type UnitError struct {
	Unit string
	Path string
	Err  error
}

func (e *UnitError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("unit %s: %v", e.Unit, e.Err)
	}
	return fmt.Sprintf("unit %s (%s): %v", e.Unit, e.Path, e.Err)
}

func (e *UnitError) Unwrap() error { return e.Err }
