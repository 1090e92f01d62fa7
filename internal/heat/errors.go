package heat

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedLayout indicates layout rows that cannot form a rectangle.
	ErrMalformedLayout = errors.New("heat: malformed layout")

	// ErrInvalidParameter indicates a stepper constant outside its valid range.
	ErrInvalidParameter = errors.New("heat: invalid parameter")
)

// LayoutError reports the first row whose filtered length differs from the
// width established by row 0.
type LayoutError struct {
	Row  int
	Want int
	Got  int
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("heat: malformed layout: row %d has %d cells, want %d", e.Row, e.Got, e.Want)
}

func (e *LayoutError) Unwrap() error {
	return ErrMalformedLayout
}
