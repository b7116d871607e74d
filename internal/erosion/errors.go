package erosion

import (
	"errors"
	"fmt"
)

// Domain errors for erosion operations.
var (
	// ErrInvalidRain indicates a negative or non-finite rainfall rate.
	ErrInvalidRain = errors.New("erosion: rainfall must be finite and non-negative")

	// ErrInvalidParam indicates a tunable outside its documented range.
	ErrInvalidParam = errors.New("erosion: parameter out of valid bounds")

	// ErrUnknownParam indicates a tunable name that does not exist.
	ErrUnknownParam = errors.New("erosion: unknown parameter")

	// ErrOutOfBounds indicates a grid coordinate outside the terrain.
	ErrOutOfBounds = errors.New("erosion: coordinate outside terrain")

	// ErrNilTerrain indicates a missing input snapshot.
	ErrNilTerrain = errors.New("erosion: nil terrain")
)

// ParamError wraps a parameter validation failure with its name and value.
type ParamError struct {
	Name    string
	Value   float64
	Wrapped error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%v: %s=%g", e.Wrapped, e.Name, e.Value)
}

func (e *ParamError) Unwrap() error {
	return e.Wrapped
}

// CellError wraps a coordinate failure with the offending position.
type CellError struct {
	X, Y    int
	Size    int
	Wrapped error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("%v: (%d,%d) on %dx%d grid", e.Wrapped, e.X, e.Y, e.Size, e.Size)
}

func (e *CellError) Unwrap() error {
	return e.Wrapped
}
