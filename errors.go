package grassgo

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSamples is returned when Fit receives no samples.
	ErrNoSamples = errors.New("at least one sample is required")

	// ErrNilStrategy is returned when no interpolation strategy is supplied.
	ErrNilStrategy = errors.New("strategy must not be nil")

	// ErrSampleCountMismatch is returned when the number of coordinates does
	// not equal the number of samples.
	ErrSampleCountMismatch = errors.New("coordinates and samples must have equal length")
)

// ErrCoordinateMismatch indicates a coordinate whose dimension differs from
// the rest of the set (or, at predict time, from the fitted coordinates).
type ErrCoordinateMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrCoordinateMismatch) Error() string {
	return fmt.Sprintf("coordinate dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// ErrShapeMismatch indicates a sample matrix whose shape differs from the
// first sample. Ambient reconstruction requires one common shape.
type ErrShapeMismatch struct {
	Index    int
	WantRows int
	WantCols int
	GotRows  int
	GotCols  int
}

func (e *ErrShapeMismatch) Error() string {
	return fmt.Sprintf("sample %d has shape %d×%d, want %d×%d",
		e.Index, e.GotRows, e.GotCols, e.WantRows, e.WantCols)
}

// StrategyError wraps a failure of the caller-supplied strategy (a contract
// violation or an error raised by the strategy itself) with enough context
// to localize the fault: the stage (fit or predict), the target being
// interpolated, and the query coordinate when predicting.
//
// The underlying error can be accessed via errors.Unwrap.
type StrategyError struct {
	Stage  string // "fit" or "predict"
	Target string // "left", "right", "values", or "entry(r,c)"
	Query  []float64
	Err    error
}

func (e *StrategyError) Error() string {
	if len(e.Query) > 0 {
		return fmt.Sprintf("strategy %s failed for %s at query %v: %v", e.Stage, e.Target, e.Query, e.Err)
	}
	return fmt.Sprintf("strategy %s failed for %s: %v", e.Stage, e.Target, e.Err)
}

func (e *StrategyError) Unwrap() error { return e.Err }
