package grassmann

import (
	"errors"
	"fmt"
)

var (
	// ErrNoPoints is returned when an operation requires at least one point.
	ErrNoPoints = errors.New("at least one point is required")

	// ErrFactorization is returned when the SVD of an input matrix fails to converge.
	ErrFactorization = errors.New("svd factorization did not converge")
)

// ErrDimensionMismatch indicates a requested rank that exceeds what the input
// matrix can support, or inputs with incompatible ambient dimensions.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Requested int
	Effective int
	cause     error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: requested rank %d exceeds effective rank %d", e.Requested, e.Effective)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

// ErrRankMismatch indicates an operation on two points of differing rank.
type ErrRankMismatch struct {
	A int
	B int
}

func (e *ErrRankMismatch) Error() string {
	return fmt.Sprintf("rank mismatch: %d vs %d", e.A, e.B)
}

// ErrAmbientMismatch indicates an operation on two points whose bases live in
// ambient spaces of differing dimension.
type ErrAmbientMismatch struct {
	A int
	B int
}

func (e *ErrAmbientMismatch) Error() string {
	return fmt.Sprintf("ambient dimension mismatch: %d vs %d", e.A, e.B)
}

// ErrTangentUndefined indicates that the logarithmic map is undefined for the
// given pair of points, i.e. the target subspace has a direction orthogonal
// to the anchor (the pair lies on the cut locus).
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrTangentUndefined struct {
	cause error
}

func (e *ErrTangentUndefined) Error() string {
	return "logarithmic map undefined: subspaces are mutually orthogonal in at least one direction"
}

func (e *ErrTangentUndefined) Unwrap() error { return e.cause }
