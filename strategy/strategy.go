// Package strategy defines the pluggable fit/predict contract used for
// tangent-space interpolation and provides built-in implementations:
// nearest-neighbor, inverse distance weighting, multilinear least squares,
// and ordinary kriging.
//
// A Strategy is stateless and safe for concurrent use; fitting returns a
// Predictor that holds the trained state. Any regression or interpolation
// method can be supplied by implementing these two interfaces.
package strategy

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNoTrainingData is returned when Fit receives no observations.
	ErrNoTrainingData = errors.New("at least one training observation is required")

	// ErrTrainingMismatch is returned when coordinates and values differ in
	// count, or when rows have inconsistent widths.
	ErrTrainingMismatch = errors.New("coordinates and values must be consistent in count and width")

	// ErrQueryDimension is returned by Predict when the query coordinate has
	// a different dimension than the training coordinates.
	ErrQueryDimension = errors.New("query dimension differs from training coordinates")
)

// Strategy fits N (coordinate → vector) observations and returns a Predictor
// for new coordinates.
type Strategy interface {
	Fit(coords [][]float64, values [][]float64) (Predictor, error)
}

// Predictor estimates the value vector at a query coordinate. The returned
// slice has the same width as the training values.
type Predictor interface {
	Predict(query []float64) ([]float64, error)
}

// checkTraining validates a training set and returns (coordinate dimension,
// value width).
func checkTraining(coords, values [][]float64) (int, int, error) {
	if len(coords) == 0 {
		return 0, 0, ErrNoTrainingData
	}
	if len(coords) != len(values) {
		return 0, 0, fmt.Errorf("%w: %d coordinates, %d values", ErrTrainingMismatch, len(coords), len(values))
	}
	dim := len(coords[0])
	width := len(values[0])
	for i := range coords {
		if len(coords[i]) != dim {
			return 0, 0, fmt.Errorf("%w: coordinate %d has width %d, want %d", ErrTrainingMismatch, i, len(coords[i]), dim)
		}
		if len(values[i]) != width {
			return 0, 0, fmt.Errorf("%w: value %d has width %d, want %d", ErrTrainingMismatch, i, len(values[i]), width)
		}
	}
	return dim, width, nil
}

func checkQuery(query []float64, dim int) error {
	if len(query) != dim {
		return fmt.Errorf("%w: got %d, want %d", ErrQueryDimension, len(query), dim)
	}
	return nil
}

func euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

func cloneRows(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		out[i] = append([]float64(nil), r...)
	}
	return out
}
