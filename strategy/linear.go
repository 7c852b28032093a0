package strategy

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrInsufficientSamples is returned when a strategy needs more training
// observations than were supplied.
var ErrInsufficientSamples = errors.New("not enough training observations")

// Linear is multilinear least-squares regression: a model of the form
// y = b₀ + b₁x₁ + … + b_d·x_d fitted independently per output component via
// QR decomposition. Requires at least dim+1 observations.
type Linear struct{}

// Fit implements Strategy.
func (Linear) Fit(coords, values [][]float64) (Predictor, error) {
	dim, width, err := checkTraining(coords, values)
	if err != nil {
		return nil, err
	}
	n := len(coords)
	if n < dim+1 {
		return nil, fmt.Errorf("%w: linear regression over %d dimensions needs at least %d observations, got %d",
			ErrInsufficientSamples, dim, dim+1, n)
	}

	design := mat.NewDense(n, dim+1, nil)
	target := mat.NewDense(n, width, nil)
	for i := 0; i < n; i++ {
		design.Set(i, 0, 1)
		for j, x := range coords[i] {
			design.Set(i, j+1, x)
		}
		target.SetRow(i, values[i])
	}

	var qr mat.QR
	qr.Factorize(design)

	coef := mat.NewDense(dim+1, width, nil)
	if err := qr.SolveTo(coef, false, target); err != nil {
		return nil, fmt.Errorf("least squares solve: %w", err)
	}

	return &linearPredictor{dim: dim, width: width, coef: coef}, nil
}

type linearPredictor struct {
	dim   int
	width int
	coef  *mat.Dense
}

func (p *linearPredictor) Predict(query []float64) ([]float64, error) {
	if err := checkQuery(query, p.dim); err != nil {
		return nil, err
	}
	row := make([]float64, p.dim+1)
	row[0] = 1
	copy(row[1:], query)

	var out mat.Dense
	out.Mul(mat.NewDense(1, p.dim+1, row), p.coef)
	return append([]float64(nil), out.RawRowView(0)...), nil
}
