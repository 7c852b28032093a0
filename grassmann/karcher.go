package grassmann

import (
	"gonum.org/v1/gonum/mat"
)

// KarcherOptions configures the Karcher mean gradient descent.
type KarcherOptions struct {
	// Tolerance is the convergence threshold on the Frobenius norm of the
	// averaged tangent vector.
	Tolerance float64

	// MaxIterations bounds the gradient descent. When the budget is
	// exhausted the best available estimate is returned with a false
	// convergence flag; this is a soft signal, not an error.
	MaxIterations int

	// StepSize scales the averaged tangent step along the geodesic.
	StepSize float64
}

// DefaultKarcherOptions returns the default solver configuration.
func DefaultKarcherOptions() KarcherOptions {
	return KarcherOptions{
		Tolerance:     1e-6,
		MaxIterations: 1000,
		StepSize:      1.0,
	}
}

// KarcherMean computes the Karcher (Fréchet) mean of a set of equal-rank
// points: the point minimizing the sum of squared geodesic distances to the
// set. The mean is found by gradient descent in the tangent space, starting
// from the first input point.
//
// The boolean result reports convergence. A single input point is its own
// mean and returns immediately without entering the solver.
func KarcherMean(points []*Point, optFns ...func(*KarcherOptions)) (*Point, bool, error) {
	opts := DefaultKarcherOptions()
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}

	if len(points) == 0 {
		return nil, false, ErrNoPoints
	}
	for _, p := range points[1:] {
		if err := checkPair(points[0], p); err != nil {
			return nil, false, err
		}
	}
	if len(points) == 1 {
		return &Point{basis: mat.DenseCopyOf(points[0].basis)}, true, nil
	}

	mean := &Point{basis: mat.DenseCopyOf(points[0].basis)}
	inv := 1.0 / float64(len(points))

	for iter := 0; iter < opts.MaxIterations; iter++ {
		var avg mat.Dense
		for _, p := range points {
			t, err := Log(mean, p)
			if err != nil {
				return nil, false, err
			}
			if avg.IsEmpty() {
				avg.CloneFrom(t)
			} else {
				avg.Add(&avg, t)
			}
		}
		avg.Scale(inv, &avg)

		if mat.Norm(&avg, 2) <= opts.Tolerance {
			return mean, true, nil
		}

		avg.Scale(opts.StepSize, &avg)
		next, err := Exp(mean, &avg)
		if err != nil {
			return nil, false, err
		}
		mean = next
	}

	return mean, false, nil
}
