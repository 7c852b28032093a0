package strategy

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// VariogramModel selects the semivariance model used by Kriging.
type VariogramModel int

const (
	// Gaussian approaches the sill asymptotically with parabolic behavior
	// near the origin.
	Gaussian VariogramModel = iota
	// Spherical reaches the sill exactly at the range.
	Spherical
	// Exponential approaches the sill asymptotically.
	Exponential
)

func (m VariogramModel) String() string {
	switch m {
	case Gaussian:
		return "Gaussian"
	case Spherical:
		return "Spherical"
	case Exponential:
		return "Exponential"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// Kriging is ordinary kriging: weights are solved from the variogram system
// with a Lagrange multiplier enforcing that they sum to one, then applied to
// the training values. The system is factorized once at Fit; each Predict is
// a single triangular solve.
type Kriging struct {
	// Model is the variogram model. The zero value is Gaussian.
	Model VariogramModel

	// Range is the variogram range. Zero means half the maximum pairwise
	// distance among the training coordinates.
	Range float64

	// Sill is the variogram sill. Zero means 1.
	Sill float64

	// Nugget is the nugget effect added to the structured component.
	Nugget float64
}

// Diagonal regularization against near-singular variogram systems.
const krigingJitter = 1e-10

// Fit implements Strategy.
func (s Kriging) Fit(coords, values [][]float64) (Predictor, error) {
	dim, width, err := checkTraining(coords, values)
	if err != nil {
		return nil, err
	}
	n := len(coords)

	rng := s.Range
	if rng == 0 {
		var maxDist float64
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if d := euclidean(coords[i], coords[j]); d > maxDist {
					maxDist = d
				}
			}
		}
		rng = maxDist / 2
		if rng == 0 {
			rng = 1
		}
	}
	sill := s.Sill
	if sill == 0 {
		sill = 1
	}

	p := &krigingPredictor{
		dim:    dim,
		width:  width,
		model:  s.Model,
		rng:    rng,
		sill:   sill,
		nugget: s.Nugget,
		coords: cloneRows(coords),
		values: cloneRows(values),
	}

	// (n+1)×(n+1) ordinary kriging system with unit constraint row/column.
	system := mat.NewDense(n+1, n+1, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			system.Set(i, j, p.variogram(euclidean(coords[i], coords[j])))
		}
		system.Set(i, i, system.At(i, i)+krigingJitter)
		system.Set(i, n, 1)
		system.Set(n, i, 1)
	}

	p.lu = &mat.LU{}
	p.lu.Factorize(system)
	return p, nil
}

type krigingPredictor struct {
	dim    int
	width  int
	model  VariogramModel
	rng    float64
	sill   float64
	nugget float64
	coords [][]float64
	values [][]float64
	lu     *mat.LU
}

func (p *krigingPredictor) Predict(query []float64) ([]float64, error) {
	if err := checkQuery(query, p.dim); err != nil {
		return nil, err
	}
	n := len(p.coords)

	rhs := mat.NewVecDense(n+1, nil)
	for i, c := range p.coords {
		rhs.SetVec(i, p.variogram(euclidean(query, c)))
	}
	rhs.SetVec(n, 1)

	var weights mat.VecDense
	if err := p.lu.SolveVecTo(&weights, false, rhs); err != nil {
		return nil, fmt.Errorf("kriging system solve: %w", err)
	}

	out := make([]float64, p.width)
	for i := 0; i < n; i++ {
		w := weights.AtVec(i)
		for j, v := range p.values[i] {
			out[j] += w * v
		}
	}
	return out, nil
}

func (p *krigingPredictor) variogram(h float64) float64 {
	if h == 0 {
		return 0
	}
	gamma := p.nugget
	switch p.model {
	case Spherical:
		if h < p.rng {
			r := h / p.rng
			gamma += p.sill * (1.5*r - 0.5*r*r*r)
		} else {
			gamma += p.sill
		}
	case Exponential:
		gamma += p.sill * (1 - math.Exp(-3*h/p.rng))
	default: // Gaussian
		gamma += p.sill * (1 - math.Exp(-3*h*h/(p.rng*p.rng)))
	}
	return gamma
}
