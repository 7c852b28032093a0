package grassmann

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Log maps a manifold point into the tangent space anchored at anchor
// (the logarithmic map). The result is an ambient×rank matrix; the tangent
// space is flat, so tangent vectors may be averaged and interpolated with
// ordinary Euclidean operations.
//
// The map is undefined when the target subspace contains a direction
// orthogonal to the anchor; this fails with *ErrTangentUndefined.
func Log(anchor, p *Point) (*mat.Dense, error) {
	if err := checkPair(anchor, p); err != nil {
		return nil, err
	}

	var cross mat.Dense
	cross.Mul(anchor.basis.T(), p.basis)

	var inv mat.Dense
	if err := inv.Inverse(&cross); err != nil {
		return nil, &ErrTangentUndefined{cause: err}
	}

	var m mat.Dense
	m.Mul(p.basis, &inv)
	m.Sub(&m, anchor.basis)

	var svd mat.SVD
	if !svd.Factorize(&m, mat.SVDThin) {
		return nil, ErrFactorization
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	values := svd.Values(nil)
	for i, s := range values {
		values[i] = math.Atan(s)
	}

	rank := anchor.Rank()
	var tangent mat.Dense
	tangent.Mul(&u, mat.NewDiagDense(rank, values))
	tangent.Mul(&tangent, v.T())
	return &tangent, nil
}

// Exp maps a tangent vector at anchor back onto the manifold (the
// exponential map). A zero tangent vector returns the anchor itself.
func Exp(anchor *Point, tangent *mat.Dense) (*Point, error) {
	rows, cols := tangent.Dims()
	if rows != anchor.Ambient() {
		return nil, &ErrAmbientMismatch{A: anchor.Ambient(), B: rows}
	}
	if cols != anchor.Rank() {
		return nil, &ErrRankMismatch{A: anchor.Rank(), B: cols}
	}

	if mat.Norm(tangent, 2) == 0 {
		return &Point{basis: mat.DenseCopyOf(anchor.basis)}, nil
	}

	var svd mat.SVD
	if !svd.Factorize(tangent, mat.SVDThin) {
		return nil, ErrFactorization
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	values := svd.Values(nil)

	rank := anchor.Rank()
	cos := make([]float64, rank)
	sin := make([]float64, rank)
	for i, s := range values {
		cos[i] = math.Cos(s)
		sin[i] = math.Sin(s)
	}

	// exp = ψ·V·cos(Σ)·Vᵀ + U·sin(Σ)·Vᵀ
	var along mat.Dense
	along.Mul(anchor.basis, &v)
	along.Mul(&along, mat.NewDiagDense(rank, cos))
	along.Mul(&along, v.T())

	var away mat.Dense
	away.Mul(&u, mat.NewDiagDense(rank, sin))
	away.Mul(&away, v.T())

	along.Add(&along, &away)
	return &Point{basis: &along}, nil
}
