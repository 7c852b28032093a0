package grassmann

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// RankMax selects the reduced rank automatically: the minimum effective rank
// (number of singular values above a relative tolerance) across all inputs.
const RankMax = 0

// Point is a point on the Grassmann manifold, represented by an orthonormal
// basis of the subspace it denotes. Points are immutable once built.
type Point struct {
	basis *mat.Dense // ambient×rank, orthonormal columns
}

// NewPoint wraps an orthonormal basis matrix as a manifold point.
// The basis is copied; the caller keeps ownership of b.
//
// NewPoint does not verify orthonormality. Use FromMatrix to derive a point
// from an arbitrary data matrix.
func NewPoint(b mat.Matrix) *Point {
	return &Point{basis: mat.DenseCopyOf(b)}
}

// Ambient returns the dimension of the ambient space (rows of the basis).
func (p *Point) Ambient() int {
	r, _ := p.basis.Dims()
	return r
}

// Rank returns the dimension of the subspace (columns of the basis).
func (p *Point) Rank() int {
	_, c := p.basis.Dims()
	return c
}

// Basis returns a copy of the orthonormal basis representative.
func (p *Point) Basis() *mat.Dense {
	return mat.DenseCopyOf(p.basis)
}

// Decomposition is the truncated SVD of one data matrix: the left and right
// singular subspaces as manifold points plus the retained singular values.
type Decomposition struct {
	Left   *Point    // column space, ambient = rows of the sample
	Right  *Point    // row space, ambient = columns of the sample
	Values []float64 // leading singular values, length = rank
}

// FromMatrix projects a data matrix onto the Grassmann manifold by retaining
// the first rank left-singular vectors of its thin SVD.
//
// rank must be positive, or RankMax to use the matrix's effective rank.
// An explicit rank above the effective rank fails with *ErrDimensionMismatch.
func FromMatrix(a mat.Matrix, rank int) (*Point, error) {
	d, err := Decompose(a, rank)
	if err != nil {
		return nil, err
	}
	return d.Left, nil
}

// Decompose computes the rank-truncated SVD of a data matrix, exposing both
// singular subspaces and the singular values. See FromMatrix for the rank
// policy.
func Decompose(a mat.Matrix, rank int) (*Decomposition, error) {
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return nil, ErrFactorization
	}

	rows, cols := a.Dims()
	values := svd.Values(nil)
	eff := effectiveRank(values, rows, cols)
	if rank == RankMax {
		rank = eff
	}
	if rank > eff || rank < 1 {
		return nil, &ErrDimensionMismatch{Requested: rank, Effective: eff}
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	return &Decomposition{
		Left:   &Point{basis: mat.DenseCopyOf(u.Slice(0, rows, 0, rank))},
		Right:  &Point{basis: mat.DenseCopyOf(v.Slice(0, cols, 0, rank))},
		Values: append([]float64(nil), values[:rank]...),
	}, nil
}

// BuildPoints projects a set of data matrices onto the manifold at a common
// reduced rank. With RankMax the rank is the minimum effective rank across
// all inputs, so distance and mean computations are always well defined.
//
// All matrices must have the same number of rows (common ambient dimension).
func BuildPoints(samples []mat.Matrix, rank int) ([]*Point, error) {
	ds, err := DecomposeAll(samples, rank)
	if err != nil {
		return nil, err
	}
	points := make([]*Point, len(ds))
	for i, d := range ds {
		points[i] = d.Left
	}
	return points, nil
}

// DecomposeAll is BuildPoints for full decompositions: every sample is
// truncated to one common rank, determined by the same policy.
func DecomposeAll(samples []mat.Matrix, rank int) ([]*Decomposition, error) {
	if len(samples) == 0 {
		return nil, ErrNoPoints
	}

	// Factorize everything once up front; the RankMax policy needs all
	// effective ranks before any basis can be sliced.
	svds := make([]*mat.SVD, len(samples))
	effs := make([]int, len(samples))
	ambient, _ := samples[0].Dims()
	minEff := math.MaxInt

	for i, a := range samples {
		rows, cols := a.Dims()
		if rows != ambient {
			return nil, &ErrAmbientMismatch{A: ambient, B: rows}
		}
		var svd mat.SVD
		if !svd.Factorize(a, mat.SVDThin) {
			return nil, ErrFactorization
		}
		svds[i] = &svd
		effs[i] = effectiveRank(svd.Values(nil), rows, cols)
		if effs[i] < minEff {
			minEff = effs[i]
		}
	}

	if rank == RankMax {
		rank = minEff
	}

	ds := make([]*Decomposition, len(samples))
	for i, a := range samples {
		if rank > effs[i] || rank < 1 {
			return nil, &ErrDimensionMismatch{Requested: rank, Effective: effs[i]}
		}
		rows, cols := a.Dims()
		values := svds[i].Values(nil)

		var u, v mat.Dense
		svds[i].UTo(&u)
		svds[i].VTo(&v)

		ds[i] = &Decomposition{
			Left:   &Point{basis: mat.DenseCopyOf(u.Slice(0, rows, 0, rank))},
			Right:  &Point{basis: mat.DenseCopyOf(v.Slice(0, cols, 0, rank))},
			Values: append([]float64(nil), values[:rank]...),
		}
	}
	return ds, nil
}

// effectiveRank counts singular values above the relative tolerance
// max(m,n)·eps·s_max, the same cutoff used by LAPACK-style rank estimation.
func effectiveRank(values []float64, m, n int) int {
	if len(values) == 0 || values[0] == 0 {
		return 0
	}
	dim := m
	if n > dim {
		dim = n
	}
	tol := float64(dim) * machEps * values[0]
	rank := 0
	for _, s := range values {
		if s > tol {
			rank++
		}
	}
	return rank
}

var machEps = math.Nextafter(1, 2) - 1

func checkPair(a, b *Point) error {
	if a.Ambient() != b.Ambient() {
		return &ErrAmbientMismatch{A: a.Ambient(), B: b.Ambient()}
	}
	if a.Rank() != b.Rank() {
		return &ErrRankMismatch{A: a.Rank(), B: b.Rank()}
	}
	return nil
}
