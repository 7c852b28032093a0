package grassmann

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// PrincipalAngles returns the principal angles between the subspaces of a
// and b, in ascending order. The angles are the arccosines of the singular
// values of aᵀb, clamped into [0, 1] against floating-point overshoot.
func PrincipalAngles(a, b *Point) ([]float64, error) {
	if err := checkPair(a, b); err != nil {
		return nil, err
	}

	var cross mat.Dense
	cross.Mul(a.basis.T(), b.basis)

	var svd mat.SVD
	if !svd.Factorize(&cross, mat.SVDNone) {
		return nil, ErrFactorization
	}

	values := svd.Values(nil)
	angles := make([]float64, len(values))
	for i, s := range values {
		if s > 1 {
			s = 1
		}
		// Singular values are non-negative, so no lower clamp is needed.
		angles[len(values)-1-i] = math.Acos(s)
	}
	return angles, nil
}

// Distance returns the geodesic distance between two points of equal rank:
// the Euclidean norm of their principal angles. It is symmetric and zero
// exactly when the two points represent the same subspace.
func Distance(a, b *Point) (float64, error) {
	angles, err := PrincipalAngles(a, b)
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, t := range angles {
		sum += t * t
	}
	return math.Sqrt(sum), nil
}
