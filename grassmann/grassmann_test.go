package grassmann

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/grassgo/testutil"
)

func assertOrthonormal(t *testing.T, p *Point) {
	t.Helper()

	b := p.Basis()
	var gram mat.Dense
	gram.Mul(b.T(), b)

	r, c := gram.Dims()
	require.Equal(t, r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			assert.InDelta(t, want, gram.At(i, j), 1e-10)
		}
	}
}

func TestFromMatrix(t *testing.T) {
	rng := testutil.NewRNG(42)

	t.Run("ExplicitRank", func(t *testing.T) {
		p, err := FromMatrix(rng.Matrix(8, 5), 3)
		require.NoError(t, err)
		assert.Equal(t, 8, p.Ambient())
		assert.Equal(t, 3, p.Rank())
		assertOrthonormal(t, p)
	})

	t.Run("RankMaxUsesEffectiveRank", func(t *testing.T) {
		p, err := FromMatrix(rng.LowRankMatrix(10, 6, 2), RankMax)
		require.NoError(t, err)
		assert.Equal(t, 2, p.Rank())
		assertOrthonormal(t, p)
	})

	t.Run("RankAboveEffectiveFails", func(t *testing.T) {
		_, err := FromMatrix(rng.LowRankMatrix(10, 6, 2), 4)
		var dimErr *ErrDimensionMismatch
		require.ErrorAs(t, err, &dimErr)
		assert.Equal(t, 4, dimErr.Requested)
		assert.Equal(t, 2, dimErr.Effective)
	})

	t.Run("NegativeRankFails", func(t *testing.T) {
		_, err := FromMatrix(rng.Matrix(6, 4), -1)
		var dimErr *ErrDimensionMismatch
		require.ErrorAs(t, err, &dimErr)
	})
}

func TestDecompose(t *testing.T) {
	rng := testutil.NewRNG(7)

	d, err := Decompose(rng.Matrix(9, 6), 4)
	require.NoError(t, err)

	assert.Equal(t, 9, d.Left.Ambient())
	assert.Equal(t, 6, d.Right.Ambient())
	assert.Equal(t, 4, d.Left.Rank())
	assert.Equal(t, 4, d.Right.Rank())
	require.Len(t, d.Values, 4)

	assertOrthonormal(t, d.Left)
	assertOrthonormal(t, d.Right)

	// Singular values come out non-negative and descending.
	for i := 1; i < len(d.Values); i++ {
		assert.GreaterOrEqual(t, d.Values[i-1], d.Values[i])
	}
	assert.GreaterOrEqual(t, d.Values[len(d.Values)-1], 0.0)
}

func TestDecomposeAll(t *testing.T) {
	rng := testutil.NewRNG(11)

	t.Run("CommonRankIsMinimum", func(t *testing.T) {
		samples := []mat.Matrix{
			rng.LowRankMatrix(8, 8, 4),
			rng.LowRankMatrix(8, 8, 2),
			rng.LowRankMatrix(8, 8, 3),
		}
		ds, err := DecomposeAll(samples, RankMax)
		require.NoError(t, err)
		require.Len(t, ds, 3)
		for _, d := range ds {
			assert.Equal(t, 2, d.Left.Rank())
			assert.Equal(t, 2, d.Right.Rank())
		}
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := DecomposeAll(nil, RankMax)
		assert.ErrorIs(t, err, ErrNoPoints)
	})

	t.Run("AmbientMismatch", func(t *testing.T) {
		samples := []mat.Matrix{rng.Matrix(8, 5), rng.Matrix(6, 5)}
		_, err := DecomposeAll(samples, RankMax)
		var ambErr *ErrAmbientMismatch
		require.ErrorAs(t, err, &ambErr)
	})
}

func TestPrincipalAngles(t *testing.T) {
	t.Run("OrthogonalPlanes", func(t *testing.T) {
		// Span{e1,e2} vs Span{e3,e4} in R^4: both angles are pi/2.
		a := NewPoint(mat.NewDense(4, 2, []float64{
			1, 0,
			0, 1,
			0, 0,
			0, 0,
		}))
		b := NewPoint(mat.NewDense(4, 2, []float64{
			0, 0,
			0, 0,
			1, 0,
			0, 1,
		}))

		angles, err := PrincipalAngles(a, b)
		require.NoError(t, err)
		require.Len(t, angles, 2)
		assert.InDelta(t, math.Pi/2, angles[0], 1e-12)
		assert.InDelta(t, math.Pi/2, angles[1], 1e-12)
	})

	t.Run("SharedDirection", func(t *testing.T) {
		// Span{e1,e2} vs Span{e1,e3}: one zero angle, one right angle.
		a := NewPoint(mat.NewDense(4, 2, []float64{
			1, 0,
			0, 1,
			0, 0,
			0, 0,
		}))
		b := NewPoint(mat.NewDense(4, 2, []float64{
			1, 0,
			0, 0,
			0, 1,
			0, 0,
		}))

		angles, err := PrincipalAngles(a, b)
		require.NoError(t, err)
		require.Len(t, angles, 2)
		assert.InDelta(t, 0, angles[0], 1e-12)
		assert.InDelta(t, math.Pi/2, angles[1], 1e-12)
	})

	t.Run("Ascending", func(t *testing.T) {
		rng := testutil.NewRNG(3)
		a, err := FromMatrix(rng.Matrix(10, 4), 4)
		require.NoError(t, err)
		b, err := FromMatrix(rng.Matrix(10, 4), 4)
		require.NoError(t, err)

		angles, err := PrincipalAngles(a, b)
		require.NoError(t, err)
		for i := 1; i < len(angles); i++ {
			assert.LessOrEqual(t, angles[i-1], angles[i])
		}
	})

	t.Run("RankMismatch", func(t *testing.T) {
		rng := testutil.NewRNG(5)
		a, err := FromMatrix(rng.Matrix(8, 5), 3)
		require.NoError(t, err)
		b, err := FromMatrix(rng.Matrix(8, 5), 2)
		require.NoError(t, err)

		_, err = PrincipalAngles(a, b)
		var rankErr *ErrRankMismatch
		require.ErrorAs(t, err, &rankErr)
	})
}

func TestDistance(t *testing.T) {
	rng := testutil.NewRNG(21)

	a, err := FromMatrix(rng.Matrix(10, 4), 3)
	require.NoError(t, err)
	b, err := FromMatrix(rng.Matrix(10, 4), 3)
	require.NoError(t, err)

	t.Run("SelfDistanceIsZero", func(t *testing.T) {
		d, err := Distance(a, a)
		require.NoError(t, err)
		assert.InDelta(t, 0, d, 1e-8)
	})

	t.Run("Symmetric", func(t *testing.T) {
		ab, err := Distance(a, b)
		require.NoError(t, err)
		ba, err := Distance(b, a)
		require.NoError(t, err)
		assert.InDelta(t, ab, ba, 1e-10)
		assert.Greater(t, ab, 0.0)
	})

	t.Run("InvariantToBasisChoice", func(t *testing.T) {
		// Swapping and negating basis columns leaves the subspace unchanged.
		basis := a.Basis()
		rows, _ := basis.Dims()
		alt := mat.NewDense(rows, 3, nil)
		for i := 0; i < rows; i++ {
			alt.Set(i, 0, basis.At(i, 1))
			alt.Set(i, 1, -basis.At(i, 0))
			alt.Set(i, 2, basis.At(i, 2))
		}

		d, err := Distance(a, NewPoint(alt))
		require.NoError(t, err)
		assert.InDelta(t, 0, d, 1e-8)
	})
}

func TestLogExp(t *testing.T) {
	rng := testutil.NewRNG(33)

	anchor, err := FromMatrix(rng.Matrix(12, 5), 3)
	require.NoError(t, err)

	t.Run("LogAtSelfIsZero", func(t *testing.T) {
		tangent, err := Log(anchor, anchor)
		require.NoError(t, err)
		assert.InDelta(t, 0, mat.Norm(tangent, 2), 1e-8)
	})

	t.Run("ExpOfZeroIsAnchor", func(t *testing.T) {
		zero := mat.NewDense(12, 3, nil)
		p, err := Exp(anchor, zero)
		require.NoError(t, err)
		assert.True(t, mat.Equal(anchor.Basis(), p.Basis()))
	})

	t.Run("RoundTrip", func(t *testing.T) {
		target, err := FromMatrix(rng.Matrix(12, 5), 3)
		require.NoError(t, err)

		tangent, err := Log(anchor, target)
		require.NoError(t, err)
		back, err := Exp(anchor, tangent)
		require.NoError(t, err)

		d, err := Distance(target, back)
		require.NoError(t, err)
		assert.InDelta(t, 0, d, 1e-6)
		assertOrthonormal(t, back)
	})

	t.Run("LogUndefinedOnOrthogonalPair", func(t *testing.T) {
		a := NewPoint(mat.NewDense(4, 2, []float64{
			1, 0,
			0, 1,
			0, 0,
			0, 0,
		}))
		b := NewPoint(mat.NewDense(4, 2, []float64{
			0, 0,
			0, 0,
			1, 0,
			0, 1,
		}))

		_, err := Log(a, b)
		var tanErr *ErrTangentUndefined
		require.ErrorAs(t, err, &tanErr)
		assert.Error(t, errors.Unwrap(err))
	})

	t.Run("ExpShapeMismatch", func(t *testing.T) {
		_, err := Exp(anchor, mat.NewDense(12, 4, nil))
		var rankErr *ErrRankMismatch
		require.ErrorAs(t, err, &rankErr)

		_, err = Exp(anchor, mat.NewDense(10, 3, nil))
		var ambErr *ErrAmbientMismatch
		require.ErrorAs(t, err, &ambErr)
	})
}

func TestKarcherMean(t *testing.T) {
	rng := testutil.NewRNG(55)

	t.Run("IdenticalPoints", func(t *testing.T) {
		p, err := FromMatrix(rng.Matrix(10, 4), 3)
		require.NoError(t, err)

		mean, converged, err := KarcherMean([]*Point{p, p, p})
		require.NoError(t, err)
		assert.True(t, converged)

		d, err := Distance(mean, p)
		require.NoError(t, err)
		assert.InDelta(t, 0, d, 1e-8)
	})

	t.Run("SinglePoint", func(t *testing.T) {
		p, err := FromMatrix(rng.Matrix(8, 3), 2)
		require.NoError(t, err)

		mean, converged, err := KarcherMean([]*Point{p})
		require.NoError(t, err)
		assert.True(t, converged)
		assert.True(t, mat.Equal(p.Basis(), mean.Basis()))
	})

	t.Run("CentersNearbyCluster", func(t *testing.T) {
		// Perturb one subspace a little; the mean must stay closer to every
		// cluster member than the members are spread out.
		base := rng.Matrix(12, 4)
		points := make([]*Point, 4)
		for i := range points {
			pert := mat.DenseCopyOf(base)
			noise := rng.Matrix(12, 4)
			noise.Scale(0.05, noise)
			pert.Add(pert, noise)
			p, err := FromMatrix(pert, 3)
			require.NoError(t, err)
			points[i] = p
		}

		mean, converged, err := KarcherMean(points)
		require.NoError(t, err)
		assert.True(t, converged)
		assertOrthonormal(t, mean)

		var maxSpread float64
		for i := range points {
			for j := i + 1; j < len(points); j++ {
				d, err := Distance(points[i], points[j])
				require.NoError(t, err)
				maxSpread = math.Max(maxSpread, d)
			}
		}
		for _, p := range points {
			d, err := Distance(mean, p)
			require.NoError(t, err)
			assert.LessOrEqual(t, d, maxSpread)
		}
	})

	t.Run("IterationBudgetSoftFails", func(t *testing.T) {
		a, err := FromMatrix(rng.Matrix(10, 4), 3)
		require.NoError(t, err)
		b, err := FromMatrix(rng.Matrix(10, 4), 3)
		require.NoError(t, err)

		mean, converged, err := KarcherMean([]*Point{a, b}, func(o *KarcherOptions) {
			o.MaxIterations = 1
			o.Tolerance = 1e-300
		})
		require.NoError(t, err)
		assert.False(t, converged)
		require.NotNil(t, mean)
		assertOrthonormal(t, mean)
	})

	t.Run("Empty", func(t *testing.T) {
		_, _, err := KarcherMean(nil)
		assert.ErrorIs(t, err, ErrNoPoints)
	})
}
