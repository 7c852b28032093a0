package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitSquare() [][]float64 {
	return [][]float64{
		{0, 0},
		{1, 0},
		{1, 1},
		{0, 1},
	}
}

func TestCheckTraining(t *testing.T) {
	tests := []struct {
		name    string
		coords  [][]float64
		values  [][]float64
		wantErr error
	}{
		{"Empty", nil, nil, ErrNoTrainingData},
		{"CountMismatch", [][]float64{{0}}, [][]float64{{1}, {2}}, ErrTrainingMismatch},
		{"RaggedCoords", [][]float64{{0, 0}, {1}}, [][]float64{{1}, {2}}, ErrTrainingMismatch},
		{"RaggedValues", [][]float64{{0}, {1}}, [][]float64{{1, 2}, {3}}, ErrTrainingMismatch},
		{"OK", [][]float64{{0}, {1}}, [][]float64{{1}, {2}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := checkTraining(tt.coords, tt.values)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNearest(t *testing.T) {
	coords := unitSquare()
	values := [][]float64{{1, 10}, {2, 20}, {3, 30}, {4, 40}}

	pred, err := Nearest{}.Fit(coords, values)
	require.NoError(t, err)

	t.Run("PicksClosest", func(t *testing.T) {
		got, err := pred.Predict([]float64{0.9, 0.1})
		require.NoError(t, err)
		assert.Equal(t, []float64{2, 20}, got)
	})

	t.Run("ExactHit", func(t *testing.T) {
		got, err := pred.Predict([]float64{0, 1})
		require.NoError(t, err)
		assert.Equal(t, []float64{4, 40}, got)
	})

	t.Run("QueryDimension", func(t *testing.T) {
		_, err := pred.Predict([]float64{0.5})
		assert.ErrorIs(t, err, ErrQueryDimension)
	})
}

func TestIDW(t *testing.T) {
	coords := unitSquare()
	values := [][]float64{{1}, {2}, {3}, {4}}

	pred, err := IDW{}.Fit(coords, values)
	require.NoError(t, err)

	t.Run("ExactHitReturnsTrainingValue", func(t *testing.T) {
		for i, c := range coords {
			got, err := pred.Predict(c)
			require.NoError(t, err)
			assert.Equal(t, values[i], got)
		}
	})

	t.Run("CenterIsMeanBySymmetry", func(t *testing.T) {
		got, err := pred.Predict([]float64{0.5, 0.5})
		require.NoError(t, err)
		assert.InDelta(t, 2.5, got[0], 1e-10)
	})

	t.Run("StaysWithinRange", func(t *testing.T) {
		got, err := pred.Predict([]float64{0.3, 0.7})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got[0], 1.0)
		assert.LessOrEqual(t, got[0], 4.0)
	})

	t.Run("CustomPower", func(t *testing.T) {
		sharp, err := IDW{Power: 8}.Fit(coords, values)
		require.NoError(t, err)

		// A high power makes the estimate hug the nearest neighbor.
		got, err := sharp.Predict([]float64{0.1, 0.05})
		require.NoError(t, err)
		assert.InDelta(t, 1.0, got[0], 0.1)
	})
}

func TestLinear(t *testing.T) {
	t.Run("ReproducesLinearFunction", func(t *testing.T) {
		// y = 2 + 3x1 - x2, recovered exactly from 4 points.
		coords := unitSquare()
		f := func(c []float64) float64 { return 2 + 3*c[0] - c[1] }
		values := make([][]float64, len(coords))
		for i, c := range coords {
			values[i] = []float64{f(c)}
		}

		pred, err := Linear{}.Fit(coords, values)
		require.NoError(t, err)

		queries := [][]float64{{0.5, 0.5}, {0.2, 0.8}, {2, -1}}
		for _, q := range queries {
			got, err := pred.Predict(q)
			require.NoError(t, err)
			assert.InDelta(t, f(q), got[0], 1e-10)
		}
	})

	t.Run("MultiOutput", func(t *testing.T) {
		coords := unitSquare()
		values := [][]float64{{0, 0}, {1, 2}, {2, 3}, {1, 1}}

		pred, err := Linear{}.Fit(coords, values)
		require.NoError(t, err)

		got, err := pred.Predict([]float64{0.5, 0.5})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("TooFewObservations", func(t *testing.T) {
		_, err := Linear{}.Fit([][]float64{{0, 0}, {1, 1}}, [][]float64{{1}, {2}})
		assert.ErrorIs(t, err, ErrInsufficientSamples)
	})
}

func TestKriging(t *testing.T) {
	coords := unitSquare()
	values := [][]float64{{1}, {2}, {3}, {4}}

	t.Run("InterpolatesTrainingPoints", func(t *testing.T) {
		for _, model := range []VariogramModel{Gaussian, Spherical, Exponential} {
			pred, err := Kriging{Model: model}.Fit(coords, values)
			require.NoError(t, err)

			for i, c := range coords {
				got, err := pred.Predict(c)
				require.NoError(t, err)
				assert.InDelta(t, values[i][0], got[0], 1e-5, "model %s point %d", model, i)
			}
		}
	})

	t.Run("CenterIsMeanBySymmetry", func(t *testing.T) {
		pred, err := Kriging{}.Fit(coords, values)
		require.NoError(t, err)

		got, err := pred.Predict([]float64{0.5, 0.5})
		require.NoError(t, err)
		assert.InDelta(t, 2.5, got[0], 1e-6)
	})

	t.Run("ExplicitParameters", func(t *testing.T) {
		pred, err := Kriging{Model: Spherical, Range: 2, Sill: 1.5, Nugget: 0.01}.Fit(coords, values)
		require.NoError(t, err)

		got, err := pred.Predict([]float64{0.25, 0.25})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.False(t, got[0] != got[0], "estimate must not be NaN")
	})

	t.Run("VariogramModelString", func(t *testing.T) {
		assert.Equal(t, "Gaussian", Gaussian.String())
		assert.Equal(t, "Spherical", Spherical.String())
		assert.Equal(t, "Exponential", Exponential.String())
		assert.Equal(t, "Unknown(9)", VariogramModel(9).String())
	})
}
