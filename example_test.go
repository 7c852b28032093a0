package grassgo_test

import (
	"context"
	"fmt"
	"log"

	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/grassgo"
	"github.com/hupe1980/grassgo/strategy"
	"github.com/hupe1980/grassgo/testutil"
)

func ExampleInterpolate() {
	ctx := context.Background()

	// Four matrix-valued samples observed at the corners of the unit square.
	rng := testutil.NewRNG(4711)
	coords := testutil.UnitSquare()
	samples := []mat.Matrix{
		rng.LowRankMatrix(6, 6, 2),
		rng.LowRankMatrix(6, 6, 3),
		rng.LowRankMatrix(6, 6, 2),
		rng.LowRankMatrix(6, 6, 3),
	}

	// Estimate the full matrix at an unobserved coordinate.
	out, err := grassgo.Interpolate(ctx, coords, samples, [][]float64{{0.5, 0.5}}, strategy.IDW{})
	if err != nil {
		log.Fatal(err)
	}

	rows, cols := out[0].Dims()
	fmt.Printf("estimated a %dx%d matrix\n", rows, cols)
	// Output:
	// estimated a 6x6 matrix
}

func ExampleNew() {
	ctx := context.Background()

	rng := testutil.NewRNG(4711)
	coords := testutil.UnitSquare()
	samples := []mat.Matrix{
		rng.LowRankMatrix(8, 6, 3),
		rng.LowRankMatrix(8, 6, 3),
		rng.LowRankMatrix(8, 6, 3),
		rng.LowRankMatrix(8, 6, 3),
	}

	// Fit once, predict many times.
	ip := grassgo.New(strategy.Kriging{}, grassgo.WithRank(2))
	model, err := ip.Fit(ctx, coords, samples)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("rank:", model.Rank())

	est, err := model.Predict(ctx, []float64{0.25, 0.75})
	if err != nil {
		log.Fatal(err)
	}
	rows, cols := est.Dims()
	fmt.Printf("prediction: %dx%d\n", rows, cols)
	// Output:
	// rank: 2
	// prediction: 8x6
}
