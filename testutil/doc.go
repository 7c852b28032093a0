// Package testutil provides testing utilities for Grassgo.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random matrices with controlled rank
// and standard coordinate layouts.
//
// # Random Matrix Generation
//
//	rng := testutil.NewRNG(seed)
//	a := rng.LowRankMatrix(10, 8, 3) // 10x8 with rank 3
//	b := rng.Matrix(10, 8)           // full-rank Gaussian
//
// # Coordinates
//
//	coords := testutil.UnitSquare() // the four corners of [0,1]^2
package testutil
