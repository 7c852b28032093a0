package testutil

import (
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Matrix generates a rows x cols matrix with standard normal entries.
// Gaussian matrices are full rank with probability one.
func (r *RNG) Matrix(rows, cols int) *mat.Dense {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = r.rand.NormFloat64()
	}
	return mat.NewDense(rows, cols, data)
}

// LowRankMatrix generates a rows x cols matrix with the given rank, as the
// product of two Gaussian factors.
func (r *RNG) LowRankMatrix(rows, cols, rank int) *mat.Dense {
	left := r.Matrix(rows, rank)
	right := r.Matrix(rank, cols)

	out := mat.NewDense(rows, cols, nil)
	out.Mul(left, right)
	return out
}

// Coords generates n coordinates of the given dimension, uniform in [0,1).
func (r *RNG) Coords(n, dim int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([][]float64, n)
	for i := range out {
		c := make([]float64, dim)
		for j := range c {
			c[j] = r.rand.Float64()
		}
		out[i] = c
	}
	return out
}

// UnitSquare returns the four corners of the unit square, a standard layout
// for two-dimensional interpolation tests.
func UnitSquare() [][]float64 {
	return [][]float64{
		{0, 0},
		{1, 0},
		{1, 1},
		{0, 1},
	}
}
