// Package simplex draws points uniformly from the interior of a simplex.
//
// The sampler is the usual companion to tangent-space interpolation: it
// generates query coordinates inside the convex hull of the training
// coordinates, where the interpolant is trustworthy.
package simplex

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

var (
	// ErrNoNodes is returned when no vertices are given.
	ErrNoNodes = errors.New("simplex: no nodes")
	// ErrNodeCount is returned when the vertex count does not match the
	// dimension. A d-dimensional simplex has exactly d+1 vertices.
	ErrNodeCount = errors.New("simplex: node count must be dimension+1")
)

// Sampler draws uniform samples from a simplex given by its vertices.
type Sampler struct {
	nodes [][]float64
	dim   int
	rng   *rand.Rand
}

// Options configures a Sampler.
type Options struct {
	// Seed fixes the random source for reproducible draws. Zero seeds from
	// the default source.
	Seed int64
}

// New creates a Sampler over the simplex spanned by nodes. For dimension d
// there must be exactly d+1 nodes, each of length d.
func New(nodes [][]float64, optFns ...func(o *Options)) (*Sampler, error) {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	if len(nodes) == 0 {
		return nil, ErrNoNodes
	}
	dim := len(nodes[0])
	if dim == 0 {
		return nil, errors.New("simplex: zero-dimensional nodes")
	}
	if len(nodes) != dim+1 {
		return nil, fmt.Errorf("%w: got %d nodes for dimension %d", ErrNodeCount, len(nodes), dim)
	}
	for i, node := range nodes {
		if len(node) != dim {
			return nil, fmt.Errorf("simplex: node %d has dimension %d, want %d", i, len(node), dim)
		}
	}

	copied := make([][]float64, len(nodes))
	for i, node := range nodes {
		copied[i] = append([]float64(nil), node...)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	return &Sampler{
		nodes: copied,
		dim:   dim,
		rng:   rand.New(rand.NewSource(seed)),
	}, nil
}

// Sample draws n points uniformly distributed over the simplex.
func (s *Sampler) Sample(n int) [][]float64 {
	out := make([][]float64, n)

	if s.dim == 1 {
		// A 1-simplex is an interval.
		a, b := s.nodes[0][0], s.nodes[1][0]
		if a > b {
			a, b = b, a
		}
		for i := range out {
			out[i] = []float64{a + (b-a)*s.rng.Float64()}
		}
		return out
	}

	for i := range out {
		out[i] = s.draw()
	}
	return out
}

// draw produces one uniform sample using the Smith and Tromble ordered
// radii construction: independent uniforms raised to 1/(d-j), cumulative
// products as barycentric weights over the edge differences.
func (s *Sampler) draw() []float64 {
	weights := make([]float64, s.dim+1)
	weights[0] = 1
	acc := 1.0
	for j := 0; j < s.dim; j++ {
		acc *= math.Pow(s.rng.Float64(), 1/float64(s.dim-j))
		weights[j+1] = acc
	}

	sample := make([]float64, s.dim)
	for j := 0; j < s.dim; j++ {
		v := s.nodes[0][j] * weights[0]
		for k := 1; k <= s.dim; k++ {
			v += (s.nodes[k][j] - s.nodes[k-1][j]) * weights[k]
		}
		sample[j] = v
	}
	return sample
}
