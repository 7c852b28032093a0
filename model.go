package grassgo

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/grassgo/grassmann"
	"github.com/hupe1980/grassgo/strategy"
)

// Model is a fitted interpolation model. Fitting happens once; every
// Predict reuses the Karcher means, tangent vectors and trained predictors.
// A Model is immutable after Fit and safe for concurrent use.
type Model struct {
	strategy strategy.Strategy
	opts     options

	coordDim int
	rows     int
	cols     int
	rank     int

	coords    [][]float64
	anchorU   *grassmann.Point
	anchorV   *grassmann.Point
	tangentsU []*mat.Dense
	tangentsV []*mat.Dense
	sigmas    [][]float64

	convergedU bool
	convergedV bool

	// single holds the constant reconstruction for the N=1 degenerate case.
	single *mat.Dense

	// Whole-matrix mode predictors.
	predU     strategy.Predictor
	predV     strategy.Predictor
	predSigma strategy.Predictor

	// Element-wise mode predictors, row-major per entry.
	entryU     []strategy.Predictor
	entryV     []strategy.Predictor
	entrySigma []strategy.Predictor
}

// Rank returns the common reduced rank of the model.
func (m *Model) Rank() int { return m.rank }

// Shape returns the shape of the sample matrices (and of every prediction).
func (m *Model) Shape() (rows, cols int) { return m.rows, m.cols }

// Converged reports whether both Karcher mean computations met tolerance
// within the iteration budget. A false value is a soft signal: the model is
// still usable, anchored at the best available mean estimates.
func (m *Model) Converged() bool { return m.convergedU && m.convergedV }

// Predict estimates a full ambient-space sample matrix at the query
// coordinate: predicted tangent vectors are mapped back onto the manifold
// via the exponential map at the anchors and recombined as U·diag(σ)·Vᵀ.
func (m *Model) Predict(ctx context.Context, query []float64) (*mat.Dense, error) {
	start := time.Now()
	out, err := m.predict(ctx, query)
	m.opts.metricsCollector.RecordPredict(time.Since(start), err)
	m.opts.logger.LogPredict(ctx, 1, err)
	return out, err
}

func (m *Model) predict(ctx context.Context, query []float64) (*mat.Dense, error) {
	if len(query) != m.coordDim {
		return nil, &ErrCoordinateMismatch{Expected: m.coordDim, Actual: len(query)}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if m.single != nil {
		return mat.DenseCopyOf(m.single), nil
	}

	left, err := m.predictPoint(query)
	if err != nil {
		return nil, err
	}

	tangentV, err := m.predictTangent(query, m.predV, m.entryV, m.cols, "right")
	if err != nil {
		return nil, err
	}
	right, err := grassmann.Exp(m.anchorV, tangentV)
	if err != nil {
		return nil, fmt.Errorf("exponential map of right subspace: %w", err)
	}

	sigma, err := m.predictSigma(query)
	if err != nil {
		return nil, err
	}

	return reconstruct(left.Basis(), sigma, right.Basis()), nil
}

// PredictPoint estimates only the left singular subspace at the query
// coordinate, as a point on the Grassmann manifold. Use this when the
// subspace itself is the quantity of interest.
func (m *Model) PredictPoint(ctx context.Context, query []float64) (*grassmann.Point, error) {
	if len(query) != m.coordDim {
		return nil, &ErrCoordinateMismatch{Expected: m.coordDim, Actual: len(query)}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.single != nil {
		return grassmann.NewPoint(m.anchorU.Basis()), nil
	}
	return m.predictPoint(query)
}

func (m *Model) predictPoint(query []float64) (*grassmann.Point, error) {
	tangentU, err := m.predictTangent(query, m.predU, m.entryU, m.rows, "left")
	if err != nil {
		return nil, err
	}
	left, err := grassmann.Exp(m.anchorU, tangentU)
	if err != nil {
		return nil, fmt.Errorf("exponential map of left subspace: %w", err)
	}
	return left, nil
}

// PredictBatch evaluates the fitted model at every query coordinate.
// Queries run in parallel, bounded by WithMaxParallel; the fit is shared.
func (m *Model) PredictBatch(ctx context.Context, queries [][]float64) ([]*mat.Dense, error) {
	out := make([]*mat.Dense, len(queries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.opts.maxParallel)
	for i, q := range queries {
		g.Go(func() error {
			est, err := m.Predict(ctx, q)
			if err != nil {
				return err
			}
			out[i] = est
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Model) predictTangent(query []float64, whole strategy.Predictor, entries []strategy.Predictor, rows int, target string) (*mat.Dense, error) {
	if !m.opts.elementWise {
		vec, err := whole.Predict(query)
		if err != nil {
			return nil, &StrategyError{Stage: "predict", Target: target, Query: query, Err: err}
		}
		if len(vec) != rows*m.rank {
			return nil, &StrategyError{
				Stage:  "predict",
				Target: target,
				Query:  query,
				Err:    fmt.Errorf("predicted %d values, want %d", len(vec), rows*m.rank),
			}
		}
		return mat.NewDense(rows, m.rank, append([]float64(nil), vec...)), nil
	}

	tangent := mat.NewDense(rows, m.rank, nil)
	for idx, pred := range entries {
		r, c := idx/m.rank, idx%m.rank
		v, err := pred.Predict(query)
		if err != nil {
			return nil, &StrategyError{
				Stage:  "predict",
				Target: fmt.Sprintf("%s entry(%d,%d)", target, r, c),
				Query:  query,
				Err:    err,
			}
		}
		if len(v) != 1 {
			return nil, &StrategyError{
				Stage:  "predict",
				Target: fmt.Sprintf("%s entry(%d,%d)", target, r, c),
				Query:  query,
				Err:    fmt.Errorf("predicted %d values, want 1", len(v)),
			}
		}
		tangent.Set(r, c, v[0])
	}
	return tangent, nil
}

func (m *Model) predictSigma(query []float64) ([]float64, error) {
	if !m.opts.elementWise {
		sigma, err := m.predSigma.Predict(query)
		if err != nil {
			return nil, &StrategyError{Stage: "predict", Target: "values", Query: query, Err: err}
		}
		if len(sigma) != m.rank {
			return nil, &StrategyError{
				Stage:  "predict",
				Target: "values",
				Query:  query,
				Err:    fmt.Errorf("predicted %d values, want %d", len(sigma), m.rank),
			}
		}
		return sigma, nil
	}

	sigma := make([]float64, m.rank)
	for j, pred := range m.entrySigma {
		v, err := pred.Predict(query)
		if err != nil {
			return nil, &StrategyError{
				Stage:  "predict",
				Target: fmt.Sprintf("values entry(%d)", j),
				Query:  query,
				Err:    err,
			}
		}
		if len(v) != 1 {
			return nil, &StrategyError{
				Stage:  "predict",
				Target: fmt.Sprintf("values entry(%d)", j),
				Query:  query,
				Err:    fmt.Errorf("predicted %d values, want 1", len(v)),
			}
		}
		sigma[j] = v[0]
	}
	return sigma, nil
}
