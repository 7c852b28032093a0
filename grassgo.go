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

// Interpolator estimates matrix-valued samples at new coordinates by
// interpolating in the tangent space of the Grassmann manifold.
//
// An Interpolator carries no cross-call state: every Fit is a pure function
// of its inputs, and independent calls may run concurrently.
type Interpolator struct {
	strategy strategy.Strategy
	opts     options
}

// New creates an Interpolator around the given fit/predict strategy.
func New(s strategy.Strategy, optFns ...Option) *Interpolator {
	return &Interpolator{
		strategy: s,
		opts:     applyOptions(optFns),
	}
}

// Interpolate is the one-shot convenience: fit a model over the known
// (coordinate, sample) pairs and evaluate it at every query coordinate.
//
// For repeated querying against the same sample set, use Fit once and call
// Predict per query instead; the Karcher mean and SVDs dominate the cost and
// are reused across queries on a fitted Model.
func Interpolate(ctx context.Context, coords [][]float64, samples []mat.Matrix, queries [][]float64, s strategy.Strategy, optFns ...Option) ([]*mat.Dense, error) {
	ip := New(s, optFns...)
	model, err := ip.Fit(ctx, coords, samples)
	if err != nil {
		return nil, err
	}
	return model.PredictBatch(ctx, queries)
}

// Fit builds an interpolation model: it projects every sample onto the
// manifold at a common rank, anchors tangent spaces at the Karcher means of
// the left and right singular subspaces, and fits the strategy over the
// tangent vectors and singular values.
//
// All samples must share one shape. A single sample degenerates to a
// constant model without entering the mean solver.
func (ip *Interpolator) Fit(ctx context.Context, coords [][]float64, samples []mat.Matrix) (*Model, error) {
	start := time.Now()
	model, err := ip.fit(ctx, coords, samples)
	ip.opts.metricsCollector.RecordFit(len(samples), time.Since(start), err)
	ip.opts.logger.LogFit(ctx, len(samples), ip.opts.rank, ip.opts.elementWise, err)
	return model, err
}

func (ip *Interpolator) fit(ctx context.Context, coords [][]float64, samples []mat.Matrix) (*Model, error) {
	if ip.strategy == nil {
		return nil, ErrNilStrategy
	}
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	if len(coords) != len(samples) {
		return nil, ErrSampleCountMismatch
	}

	coordDim := len(coords[0])
	for _, c := range coords[1:] {
		if len(c) != coordDim {
			return nil, &ErrCoordinateMismatch{Expected: coordDim, Actual: len(c)}
		}
	}

	rows, cols := samples[0].Dims()
	for i, s := range samples[1:] {
		r, c := s.Dims()
		if r != rows || c != cols {
			return nil, &ErrShapeMismatch{Index: i + 1, WantRows: rows, WantCols: cols, GotRows: r, GotCols: c}
		}
	}

	ds, err := grassmann.DecomposeAll(samples, ip.opts.rank)
	if err != nil {
		return nil, err
	}
	rank := ds[0].Left.Rank()

	model := &Model{
		strategy: ip.strategy,
		opts:     ip.opts,
		coordDim: coordDim,
		rows:     rows,
		cols:     cols,
		rank:     rank,
		coords:   cloneCoords(coords),
		sigmas:   make([][]float64, len(ds)),
	}
	for i, d := range ds {
		model.sigmas[i] = d.Values
	}

	// A single sample is its own mean: the model is constant in the query.
	if len(ds) == 1 {
		model.anchorU = ds[0].Left
		model.anchorV = ds[0].Right
		model.convergedU, model.convergedV = true, true
		model.single = reconstruct(ds[0].Left.Basis(), ds[0].Values, ds[0].Right.Basis())
		return model, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lefts := make([]*grassmann.Point, len(ds))
	rights := make([]*grassmann.Point, len(ds))
	for i, d := range ds {
		lefts[i] = d.Left
		rights[i] = d.Right
	}

	karcherOpts := func(o *grassmann.KarcherOptions) {
		o.Tolerance = ip.opts.karcherTolerance
		o.MaxIterations = ip.opts.karcherMaxIter
	}

	meanStart := time.Now()
	anchorU, convergedU, err := grassmann.KarcherMean(lefts, karcherOpts)
	if err != nil {
		return nil, fmt.Errorf("karcher mean of left subspaces: %w", err)
	}
	ip.opts.metricsCollector.RecordKarcherMean(convergedU, time.Since(meanStart))
	ip.opts.logger.LogKarcherMean(ctx, "left", convergedU)

	meanStart = time.Now()
	anchorV, convergedV, err := grassmann.KarcherMean(rights, karcherOpts)
	if err != nil {
		return nil, fmt.Errorf("karcher mean of right subspaces: %w", err)
	}
	ip.opts.metricsCollector.RecordKarcherMean(convergedV, time.Since(meanStart))
	ip.opts.logger.LogKarcherMean(ctx, "right", convergedV)

	model.anchorU = anchorU
	model.anchorV = anchorV
	model.convergedU = convergedU
	model.convergedV = convergedV

	model.tangentsU = make([]*mat.Dense, len(ds))
	model.tangentsV = make([]*mat.Dense, len(ds))
	for i := range ds {
		if model.tangentsU[i], err = grassmann.Log(anchorU, lefts[i]); err != nil {
			return nil, fmt.Errorf("tangent of sample %d left subspace: %w", i, err)
		}
		if model.tangentsV[i], err = grassmann.Log(anchorV, rights[i]); err != nil {
			return nil, fmt.Errorf("tangent of sample %d right subspace: %w", i, err)
		}
	}

	if err := model.fitStrategy(ctx); err != nil {
		return nil, err
	}
	return model, nil
}

// fitStrategy trains the predictors over the tangent vectors and singular
// values, in whole-matrix or element-wise mode.
func (m *Model) fitStrategy(ctx context.Context) error {
	if !m.opts.elementWise {
		var err error
		if m.predU, err = m.strategy.Fit(m.coords, flattenAll(m.tangentsU)); err != nil {
			return &StrategyError{Stage: "fit", Target: "left", Err: err}
		}
		if m.predV, err = m.strategy.Fit(m.coords, flattenAll(m.tangentsV)); err != nil {
			return &StrategyError{Stage: "fit", Target: "right", Err: err}
		}
		if m.predSigma, err = m.strategy.Fit(m.coords, m.sigmas); err != nil {
			return &StrategyError{Stage: "fit", Target: "values", Err: err}
		}
		return nil
	}

	m.entryU = make([]strategy.Predictor, m.rows*m.rank)
	m.entryV = make([]strategy.Predictor, m.cols*m.rank)
	m.entrySigma = make([]strategy.Predictor, m.rank)

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(m.opts.maxParallel)

	fitEntry := func(dst []strategy.Predictor, tangents []*mat.Dense, idx int, target string) {
		g.Go(func() error {
			r, c := idx/m.rank, idx%m.rank
			vals := make([][]float64, len(tangents))
			for i, t := range tangents {
				vals[i] = []float64{t.At(r, c)}
			}
			pred, err := m.strategy.Fit(m.coords, vals)
			if err != nil {
				return &StrategyError{Stage: "fit", Target: fmt.Sprintf("%s entry(%d,%d)", target, r, c), Err: err}
			}
			dst[idx] = pred
			return nil
		})
	}

	for idx := 0; idx < m.rows*m.rank; idx++ {
		fitEntry(m.entryU, m.tangentsU, idx, "left")
	}
	for idx := 0; idx < m.cols*m.rank; idx++ {
		fitEntry(m.entryV, m.tangentsV, idx, "right")
	}
	for j := 0; j < m.rank; j++ {
		g.Go(func() error {
			vals := make([][]float64, len(m.sigmas))
			for i, s := range m.sigmas {
				vals[i] = []float64{s[j]}
			}
			pred, err := m.strategy.Fit(m.coords, vals)
			if err != nil {
				return &StrategyError{Stage: "fit", Target: fmt.Sprintf("values entry(%d)", j), Err: err}
			}
			m.entrySigma[j] = pred
			return nil
		})
	}

	return g.Wait()
}

// flattenAll flattens each tangent matrix row-major into one vector.
func flattenAll(tangents []*mat.Dense) [][]float64 {
	out := make([][]float64, len(tangents))
	for i, t := range tangents {
		r, c := t.Dims()
		row := make([]float64, 0, r*c)
		for j := 0; j < r; j++ {
			row = append(row, t.RawRowView(j)...)
		}
		out[i] = row
	}
	return out
}

// reconstruct assembles U·diag(σ)·Vᵀ.
func reconstruct(u *mat.Dense, sigma []float64, v *mat.Dense) *mat.Dense {
	var x mat.Dense
	x.Mul(u, mat.NewDiagDense(len(sigma), sigma))
	x.Mul(&x, v.T())
	return &x
}

func cloneCoords(coords [][]float64) [][]float64 {
	out := make([][]float64, len(coords))
	for i, c := range coords {
		out[i] = append([]float64(nil), c...)
	}
	return out
}
