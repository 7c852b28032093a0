package grassgo

import (
	"context"
	"errors"

	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/grassgo/grassmann"
	"github.com/hupe1980/grassgo/snapshot"
	"github.com/hupe1980/grassgo/strategy"
)

// ErrEmptyState is returned by Restore when the state carries no samples.
var ErrEmptyState = errors.New("grassgo: empty model state")

// State exports the fitted model as a serializable snapshot. Strategies are
// not serialized: Restore takes the strategy again and refits the predictors
// from the stored tangent vectors, which is cheap next to the SVD and
// Karcher mean work already baked into the state.
func (m *Model) State() *snapshot.State {
	st := &snapshot.State{
		CoordDim:    m.coordDim,
		Rows:        m.rows,
		Cols:        m.cols,
		Rank:        m.rank,
		ElementWise: m.opts.elementWise,
		Coords:      cloneCoords(m.coords),
		AnchorU:     toSnapshotMatrix(m.anchorU.Basis()),
		AnchorV:     toSnapshotMatrix(m.anchorV.Basis()),
		TangentsU:   make([]snapshot.Matrix, len(m.tangentsU)),
		TangentsV:   make([]snapshot.Matrix, len(m.tangentsV)),
		Sigmas:      make([][]float64, len(m.sigmas)),
		ConvergedU:  m.convergedU,
		ConvergedV:  m.convergedV,
	}
	for i, t := range m.tangentsU {
		st.TangentsU[i] = toSnapshotMatrix(t)
	}
	for i, t := range m.tangentsV {
		st.TangentsV[i] = toSnapshotMatrix(t)
	}
	for i, s := range m.sigmas {
		st.Sigmas[i] = append([]float64(nil), s...)
	}
	return st
}

// Restore rebuilds a fitted Model from a snapshot state. The strategy is
// refit over the stored coordinates and tangent vectors; WithElementWise is
// taken from the state, not the options.
func Restore(ctx context.Context, st *snapshot.State, s strategy.Strategy, optFns ...Option) (*Model, error) {
	if s == nil {
		return nil, ErrNilStrategy
	}
	if len(st.Coords) == 0 {
		return nil, ErrEmptyState
	}

	opts := applyOptions(optFns)
	opts.elementWise = st.ElementWise

	model := &Model{
		strategy:   s,
		opts:       opts,
		coordDim:   st.CoordDim,
		rows:       st.Rows,
		cols:       st.Cols,
		rank:       st.Rank,
		coords:     cloneCoords(st.Coords),
		anchorU:    grassmann.NewPoint(fromSnapshotMatrix(st.AnchorU)),
		anchorV:    grassmann.NewPoint(fromSnapshotMatrix(st.AnchorV)),
		sigmas:     make([][]float64, len(st.Sigmas)),
		convergedU: st.ConvergedU,
		convergedV: st.ConvergedV,
	}
	for i, s := range st.Sigmas {
		model.sigmas[i] = append([]float64(nil), s...)
	}

	if len(st.Coords) == 1 {
		model.single = reconstruct(model.anchorU.Basis(), model.sigmas[0], model.anchorV.Basis())
		return model, nil
	}

	model.tangentsU = make([]*mat.Dense, len(st.TangentsU))
	model.tangentsV = make([]*mat.Dense, len(st.TangentsV))
	for i, t := range st.TangentsU {
		model.tangentsU[i] = fromSnapshotMatrix(t)
	}
	for i, t := range st.TangentsV {
		model.tangentsV[i] = fromSnapshotMatrix(t)
	}

	if err := model.fitStrategy(ctx); err != nil {
		return nil, err
	}
	return model, nil
}

func toSnapshotMatrix(d *mat.Dense) snapshot.Matrix {
	r, c := d.Dims()
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		data = append(data, d.RawRowView(i)...)
	}
	return snapshot.Matrix{Rows: r, Cols: c, Data: data}
}

func fromSnapshotMatrix(m snapshot.Matrix) *mat.Dense {
	return mat.NewDense(m.Rows, m.Cols, append([]float64(nil), m.Data...))
}
