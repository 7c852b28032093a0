// Package grassgo interpolates matrix-valued samples on the Grassmann
// manifold.
//
// Given N data matrices observed at N coordinates, grassgo projects each
// sample onto the Grassmann manifold via truncated SVD, anchors a flat
// tangent space at the Karcher mean of the points, interpolates the tangent
// vectors with a pluggable fit/predict strategy, and maps predictions back
// onto the manifold with the exponential map. Full ambient-space matrices
// are reconstructed by interpolating the left subspace, the right subspace
// and the singular values independently.
//
// # Quick Start
//
//	ctx := context.Background()
//
//	ip := grassgo.New(strategy.IDW{}, grassgo.WithRank(grassmann.RankMax))
//	model, _ := ip.Fit(ctx, coords, samples)       // fit once
//	estimate, _ := model.Predict(ctx, []float64{0.1, 0.1})
//
// One-shot convenience:
//
//	results, _ := grassgo.Interpolate(ctx, coords, samples, queries, strategy.Kriging{})
//
// # Interpolation Modes
//
// Whole-matrix mode (default) flattens each tangent matrix into one vector
// and performs a single vector-valued fit. Element-wise mode fits one scalar
// interpolation per matrix entry:
//
//	ip := grassgo.New(strategy.Linear{}, grassgo.WithElementWise(true))
//
// # Persistence
//
// A fitted model's state can be snapshotted to any blob store and restored
// later; the strategy is refitted from the persisted tangent data:
//
//	st := model.State()
//	_ = snapshot.Save(ctx, store, "model.snap", st)
//
//	st, _ = snapshot.Load(ctx, store, "model.snap")
//	model, _ = grassgo.Restore(ctx, st, strategy.IDW{})
//
// # Key Properties
//
//   - Fit is computed once and reused across queries; SVD cost dominates.
//   - Each call is a pure function of its inputs: no cross-call state.
//   - Karcher mean non-convergence is a soft signal (Model.Converged),
//     never a hard failure.
package grassgo
