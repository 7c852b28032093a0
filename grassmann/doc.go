// Package grassmann implements the core geometry of the Grassmann manifold:
// projecting data matrices onto the manifold via truncated SVD, geodesic
// distances from principal angles, logarithmic and exponential maps between
// the manifold and a tangent space, and the Karcher mean of a point set.
//
// A point on the Grassmann manifold Gr(p, n) is the p-dimensional column
// space of a data matrix, represented by an n×p matrix with orthonormal
// columns. Two points are the same element of the manifold whenever their
// column spaces coincide, regardless of the basis chosen to represent them.
//
// All operations are pure functions over their inputs and safe for
// concurrent use.
package grassmann
