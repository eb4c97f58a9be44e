// Package histogram provides the binned containers exchanged by the
// unfolding solvers: Axis (strictly increasing edges, 1-based bins with
// underflow 0 and overflow N+1), H1 (contents + errors) and H2 (a response
// matrix, X measured × Y true).
//
// It also carries the edge-reconciliation helpers used before unfolding:
// SameBinning, MatchEdges (strict, never rebins), Project (fill at bin
// centers onto another axis) and Slice (sub-range extraction).
package histogram
