// Package matrix provides the dense row-major matrix used as storage for
// response matrices, plus the small set of kernels the unfolding solvers
// need.
//
// The matrix package provides:
//
//   - Dense: bounds-checked At/Set/AddAt that reject non-finite values.
//   - Vector kernels: MatVec (A·x, forward folding) and MatTVec (Aᵀ·y,
//     back-projection), with flat-slice fast paths for *Dense.
//   - Column reductions: ColSums, ColAbsSums, Norm1 (max column L1 norm).
//   - Transforms: NormalizeColumns (by signed column sum, degenerate
//     columns unchanged) and ClipMin (elementwise lower clip).
//   - AllClose for tolerance comparisons of folded spectra.
//
// All kernels are deterministic (fixed i→j order) and never mutate their
// inputs unless the method name says so (Set, AddAt).
package matrix
