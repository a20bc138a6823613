// Package refractory computes exact stationary distributions of
// refractory promoters: chains with a single active state and any number
// of inactive states.
//
// A Model caches the spectral pair (u, v) of the generator. u holds the
// eigenvalues of the negated sub-generator over the inactive states and
// v the nonzero eigenvalues of the negated full generator. The durations
// of inactive and active periods follow from phase-type theory; the
// molecule-count and expression-level laws are a hypergeometric and a
// Meijer-G function of the spectral pair.
package refractory
