// Package special evaluates the special functions behind the stationary
// distributions of refractory promoters: the complex log-gamma function,
// the generalized hypergeometric series pFq and the Meijer-G function
// G^{q,0}_{q,q}.
//
// Hypergeometric and Slater sums whose terms cancel are carried out in
// arbitrary precision (math/big), the working precision growing until the
// cancellation between terms is resolved.
package special
