// Package promoter provides the core types for multistate promoter models.
//
// A promoter is a continuous-time Markov chain over states 1..n described
// by pairwise transition rates:
//
//   - [Rates]: sparse map of transition rates i -> j
//   - [Generator]: dense transposed generator K with K[j,i] = rate(i -> j)
//   - [State]: active state plus the continuous weight vector of the PDMP
//   - [PDMPRecord], [SSARecord]: trajectory samples
//   - [JumpPath]: minimal (holding time, next state) description of a path
//
// # Example
//
//	rates, _ := promoter.Cyclic([]float64{10, 4, 5, 3}, nil)
//	gen, _ := promoter.TransitionMatrix(rates)
//	fmt.Println(gen.ExitRate(1))
//
// States are numbered from 1 everywhere in the public API; matrix
// accessors on [Generator] take 0-based indices.
package promoter
