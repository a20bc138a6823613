// Package analysis turns simulated trajectories into quantities that can
// be compared with the closed-form laws:
//
//   - [PowerSpectrum]: periodogram of a regularly sampled level
//   - [NewHistogram]: normalised density of a sample on fixed bins
//   - [RateSweep]: stationary promoter statistics as one rate varies
//
// # Checking a simulation
//
//	levels := metrics.Levels(res.Records, u)
//	h, err := analysis.NewHistogram(levels, 0, 1, 50)
//	// compare h.Density with refractory.Model.PDMP(h.Centers(), 1)
package analysis
