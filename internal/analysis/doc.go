// Package analysis characterizes recorded run series.
//
//   - [PowerSpectrum]: one-sided power spectrum of a series via FFT
//   - [DominantPeriod]: strongest oscillation period in ticks
//   - [SteadyState]: first tick after which a series stops changing
//   - [Summarize]: mean, range and linear trend
//
// # Example
//
//	series, _ := store.LoadSeries(id)
//	outflow, _ := series.Column("outflow")
//	period, power := analysis.DominantPeriod(outflow)
package analysis
