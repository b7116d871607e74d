package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// nextPow2 returns the smallest power of two >= n.
func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// PowerSpectrum removes the mean, zero-pads to a power of two and returns the
// squared magnitude of bins 0..n/2. Bin k has frequency k/n cycles per tick.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	n := nextPow2(len(data))
	padded := make([]float64, n)
	for i, v := range data {
		padded[i] = v - mean
	}

	spectrum := fft.FFTReal(padded)
	ps := make([]float64, n/2+1)
	for i := range ps {
		a := cmplx.Abs(spectrum[i])
		ps[i] = a * a / float64(n)
	}
	return ps
}

// DominantPeriod returns the period in ticks of the strongest non-zero
// frequency and its power. A flat or too-short series yields (0, 0).
func DominantPeriod(data []float64) (period, power float64) {
	ps := PowerSpectrum(data)
	if len(ps) < 2 {
		return 0, 0
	}
	n := float64(2 * (len(ps) - 1))
	best := 0
	for k := 1; k < len(ps); k++ {
		if ps[k] > power {
			best, power = k, ps[k]
		}
	}
	if best == 0 || power <= 1e-18 {
		return 0, 0
	}
	return n / float64(best), power
}

// Summary describes a series.
type Summary struct {
	Mean  float64
	Min   float64
	Max   float64
	Final float64
	// Trend is the least-squares slope per tick.
	Trend float64
}

func Summarize(data []float64) Summary {
	if len(data) == 0 {
		return Summary{}
	}
	s := Summary{Min: math.Inf(1), Max: math.Inf(-1), Final: data[len(data)-1]}
	var sx, sy, sxy, sxx float64
	for i, v := range data {
		x := float64(i)
		sx += x
		sy += v
		sxy += x * v
		sxx += x * x
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	n := float64(len(data))
	s.Mean = sy / n
	if den := n*sxx - sx*sx; den != 0 {
		s.Trend = (n*sxy - sx*sy) / den
	}
	return s
}

// SteadyState returns the first index after which every relative change
// between consecutive samples stays below tol for at least window samples.
// It returns -1 if the series never settles.
func SteadyState(data []float64, tol float64, window int) int {
	if window < 1 {
		window = 1
	}
	run := 0
	for i := 1; i < len(data); i++ {
		scale := math.Max(math.Abs(data[i-1]), 1e-12)
		if math.Abs(data[i]-data[i-1])/scale < tol {
			run++
			if run >= window {
				return i - window
			}
			continue
		}
		run = 0
	}
	return -1
}
