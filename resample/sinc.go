package resample

import (
	"fmt"
	"math"

	"yaspg/sidplayfp/curated"
)

// SincError is the pattern for errors creating a Sinc resampler.
const SincError = "sinc: %v"

// coefficients are 16bit. the filter is designed for a stopband attenuation
// matching that precision
const sincBits = 16

// Sinc is a band limited resampler. The input is convolved with a Kaiser
// windowed sinc filter. The filter is stored for firRes sub-cycle phases and
// the output is linearly interpolated between the two nearest phases.
type Sinc struct {
	// ring buffer of input samples. the buffer is twice the ring size so that
	// the convolution can always read firN consecutive samples
	sample      []int16
	sampleIndex int
	ringMask    int

	firN   int
	firRes int
	fir    [][]int16

	cyclesPerSample int
	sampleOffset    int
	outputValue     int
}

// NewSinc is the preferred method of initialisation for the Sinc type.
// Frequencies up to highestAccurateFrequency are passed with less than 1dB
// of ripple.
func NewSinc(clockFrequency float64, samplingFrequency float64, highestAccurateFrequency float64) (*Sinc, error) {
	if samplingFrequency <= 2*highestAccurateFrequency {
		return nil, curated.Errorf(SincError, fmt.Sprintf("passband of %.0fHz too wide for sampling rate of %.0fHz", highestAccurateFrequency, samplingFrequency))
	}
	if clockFrequency < samplingFrequency {
		return nil, curated.Errorf(SincError, fmt.Sprintf("clock of %.0fHz is lower than sampling rate of %.0fHz", clockFrequency, samplingFrequency))
	}

	r := &Sinc{
		cyclesPerSample: int(clockFrequency / samplingFrequency * fixpOne),
	}

	cyclesPerSampleD := clockFrequency / samplingFrequency

	// kaiser window parameters
	A := -20 * math.Log10(1.0/(1<<sincBits))
	dw := (1 - 2*highestAccurateFrequency/samplingFrequency) * math.Pi * 2
	beta := 0.1102 * (A - 8.7)
	i0beta := i0(beta)

	// filter order, normalised to the output sampling rate
	N := int((A-7.95)/(2.285*dw) + 0.5)
	N += N & 1

	// filter length in cycles. must be odd so that the filter is symmetric
	r.firN = int(float64(N)*cyclesPerSampleD) + 1
	r.firN |= 1

	// number of sub-cycle phases. the error of linear interpolation between
	// phases must remain under the noise floor
	r.firRes = int(math.Ceil(math.Sqrt(1.234*(1<<sincBits)) / cyclesPerSampleD))
	r.firRes = max(r.firRes, 1)

	ring := 1
	for ring < r.firN*2 {
		ring <<= 1
	}
	r.ringMask = ring - 1
	r.sample = make([]int16, ring*2)

	const wc = math.Pi
	scale := 32768.0 * wc / cyclesPerSampleD / math.Pi

	r.fir = make([][]int16, r.firRes)
	for i := range r.fir {
		r.fir[i] = make([]int16, r.firN)
		jPhase := float64(i)/float64(r.firRes) + float64(r.firN/2)

		for j := range r.fir[i] {
			x := float64(j) - jPhase

			xt := x / float64(r.firN/2)
			kaiserXt := 0.0
			if math.Abs(xt) < 1 {
				kaiserXt = i0(beta*math.Sqrt(1-xt*xt)) / i0beta
			}

			wt := wc * x / cyclesPerSampleD
			sincWt := 1.0
			if math.Abs(wt) >= 1e-8 {
				sincWt = math.Sin(wt) / wt
			}

			r.fir[i][j] = int16(math.Round(scale * sincWt * kaiserXt))
		}
	}

	return r, nil
}

// zeroth order modified bessel function of the first kind
func i0(x float64) float64 {
	const eps = 1e-6

	sum := 1.0
	u := 1.0
	halfx := x / 2

	for n := 1; u >= eps*sum; n++ {
		t := halfx / float64(n)
		u *= t * t
		sum += u
	}

	return sum
}

func convolve(a []int16, b []int16) int {
	out := 0
	for i := range b {
		out += int(a[i]) * int(b[i])
	}
	return (out + (1 << 14)) >> 15
}

func (r *Sinc) fir0(subcycle int) int {
	firTableFirst := (subcycle * r.firRes) >> fixpShift
	firTableOffset := (subcycle * r.firRes) & fixpMask

	ring := r.ringMask + 1
	sampleStart := r.sampleIndex - r.firN + ring - 1

	v1 := convolve(r.sample[sampleStart:], r.fir[firTableFirst])

	firTableFirst++
	if firTableFirst == r.firRes {
		firTableFirst = 0
		sampleStart++
	}

	v2 := convolve(r.sample[sampleStart:], r.fir[firTableFirst])

	return v1 + (firTableOffset*(v2-v1))>>fixpShift
}

// Input implements the Resampler interface.
func (r *Sinc) Input(sample int) bool {
	ready := false

	s := int16(max(min(sample, math.MaxInt16), math.MinInt16))
	r.sample[r.sampleIndex] = s
	r.sample[r.sampleIndex+r.ringMask+1] = s
	r.sampleIndex = (r.sampleIndex + 1) & r.ringMask

	if r.sampleOffset < fixpOne {
		r.outputValue = r.fir0(r.sampleOffset)
		ready = true
		r.sampleOffset += r.cyclesPerSample
	}

	r.sampleOffset -= fixpOne

	return ready
}

// Output implements the Resampler interface.
func (r *Sinc) Output() int {
	return r.outputValue
}

// Reset implements the Resampler interface.
func (r *Sinc) Reset() {
	clear(r.sample)
	r.sampleIndex = 0
	r.sampleOffset = 0
	r.outputValue = 0
}
