// Package resample converts the output of a chip model, produced once per
// clock cycle, to the output sample rate.
//
// Two resamplers are provided. ZeroOrder interpolates linearly between the
// two cycles either side of the output sample. Sinc applies a Kaiser windowed
// sinc filter to the cycle stream and is band limited. It is considerably
// more expensive.
package resample

// Resampler implementations accept one input sample per clock cycle and
// return true when an output sample is ready.
type Resampler interface {
	Input(sample int) bool
	Output() int
	Reset()
}

// fixed point precision of the sample offset
const (
	fixpShift = 10
	fixpOne   = 1 << fixpShift
	fixpMask  = fixpOne - 1
)

// ZeroOrder resampler. Output samples are linearly interpolated from the two
// most recent input samples.
type ZeroOrder struct {
	cachedSample    int
	cyclesPerSample int
	sampleOffset    int
	outputValue     int
}

// NewZeroOrder is the preferred method of initialisation for the ZeroOrder
// type.
func NewZeroOrder(clockFrequency float64, samplingFrequency float64) *ZeroOrder {
	return &ZeroOrder{
		cyclesPerSample: int(clockFrequency / samplingFrequency * fixpOne),
	}
}

// Input implements the Resampler interface.
func (r *ZeroOrder) Input(sample int) bool {
	ready := false

	if r.sampleOffset < fixpOne {
		r.outputValue = r.cachedSample + (r.sampleOffset*(sample-r.cachedSample))>>fixpShift
		ready = true
		r.sampleOffset += r.cyclesPerSample
	}

	r.sampleOffset -= fixpOne
	r.cachedSample = sample

	return ready
}

// Output implements the Resampler interface.
func (r *ZeroOrder) Output() int {
	return r.outputValue
}

// Reset implements the Resampler interface.
func (r *ZeroOrder) Reset() {
	r.cachedSample = 0
	r.sampleOffset = 0
	r.outputValue = 0
}
