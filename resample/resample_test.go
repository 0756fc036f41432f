package resample_test

import (
	"math"
	"testing"

	"yaspg/sidplayfp/curated"
	"yaspg/sidplayfp/resample"
	"yaspg/sidplayfp/test"
)

const palClock = 985248.0

// count the number of output samples produced for one second of input
func outputRate(r resample.Resampler, clock int) int {
	n := 0
	for range clock {
		if r.Input(0) {
			n++
		}
	}
	return n
}

func TestZeroOrderRate(t *testing.T) {
	r := resample.NewZeroOrder(palClock, 44100)
	test.ExpectApproximate(t, outputRate(r, int(palClock)), 44100, 0.001)
}

func TestZeroOrderInterpolation(t *testing.T) {
	// four cycles per sample. the first output is the cached sample and then
	// every fourth input produces an output
	r := resample.NewZeroOrder(4, 1)
	test.ExpectSuccess(t, r.Input(100))
	test.ExpectEquality(t, r.Output(), 0)
	test.ExpectFailure(t, r.Input(200))
	test.ExpectFailure(t, r.Input(300))
	test.ExpectFailure(t, r.Input(400))
	test.ExpectSuccess(t, r.Input(500))
	test.ExpectEquality(t, r.Output(), 400)

	r.Reset()
	test.ExpectSuccess(t, r.Input(100))
	test.ExpectEquality(t, r.Output(), 0)
}

func TestSincRate(t *testing.T) {
	r, err := resample.NewSinc(palClock, 48000, 20000)
	test.DemandSuccess(t, err)
	test.ExpectApproximate(t, outputRate(r, int(palClock)), 48000, 0.001)
}

func TestSincDC(t *testing.T) {
	r, err := resample.NewSinc(palClock, 44100, 20000)
	test.DemandSuccess(t, err)

	// fill the filter with a constant value and check the output settles on
	// the same value
	var out int
	for range 20000 {
		if r.Input(10000) {
			out = r.Output()
		}
	}
	test.ExpectApproximate(t, out, 10000, 0.01)

	r.Reset()
	test.ExpectEquality(t, r.Output(), 0)
}

func TestSincAttenuation(t *testing.T) {
	r, err := resample.NewSinc(palClock, 22050, 9000)
	test.DemandSuccess(t, err)

	// a tone well above the nyquist frequency of the output should be
	// suppressed almost entirely
	peak := 0
	for i := range 40000 {
		v := int(10000 * math.Sin(2*math.Pi*18000*float64(i)/palClock))
		if r.Input(v) && i > 20000 {
			peak = max(peak, abs(r.Output()))
		}
	}
	test.ExpectEquality(t, peak < 100, true)
}

func TestSincParameters(t *testing.T) {
	_, err := resample.NewSinc(palClock, 22050, 20000)
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, resample.SincError))
	_, err = resample.NewSinc(8000, 44100, 20000)
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, resample.SincError))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
