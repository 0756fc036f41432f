package residfp

import (
	"math"
	"testing"

	"yaspg/sidplayfp/curated"
	"yaspg/sidplayfp/test"
)

func TestDac(t *testing.T) {
	ideal := dacTable(12, 2.00, true)
	test.ExpectApproximate(t, ideal[0xfff], 4096, 0.001)
	test.ExpectApproximate(t, ideal[0x800], 2048, 0.001)
	for i := 1; i < len(ideal); i++ {
		if ideal[i] <= ideal[i-1] {
			t.Fatalf("terminated DAC is not monotonic at %#03x", i)
		}
	}

	kinked := dacTable(12, 2.20, false)
	test.ExpectEquality(t, math.Abs(kinked[0x800]-2048) > 1, true)
	test.ExpectEquality(t, kinked[0], 0.0)
}

func TestCombinedWaveforms(t *testing.T) {
	for model := range combined {
		for i := range uint16(0x1000) {
			and := i & triangle(i)
			st := combined[model][comboST][i]
			if st&^and != 0 {
				t.Fatalf("combined sawtooth+triangle %#03x has bits outside of %#03x", st, and)
			}
		}
	}

	// the 6581 pulls down more bits than the 8580
	var bits [2]int
	for model := range combined {
		for _, v := range combined[model][comboPS] {
			for b := range 12 {
				if v&(1<<b) != 0 {
					bits[model]++
				}
			}
		}
	}
	test.ExpectEquality(t, bits[MOS6581] < bits[MOS8580], true)
}

func TestOscillator(t *testing.T) {
	s := NewSID()
	s.Write(0x0e, 0x00)
	s.Write(0x0f, 0x10)
	s.Write(0x12, 0x20)

	for range 256 {
		s.clock()
	}
	test.ExpectEquality(t, s.Read(0x1b), 0x10)

	s.Write(0x12, 0x28)
	s.clock()
	test.ExpectEquality(t, s.Read(0x1b), 0x00)
}

func TestEnvelope(t *testing.T) {
	s := NewSID()
	s.Write(0x13, 0x00)
	s.Write(0x14, 0xa0)
	s.Write(0x12, 0x11)
	for range 10 * 256 {
		s.clock()
	}

	// decay with the fastest rate reaches the sustain level
	for range 10000 {
		s.clock()
	}
	test.ExpectEquality(t, s.Read(0x1c), 0xaa)

	s.Write(0x12, 0x10)
	for range 100000 {
		s.clock()
	}
	test.ExpectEquality(t, s.Read(0x1c), 0x00)
}

func TestSampleRate(t *testing.T) {
	for _, method := range []SamplingMethod{Decimate, Resample} {
		s := NewSID()
		test.DemandSuccess(t, s.SetSamplingParameters(985248, method, 44100))

		buf := make([]int16, 50000)
		cycles := 985248
		n := s.Clock(&cycles, buf)
		test.ExpectEquality(t, cycles, 0)
		test.ExpectApproximate(t, n, 44100, 0.001, method)
	}

	s := NewSID()
	err := s.SetSamplingParameters(985248, Decimate, 0)
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, SamplingError))
	err = s.SetSamplingParameters(985248, SamplingMethod(5), 44100)
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, SamplingError))
}

func TestMuteInPhase(t *testing.T) {
	a := NewSID()
	b := NewSID()
	for _, s := range []*SID{a, b} {
		s.Write(0x0e, 0x34)
		s.Write(0x0f, 0x12)
		s.Write(0x13, 0x22)
		s.Write(0x14, 0x88)
		s.Write(0x12, 0x41)
		s.Write(0x11, 0x08)
		s.Write(0x18, 0x0f)
	}

	a.Mute(2, true)
	for range 5000 {
		a.clock()
		b.clock()
	}
	a.Mute(2, false)

	test.ExpectEquality(t, a.Read(0x1b), b.Read(0x1b))
	test.ExpectEquality(t, a.Read(0x1c), b.Read(0x1c))
	test.ExpectEquality(t, a.voices[2].wave.accumulator, b.voices[2].wave.accumulator)
}

func TestFilterCurve(t *testing.T) {
	s := NewSID()
	s.Write(0x16, 0x80)

	fc := s.filter.cutoff()
	s.SetFilter6581Curve(1.0)
	test.ExpectEquality(t, s.filter.cutoff() > fc, true)
	s.SetFilter6581Curve(0.0)
	test.ExpectEquality(t, s.filter.cutoff() < fc, true)

	s.SetFilter6581Curve(DefaultFilterCurve)
	s.SetFilterBias(0.5)
	test.ExpectApproximate(t, s.filter.cutoff(), fc*2, 0.01)
	s.SetFilterBias(0)

	s.SetChipModel(MOS8580)
	fc = s.filter.cutoff()
	test.ExpectApproximate(t, fc, minCutoff+1024*5.8, 0.001)
	s.SetFilter8580Curve(1.0)
	test.ExpectEquality(t, s.filter.cutoff() > fc, true)
}

func TestSaturation(t *testing.T) {
	test.ExpectApproximate(t, saturate(0.5), 0.5, 1e-9)
	test.ExpectEquality(t, saturate(2.7) < 2.7, true)
	test.ExpectEquality(t, saturate(-2.7) > -2.7, true)
	test.ExpectEquality(t, saturate(100) <= 3, true)
	test.ExpectEquality(t, saturate(-100) >= -3, true)
}
