package resid

import (
	"testing"

	"yaspg/sidplayfp/test"
)

func TestCutoffTables(t *testing.T) {
	test.ExpectEquality(t, len(filter6581), 0x800)
	test.ExpectEquality(t, len(filter8580), 0x800)

	test.ExpectEquality(t, filter6581[0], 220)
	test.ExpectEquality(t, filter6581[1023], 6000)
	test.ExpectEquality(t, filter6581[1024], 4600)
	test.ExpectEquality(t, filter6581[2047], 18000)

	test.ExpectEquality(t, filter8580[0], 0)
	test.ExpectEquality(t, filter8580[64], 400)
	test.ExpectEquality(t, filter8580[2047], 12500)
}

func TestCombinedWaveformPulldown(t *testing.T) {
	// the example given in the description of combined waveforms
	saw := reg12(0b000111111000)
	tri := reg12(0b001111110000)
	test.ExpectEquality(t, pulldown6581(saw&tri), 0b000011100000)

	// the 8580 keeps bits with at least one neighbour
	test.ExpectEquality(t, pulldown8580(saw&tri), 0b000111110000)
	test.ExpectEquality(t, pulldown8580(0b000100010000), 0)

	test.ExpectEquality(t, len(wave6581_PST), 0x1000)
	test.ExpectEquality(t, len(wave8580__ST), 0x1000)
}

func TestOscillator(t *testing.T) {
	s := NewSID()
	s.Write(0x0e, 0x00)
	s.Write(0x0f, 0x10)
	s.Write(0x12, 0x20)

	s.Clock(256)
	test.ExpectEquality(t, s.Read(0x1b), 0x10)

	s.Clock(256 * 15)
	test.ExpectEquality(t, s.Read(0x1b), 0x00)

	// test bit holds the accumulator at zero
	s.Write(0x12, 0x28)
	s.Clock(1000)
	test.ExpectEquality(t, s.Read(0x1b), 0x00)
}

func TestEnvelopeAttack(t *testing.T) {
	s := NewSID()
	s.Write(0x13, 0x00)
	s.Write(0x14, 0xf0)
	s.Write(0x12, 0x21)
	s.Clock(10 * 256)
	test.ExpectEquality(t, s.Read(0x1c), 0xff)

	// release with the fastest rate reaches zero and stays there
	s.Write(0x12, 0x20)
	s.Clock(100000)
	test.ExpectEquality(t, s.Read(0x1c), 0x00)
}

func TestBusValue(t *testing.T) {
	s := NewSID()
	s.Write(0x05, 0xab)
	test.ExpectEquality(t, s.Read(0x00), 0xab)
	s.Clock(0x2000)
	test.ExpectEquality(t, s.Read(0x00), 0x00)
}

func TestMuteInPhase(t *testing.T) {
	a := NewSID()
	b := NewSID()

	for _, s := range []*Sid{a, b} {
		s.Write(0x0e, 0x34)
		s.Write(0x0f, 0x12)
		s.Write(0x13, 0x22)
		s.Write(0x14, 0x88)
		s.Write(0x12, 0x41)
		s.Write(0x10, 0x00)
		s.Write(0x11, 0x08)
		s.Write(0x18, 0x0f)
	}

	a.Mute(2, true)
	a.Clock(5000)
	b.Clock(5000)
	a.Mute(2, false)

	test.ExpectEquality(t, a.Read(0x1b), b.Read(0x1b))
	test.ExpectEquality(t, a.Read(0x1c), b.Read(0x1c))
	test.ExpectEquality(t, a.voice[2].Wave.accumulator, b.voice[2].Wave.accumulator)
}

func TestClockOut(t *testing.T) {
	for _, method := range []SamplingMethod{SAMPLE_FAST, SAMPLE_INTERPOLATE, SAMPLE_RESAMPLE} {
		s := NewSID()
		test.DemandSuccess(t, s.SetSamplingParameters(985248, method, 44100))

		buf := make([]int16, 1000)
		total := 0
		for range 100 {
			delta := CycleCount(9852)
			n := s.ClockOut(&delta, buf)
			test.ExpectEquality(t, delta, 0, method)
			total += n
		}
		test.ExpectApproximate(t, total, 44100, 0.01, method)
	}
}

func TestClockOutFullBuffer(t *testing.T) {
	s := NewSID()
	buf := make([]int16, 10)
	delta := CycleCount(985248)
	n := s.ClockOut(&delta, buf)
	test.ExpectEquality(t, n, 10)
	test.ExpectEquality(t, delta > 0, true)
}

func TestSamplingParameters(t *testing.T) {
	s := NewSID()
	test.ExpectFailure(t, s.SetSamplingParameters(985248, SAMPLE_FAST, 0))
	test.ExpectFailure(t, s.SetSamplingParameters(8000, SAMPLE_FAST, 44100))
}

func TestFilterBias(t *testing.T) {
	s := NewSID()
	s.Write(0x16, 0x40)
	w0 := s.filter.w0
	s.SetFilterBias(0.5)
	test.ExpectApproximate(t, int(s.filter.w0), int(w0)*2, 0.01)
	s.SetFilterBias(-0.5)
	test.ExpectApproximate(t, int(s.filter.w0), int(w0)/2, 0.01)

	// no effect on the 8580
	s.SetModel(MOS8580)
	w0 = s.filter.w0
	s.SetFilterBias(0.5)
	test.ExpectEquality(t, s.filter.w0, w0)
}

func TestFloatingOutput(t *testing.T) {
	s := NewSID()
	s.Write(0x0e, 0x00)
	s.Write(0x0f, 0x10)
	s.Write(0x12, 0x20)
	s.Clock(256 * 5)
	held := s.Read(0x1b)
	test.ExpectInequality(t, held, 0)

	// no waveform selected. the DAC keeps the last output for a while
	s.Write(0x12, 0x00)
	s.Clock(floatingOutput6581 - 1)
	test.ExpectEquality(t, s.Read(0x1b), held)

	s.Clock(1)
	test.ExpectEquality(t, s.Read(0x1b), 0)
}

func TestShiftRegisterFade(t *testing.T) {
	w := NewWaveformGenerator()
	w.shiftRegister = 0x123456

	// a short test pulse keeps the noise register
	w.writeControl(0x88)
	w.Clock(shiftRegisterFade6581 / 2)
	test.ExpectEquality(t, w.shiftRegister, 0x123456)
	w.writeControl(0x80)
	test.ExpectEquality(t, w.shiftRegister, 0x123456)

	// a long one fades it and the register is reloaded when the bit clears
	w.writeControl(0x88)
	w.Clock(shiftRegisterFade6581)
	test.ExpectEquality(t, w.shiftRegister, 0)
	w.writeControl(0x80)
	test.ExpectEquality(t, w.shiftRegister, shiftRegisterReset)
}

func TestNoiseWriteBack(t *testing.T) {
	w := NewWaveformGenerator()
	w.shiftRegister = 0x7fffff
	w.writeControl(0x80)
	test.ExpectEquality(t, w.noise(), 0xff0)

	// noise with pulse high passes the noise through
	w.writeControl(0xc0)
	w.shift()
	test.ExpectEquality(t, w.Output(), 0xff0)

	// noise with sawtooth at zero pulls every output bit of the register low
	w.shiftRegister = 0x7fffff
	w.writeControl(0xa0)
	test.ExpectEquality(t, w.accumulator, 0)
	w.shift()
	test.ExpectEquality(t, w.noise(), 0)

	// the register stays pulled down after the noise is selected alone
	w.writeControl(0x80)
	test.ExpectEquality(t, w.Output(), 0)
}

func TestEnvelopeStates(t *testing.T) {
	e := NewEnvelopeGenerator()
	test.ExpectEquality(t, e.State(), envRelease)

	e.writeAttackDecay(0x00)
	e.writeSustainRelease(0xa0)
	e.writeControl(0x01)
	test.ExpectEquality(t, e.State(), envAttack)

	e.Clock(CycleCount(ratePeriods[0] * 0x100))
	test.ExpectEquality(t, e.State(), envDecaySustain)
	test.ExpectEquality(t, e.State().String(), "decay/sustain")

	// decay stops at the sustain level
	e.Clock(100000)
	test.ExpectEquality(t, e.Output(), 0xaa)

	e.writeControl(0x00)
	test.ExpectEquality(t, e.State(), envRelease)
	e.Clock(1000000)
	test.ExpectEquality(t, e.Output(), 0)
}

func TestFilterRouting(t *testing.T) {
	f := NewSidFilter()
	f.writeModeVol(0x0f)

	// unfiltered voices pass straight to the output
	f.Clock(8, 0x80<<7, 0x100<<7, 0x200<<7, 0)
	test.ExpectEquality(t, f.Output(), (0x380+mixerDC6581)*15)

	// voice 3 off silences an unfiltered voice 3 only
	f.writeModeVol(0x8f)
	f.Clock(8, 0x80<<7, 0x100<<7, 0x200<<7, 0)
	test.ExpectEquality(t, f.vnf, 0x180)

	f.writeResFilt(0x04)
	f.Clock(8, 0x80<<7, 0x100<<7, 0x200<<7, 0)
	test.ExpectEquality(t, f.vnf, 0x180)
	test.ExpectInequality(t, f.vhp, 0)

	// no mode selected leaves the filtered voice out of the output
	test.ExpectEquality(t, f.Output(), (0x180+mixerDC6581)*15)

	// disabled, every input bypasses the filter
	f.EnableFilter(false)
	f.Clock(8, 0x80<<7, 0x100<<7, 0x200<<7, 0)
	test.ExpectEquality(t, f.vnf, 0x380)
	test.ExpectEquality(t, f.vbp, 0)
}
