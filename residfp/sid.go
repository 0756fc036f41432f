package residfp

import (
	"fmt"
	"math"

	"yaspg/sidplayfp/curated"
	"yaspg/sidplayfp/resample"
)

// SamplingError is the pattern for errors setting up the resampler.
const SamplingError = "residfp: %v"

// ChipModel selects the emulated chip revision.
type ChipModel int

// List of valid ChipModel values.
const (
	MOS6581 ChipModel = iota
	MOS8580
)

func (m ChipModel) String() string {
	if m == MOS8580 {
		return "MOS8580"
	}
	return "MOS6581"
}

// SamplingMethod selects the resampler used to produce output samples.
type SamplingMethod int

// List of valid SamplingMethod values.
const (
	// linear interpolation between cycles
	Decimate SamplingMethod = iota

	// band limited resampling
	Resample
)

// the value of the bus after a write decays to zero after this many cycles
const busTTL = 0x2000

// scaling of the internal signal to 16 bit output. three voices at full
// amplitude reach about half of the output range
const outputScale = 32768.0 / 6

// the 6581 waveform DAC has its zero level offset from the centre of the
// range
const waveZero6581 = 0x380

type voice struct {
	wave     waveformGenerator
	envelope envelopeGenerator
	muted    bool
}

// SID is a single chip.
type SID struct {
	model ChipModel

	voices [3]voice
	filter filter
	ext    externalFilter

	waveDac  []float64
	envDac   []float64
	waveZero float64

	busValue    uint8
	busValueTTL int

	extIn float64

	resampler resample.Resampler
}

// NewSID is the preferred method of initialisation for the SID type.
func NewSID() *SID {
	s := &SID{}

	s.voices[0].wave.source = &s.voices[2].wave
	s.voices[1].wave.source = &s.voices[0].wave
	s.voices[2].wave.source = &s.voices[1].wave

	s.filter.enabled = true
	s.filter.curve6581 = DefaultFilterCurve
	s.filter.curve8580 = DefaultFilterCurve
	s.ext.enabled = true

	s.SetChipModel(MOS6581)
	_ = s.SetSamplingParameters(985248, Decimate, 44100)
	s.Reset()

	return s
}

// SetChipModel changes the chip revision. The DAC and combined waveform
// models are changed with it.
func (s *SID) SetChipModel(model ChipModel) {
	s.model = model
	s.filter.model = model

	if model == MOS6581 {
		s.waveDac = dacTable(12, 2.20, false)
		s.envDac = dacTable(8, 2.20, false)
		s.waveZero = s.waveDac[waveZero6581]
	} else {
		s.waveDac = dacTable(12, 2.00, true)
		s.envDac = dacTable(8, 2.00, true)
		s.waveZero = s.waveDac[0x800]
	}

	for i := range s.voices {
		s.voices[i].wave.setModel(model)
	}

	s.filter.update()
}

// ChipModel returns the current chip revision.
func (s *SID) ChipModel() ChipModel {
	return s.model
}

// SetSamplingParameters prepares the resampler. The highest accurate
// frequency is 20kHz or 90% of the nyquist frequency, whichever is lower.
func (s *SID) SetSamplingParameters(clockFreq float64, method SamplingMethod, samplingFreq float64) error {
	if samplingFreq <= 0 || clockFreq < samplingFreq {
		return curated.Errorf(SamplingError, fmt.Sprintf("unsupported sampling rate %.0fHz for clock %.0fHz", samplingFreq, clockFreq))
	}

	var r resample.Resampler
	switch method {
	case Decimate:
		r = resample.NewZeroOrder(clockFreq, samplingFreq)
	case Resample:
		pass := min(20000, 0.9*samplingFreq/2)
		sinc, err := resample.NewSinc(clockFreq, samplingFreq, pass)
		if err != nil {
			return curated.Errorf(SamplingError, err)
		}
		r = sinc
	default:
		return curated.Errorf(SamplingError, "unknown sampling method")
	}

	s.resampler = r
	s.filter.clockFreq = clockFreq
	s.filter.update()
	s.ext.setClock(clockFreq)

	return nil
}

// Reset the chip to its power on state.
func (s *SID) Reset() {
	for i := range s.voices {
		s.voices[i].wave.reset()
		s.voices[i].envelope.reset()
	}
	s.filter.reset()
	s.ext.reset()
	s.busValue = 0
	s.busValueTTL = 0
	if s.resampler != nil {
		s.resampler.Reset()
	}
}

// Read a register. Write-only registers return the last value on the bus.
func (s *SID) Read(offset uint8) uint8 {
	switch offset {
	case 0x19, 0x1a:
		return 0xff
	case 0x1b:
		return uint8(s.voices[2].wave.output() >> 4)
	case 0x1c:
		return s.voices[2].envelope.output()
	}
	return s.busValue
}

// Write a register.
func (s *SID) Write(offset uint8, value uint8) {
	s.busValue = value
	s.busValueTTL = busTTL

	if offset < 0x15 {
		v := &s.voices[offset/7]
		switch offset % 7 {
		case 0:
			v.wave.freq = (v.wave.freq & 0xff00) | uint32(value)
		case 1:
			v.wave.freq = (v.wave.freq & 0x00ff) | uint32(value)<<8
		case 2:
			v.wave.pw = (v.wave.pw & 0xf00) | uint32(value)
		case 3:
			v.wave.pw = (v.wave.pw & 0x0ff) | uint32(value&0x0f)<<8
		case 4:
			v.wave.writeControl(value)
			v.envelope.writeControl(value)
		case 5:
			v.envelope.writeAttackDecay(value)
		case 6:
			v.envelope.writeSustainRelease(value)
		}
		return
	}

	switch offset {
	case 0x15:
		s.filter.writeFcLo(value)
	case 0x16:
		s.filter.writeFcHi(value)
	case 0x17:
		s.filter.writeResFilt(value)
	case 0x18:
		s.filter.writeModeVol(value)
	}
}

// Mute a voice. The voice continues to run and is in phase when unmuted.
func (s *SID) Mute(voice int, enable bool) {
	if voice < 0 || voice >= len(s.voices) {
		return
	}
	s.voices[voice].muted = enable
}

// EnableFilter switches the filter in or out of the signal path.
func (s *SID) EnableFilter(enable bool) {
	s.filter.enabled = enable
}

// EnableExternalFilter switches the board filter in or out of the signal
// path.
func (s *SID) EnableExternalFilter(enable bool) {
	s.ext.enabled = enable
}

// SetFilter6581Curve sets the position of the 6581 cutoff curve. Values range
// from 0.0 (dark) to 1.0 (bright).
func (s *SID) SetFilter6581Curve(curve float64) {
	s.filter.curve6581 = math.Max(0, math.Min(1, curve))
	s.filter.update()
}

// SetFilter8580Curve sets the slope of the 8580 cutoff curve. Values range
// from 0.0 (dark) to 1.0 (bright).
func (s *SID) SetFilter8580Curve(curve float64) {
	s.filter.curve8580 = math.Max(0, math.Min(1, curve))
	s.filter.update()
}

// SetFilterBias shifts the 6581 cutoff curve by the given DAC bias in volts,
// from -0.5 to 0.5.
func (s *SID) SetFilterBias(bias float64) {
	s.filter.bias = math.Max(-0.5, math.Min(0.5, bias))
	s.filter.update()
}

// Input sets the external audio input. A 16 bit value.
func (s *SID) Input(sample int) {
	s.extIn = float64(sample) / 32768.0
}

func (s *SID) voiceOutput(i int) float64 {
	v := &s.voices[i]
	if v.muted {
		return 0
	}
	w := s.waveDac[v.wave.output()] - s.waveZero
	return w / 2048.0 * s.envDac[v.envelope.output()] / 256.0
}

// clock the chip one cycle and return the output level
func (s *SID) clock() int {
	if s.busValueTTL > 0 {
		s.busValueTTL--
		if s.busValueTTL == 0 {
			s.busValue = 0
		}
	}

	for i := range s.voices {
		s.voices[i].envelope.clock()
	}
	for i := range s.voices {
		s.voices[i].wave.clock()
	}
	s.voices[2].wave.synchronise(&s.voices[0].wave)
	s.voices[0].wave.synchronise(&s.voices[1].wave)
	s.voices[1].wave.synchronise(&s.voices[2].wave)

	o := s.filter.clock(s.voiceOutput(0), s.voiceOutput(1), s.voiceOutput(2), s.extIn)
	o = s.ext.clock(o)

	return int(o * outputScale)
}

// Clock the chip for up to *cycles cycles, writing output samples to buf.
// The value pointed to by cycles is decreased by the number of cycles run.
// Clocking stops early if buf is full. Returns the number of samples written.
func (s *SID) Clock(cycles *int, buf []int16) int {
	n := 0
	for *cycles > 0 {
		if n >= len(buf) {
			return n
		}
		*cycles--
		if s.resampler.Input(s.clock()) {
			buf[n] = int16(max(min(s.resampler.Output(), math.MaxInt16), math.MinInt16))
			n++
		}
	}
	return n
}
