package resid

import (
	"math"

	"yaspg/sidplayfp/resample"
)

// fixed point precision of the sample offset for the FAST and INTERPOLATE
// sampling methods
const (
	fixpShift = 16
	fixpMask  = (1 << fixpShift) - 1
)

// Sid is a single MOS6581 or MOS8580 chip.
type Sid struct {
	voice       [3]*Voice
	filter      *SidFilter
	extfilter   *ExternalFilter
	potx        reg8
	poty        reg8
	busValue    reg8
	busValueTTL CycleCount
	extIn       sound_sample

	// sampling
	clkFreq         float64
	sampling        SamplingMethod
	cyclesPerSample CycleCount
	sampleOffset    CycleCount
	samplePrev      int
	resampler       resample.Resampler
}

func NewSID() *Sid {
	sid := &Sid{}
	sid.voice[0] = NewVoice()
	sid.voice[1] = NewVoice()
	sid.voice[2] = NewVoice()

	sid.voice[0].SetSyncSource(sid.voice[2])
	sid.voice[1].SetSyncSource(sid.voice[0])
	sid.voice[2].SetSyncSource(sid.voice[1])

	sid.filter = NewSidFilter()
	sid.extfilter = NewExternalFilter()

	sid.SetSamplingParameters(985248, SAMPLE_FAST, 44100)

	return sid
}

func (s *Sid) Reset() {
	s.voice[0].Reset()
	s.voice[1].Reset()
	s.voice[2].Reset()

	s.filter.Reset()
	s.extfilter.Reset()

	s.busValue = 0
	s.busValueTTL = 0

	s.sampleOffset = 0
	s.samplePrev = 0
	if s.resampler != nil {
		s.resampler.Reset()
	}
}

// ----------------------------------------------------------------------------
// Set chip model.
// ----------------------------------------------------------------------------
func (s *Sid) SetModel(model Model) {
	s.voice[0].SetModel(model)
	s.voice[1].SetModel(model)
	s.voice[2].SetModel(model)

	s.filter.SetModel(model)
	s.extfilter.SetModel(model)
}

// ----------------------------------------------------------------------------
// Write 16-bit sample to audio input.
// NB! The caller is responsible for keeping the value within 16 bits.
// ----------------------------------------------------------------------------
func (s *Sid) Input(sample int) {
	// Voice outputs are 20 bits. Scale up to match three voices in order
	// to facilitate simulation of the MOS8580 "digi boost" hardware hack.
	s.extIn = (sound_sample(sample) << 4) * 3
}

// ----------------------------------------------------------------------------
// Read sample from audio output.
// ----------------------------------------------------------------------------
func (s *Sid) Output() int {
	const rng = 1 << 16
	const half = rng >> 1
	sample := int(s.extfilter.Output()) / ((4095 * 255 >> 7) * 3 * 15 * 2 / rng)
	if sample >= half {
		return half - 1
	}
	if sample < -half {
		return -half
	}
	return sample
}

// ----------------------------------------------------------------------------
// Read registers.
//
// Reading a write only register returns the last byte written to any SID
// register. The individual bits in this value start to fade down towards
// zero after a few cycles. All bits reach zero within approximately
// $2000 - $4000 cycles. The fading is not modeled, the value is held for
// $2000 cycles and then cleared.
// ----------------------------------------------------------------------------
func (s *Sid) Read(offset uint8) uint8 {
	switch offset {
	case 0x19:
		return uint8(s.potx)
	case 0x1a:
		return uint8(s.poty)
	case 0x1b:
		return uint8(s.voice[2].Wave.readOSC())
	case 0x1c:
		return uint8(s.voice[2].Envelope.Output())
	default:
		return uint8(s.busValue)
	}
}

// ----------------------------------------------------------------------------
// Write registers.
// ----------------------------------------------------------------------------
func (s *Sid) Write(offset uint8, val uint8) {
	value := reg8(val)
	s.busValue = value
	s.busValueTTL = 0x2000

	if offset < 0x15 {
		v := s.voice[offset/7]
		switch offset % 7 {
		case 0x00:
			v.Wave.writeFreqLo(value)
		case 0x01:
			v.Wave.writeFreqHi(value)
		case 0x02:
			v.Wave.writePwLo(value)
		case 0x03:
			v.Wave.writePwHi(value)
		case 0x04:
			v.WriteCONTROL_REG(value)
		case 0x05:
			v.Envelope.writeAttackDecay(value)
		case 0x06:
			v.Envelope.writeSustainRelease(value)
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

// ----------------------------------------------------------------------------
// SID voice muting.
// ----------------------------------------------------------------------------
func (s *Sid) Mute(channel int, enable bool) {
	// Only have 3 voices!
	if channel < 0 || channel >= 3 {
		return
	}
	s.voice[channel].Mute(enable)
}

// EnableFilter switches the chip filter in or out of the signal path.
func (s *Sid) EnableFilter(enable bool) {
	s.filter.EnableFilter(enable)
}

// EnableExternalFilter switches the board filter in or out of the signal
// path.
func (s *Sid) EnableExternalFilter(enable bool) {
	s.extfilter.EnableFilter(enable)
}

// SetFilterBias shifts the 6581 filter cutoff curve.
func (s *Sid) SetFilterBias(dacBias float64) {
	s.filter.SetBias(dacBias)
}

// ----------------------------------------------------------------------------
// Setting of SID sampling parameters.
//
// Use a clock frequency of 985248Hz for PAL C64, 1022730Hz for NTSC C64.
// The default end of passband frequency is pass_freq = 0.9*sample_freq/2
// for sample frequencies up to ~ 44.1kHz, and 20kHz for higher sample
// frequencies.
// ----------------------------------------------------------------------------
func (s *Sid) SetSamplingParameters(clock_freq float64, method SamplingMethod, sample_freq float64) bool {
	if sample_freq <= 0 || clock_freq < sample_freq {
		return false
	}

	pass_freq := 20000.0
	if 2.0*pass_freq/sample_freq >= 0.9 {
		pass_freq = 0.9 * sample_freq / 2.0
	}

	var resampler resample.Resampler
	if method == SAMPLE_RESAMPLE {
		r, err := resample.NewSinc(clock_freq, sample_freq, pass_freq)
		if err != nil {
			return false
		}
		resampler = r
	}

	// Set the external filter to the pass freq
	s.extfilter.SetSamplingParameter(pass_freq)
	s.clkFreq = clock_freq
	s.sampling = method
	s.resampler = resampler

	s.cyclesPerSample = CycleCount(clock_freq/sample_freq*(1<<fixpShift) + 0.5)

	s.sampleOffset = 0
	s.samplePrev = 0

	return true
}

// ----------------------------------------------------------------------------
// SID clocking - delta_t cycles.
// ----------------------------------------------------------------------------
func (s *Sid) Clock(delta_t CycleCount) {
	if delta_t <= 0 {
		return
	}

	// Age bus value.
	s.busValueTTL -= delta_t
	if s.busValueTTL <= 0 {
		s.busValue = 0
		s.busValueTTL = 0
	}

	// Clock amplitude modulators.
	s.voice[0].Envelope.Clock(delta_t)
	s.voice[1].Envelope.Clock(delta_t)
	s.voice[2].Envelope.Clock(delta_t)

	// Clock and synchronize oscillators.
	// Loop until we reach the current cycle.
	delta_t_osc := delta_t
	for delta_t_osc > 0 {
		delta_t_min := delta_t_osc

		// Find minimum number of cycles to an oscillator accumulator MSB toggle.
		// We have to clock on each MSB on / MSB off for hard sync to operate
		// correctly.
		for i := range 3 {
			wave := s.voice[i].Wave

			// It is only necessary to clock on the MSB of an oscillator that is
			// a sync source and has freq != 0.
			if !(wave.syncDest.sync && wave.freq != 0) {
				continue
			}

			freq := wave.freq
			accumulator := wave.accumulator

			// Clock on MSB off if MSB is on, clock on MSB on if MSB is off.
			var delta_accumulator reg24
			if accumulator&0x800000 != 0 {
				delta_accumulator = 0x1000000 - accumulator
			} else {
				delta_accumulator = 0x800000 - accumulator
			}

			delta_t_next := CycleCount(delta_accumulator / reg24(freq))
			if (delta_accumulator % reg24(freq)) != 0 {
				delta_t_next++
			}

			if delta_t_next < delta_t_min {
				delta_t_min = delta_t_next
			}
		}

		// Clock oscillators.
		s.voice[0].Wave.Clock(delta_t_min)
		s.voice[1].Wave.Clock(delta_t_min)
		s.voice[2].Wave.Clock(delta_t_min)

		// Synchronize oscillators.
		s.voice[0].Wave.Synchronize()
		s.voice[1].Wave.Synchronize()
		s.voice[2].Wave.Synchronize()

		delta_t_osc -= delta_t_min
	}

	// Clock filter.
	s.filter.Clock(delta_t, s.voice[0].Output(), s.voice[1].Output(), s.voice[2].Output(), s.extIn)

	// Clock external filter.
	s.extfilter.Clock(delta_t, s.filter.Output())
}

// ----------------------------------------------------------------------------
// SID clocking with audio sampling.
//
// Clocks the chip for up to delta_t cycles and writes output samples to buf.
// delta_t is decreased by the number of cycles run. Clocking stops early when
// buf is full. Returns the number of samples written.
// ----------------------------------------------------------------------------
func (s *Sid) ClockOut(delta_t *CycleCount, buf []int16) int {
	switch s.sampling {
	case SAMPLE_INTERPOLATE:
		return s.clockInterpolate(delta_t, buf)
	case SAMPLE_RESAMPLE:
		return s.clockResample(delta_t, buf)
	default:
		return s.clockFast(delta_t, buf)
	}
}

// output is taken from the cycle nearest the sample point
func (s *Sid) clockFast(delta_t *CycleCount, buf []int16) int {
	n := 0
	for {
		next_sample_offset := s.sampleOffset + s.cyclesPerSample + (1 << (fixpShift - 1))
		delta_t_sample := next_sample_offset >> fixpShift
		if delta_t_sample > *delta_t {
			break
		}
		if n >= len(buf) {
			return n
		}
		s.Clock(delta_t_sample)
		*delta_t -= delta_t_sample
		s.sampleOffset = (next_sample_offset & fixpMask) - (1 << (fixpShift - 1))
		buf[n] = int16(s.Output())
		n++
	}

	s.Clock(*delta_t)
	s.sampleOffset -= *delta_t << fixpShift
	*delta_t = 0

	return n
}

// linear interpolation between the two cycles either side of the sample
// point. the last cycle before the sample point is clocked singly
func (s *Sid) clockInterpolate(delta_t *CycleCount, buf []int16) int {
	n := 0
	for {
		next_sample_offset := s.sampleOffset + s.cyclesPerSample
		delta_t_sample := next_sample_offset >> fixpShift
		if delta_t_sample > *delta_t {
			break
		}
		if n >= len(buf) {
			return n
		}

		if delta_t_sample > 1 {
			s.Clock(delta_t_sample - 1)
		}
		if delta_t_sample > 0 {
			s.samplePrev = s.Output()
			s.Clock(1)
		}

		*delta_t -= delta_t_sample
		s.sampleOffset = next_sample_offset & fixpMask

		now := s.Output()
		buf[n] = int16(s.samplePrev + int(s.sampleOffset)*(now-s.samplePrev)>>fixpShift)
		n++
		s.samplePrev = now
	}

	if *delta_t > 1 {
		s.Clock(*delta_t - 1)
	}
	if *delta_t > 0 {
		s.samplePrev = s.Output()
		s.Clock(1)
	}
	s.sampleOffset -= *delta_t << fixpShift
	*delta_t = 0

	return n
}

// every cycle is passed through the band limiting resampler
func (s *Sid) clockResample(delta_t *CycleCount, buf []int16) int {
	n := 0
	for *delta_t > 0 {
		if n >= len(buf) {
			return n
		}
		s.Clock(1)
		*delta_t--
		if s.resampler.Input(s.Output()) {
			buf[n] = int16(max(min(s.resampler.Output(), math.MaxInt16), math.MinInt16))
			n++
		}
	}
	return n
}
