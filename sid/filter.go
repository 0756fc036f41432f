package resid

import (
	"math"
)

// filter mode bits of the MODE/VOL register, after shifting down by 4
const (
	modeLowpass  = 0x1
	modeBandpass = 0x2
	modeHighpass = 0x4
)

// the 6581 mixer input sits about -0.06V off zero, which is 1/18 of the
// range of one voice. the 8580 has no offset
const mixerDC6581 sound_sample = -0xfff * 0xff / 18 >> 7

// the largest step the integrator takes
const filterStep CycleCount = 8

// cutoff above 4kHz makes the integration over filterStep cycles unstable
var w0MaxStep = cutoffW0(4000)

// cutoffW0 is 2*pi*f0 scaled by 1.048576, so that dividing by 1e6 becomes a
// shift right by 20
func cutoffW0(f0 float64) sound_sample {
	return sound_sample(math.Round(2 * math.Pi * f0 * 1.048576))
}

// SidFilter is the state variable filter of the chip, followed by the mode
// selector and the volume control.
type SidFilter struct {
	enabled bool

	fc        reg12
	res       reg8
	route     reg8
	voice3Off bool
	mode      reg8
	volume    reg4

	mixerDC sound_sample

	vhp sound_sample
	vbp sound_sample
	vlp sound_sample
	vnf sound_sample

	w0     sound_sample
	w0Ceil sound_sample

	// 1024/Q
	q1024 sound_sample

	cutoff    *[]int16
	biasScale float64
	model     Model
}

func NewSidFilter() *SidFilter {
	f := &SidFilter{
		enabled:   true,
		biasScale: 1.0,
	}
	f.SetModel(MOS6581)
	return f
}

func (f *SidFilter) Reset() {
	f.fc, f.res, f.route = 0, 0, 0
	f.voice3Off = false
	f.mode, f.volume = 0, 0
	f.vhp, f.vbp, f.vlp, f.vnf = 0, 0, 0, 0

	f.updateCutoff()
	f.updateResonance()
}

// FC is 11 bits. the low register holds bits 0 to 2
func (f *SidFilter) writeFcLo(v reg8) {
	f.fc = f.fc&0x7f8 | reg12(v&0x07)
	f.updateCutoff()
}

func (f *SidFilter) writeFcHi(v reg8) {
	f.fc = (reg12(v)<<3)&0x7f8 | f.fc&0x007
	f.updateCutoff()
}

func (f *SidFilter) writeResFilt(v reg8) {
	f.res = (v >> 4) & 0x0f
	f.route = v & 0x0f
	f.updateResonance()
}

func (f *SidFilter) writeModeVol(v reg8) {
	f.voice3Off = v&0x80 != 0
	f.mode = (v >> 4) & 0x07
	f.volume = reg4(v & 0x0f)
}

func (f *SidFilter) updateCutoff() {
	f0 := float64((*f.cutoff)[f.fc])
	if f.model == MOS6581 {
		f0 *= f.biasScale
	}

	f.w0 = cutoffW0(f0)
	f.w0Ceil = min(f.w0, w0MaxStep)
}

// Q rises linearly with the resonance setting from 0.707 to 1.707
func (f *SidFilter) updateResonance() {
	f.q1024 = sound_sample(math.Round(1024.0 / (0.707 + float64(f.res)/15.0)))
}

// EnableFilter routes every input around the filter when disabled.
func (f *SidFilter) EnableFilter(enable bool) {
	f.enabled = enable
}

// SetBias adjusts the 6581 cutoff curve. The bias is the deviation of the
// filter DAC voltage in volts, from -0.5 to 0.5. Each 0.5V doubles or halves
// the cutoff frequency.
func (f *SidFilter) SetBias(dacBias float64) {
	dacBias = math.Max(-0.5, math.Min(0.5, dacBias))
	f.biasScale = math.Exp2(dacBias * 2)
	f.updateCutoff()
}

func (f *SidFilter) SetModel(model Model) {
	f.model = model

	if model == MOS6581 {
		f.mixerDC = mixerDC6581
		f.cutoff = &filter6581
	} else {
		f.mixerDC = 0
		f.cutoff = &filter8580
	}

	f.updateCutoff()
	f.updateResonance()
}

// Clock the filter by a number of cycles. Voice inputs are 20 bits and are
// scaled down to 13 bits.
func (f *SidFilter) Clock(cycles CycleCount, voice1 sound_sample, voice2 sound_sample, voice3 sound_sample, extIn sound_sample) {
	inputs := [4]sound_sample{voice1 >> 7, voice2 >> 7, voice3 >> 7, extIn >> 7}

	// voice 3 off has no effect on a filtered voice 3
	if f.voice3Off && f.route&0x04 == 0 {
		inputs[2] = 0
	}

	var vi sound_sample
	f.vnf = 0
	for i, in := range inputs {
		if f.enabled && f.route&(1<<i) != 0 {
			vi += in
		} else {
			f.vnf += in
		}
	}

	if !f.enabled {
		f.vhp, f.vbp, f.vlp = 0, 0, 0
		return
	}

	// Vhp = Vbp/Q - Vlp - Vi
	// dVbp = -w0*Vhp*dt
	// dVlp = -w0*Vbp*dt
	for cycles > 0 {
		step := min(cycles, filterStep)

		// the division of dt by 1e6 is split over two shifts to avoid overflow
		w0dt := f.w0Ceil * sound_sample(step) >> 6

		dvbp := w0dt * f.vhp >> 14
		dvlp := w0dt * f.vbp >> 14
		f.vbp -= dvbp
		f.vlp -= dvlp
		f.vhp = f.vbp*f.q1024>>10 - f.vlp - vi

		cycles -= step
	}
}

// Output is the unfiltered inputs plus the selected filter outputs, scaled by
// the volume. The filter outputs are summed without weighting.
func (f *SidFilter) Output() sound_sample {
	out := f.vnf + f.mixerDC

	if f.enabled {
		if f.mode&modeLowpass != 0 {
			out += f.vlp
		}
		if f.mode&modeBandpass != 0 {
			out += f.vbp
		}
		if f.mode&modeHighpass != 0 {
			out += f.vhp
		}
	}

	return out * sound_sample(f.volume)
}
