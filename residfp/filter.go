package residfp

import "math"

// resonance of the filter for each value of the RES register bits
var resonance6581 = [16]float64{
	0.50, 0.55, 0.62, 0.72, 0.85, 1.00, 1.20, 1.50,
	1.90, 2.40, 3.00, 3.80, 4.80, 6.00, 8.00, 12.0,
}

var resonance8580 = [16]float64{
	0.50, 0.60, 0.70, 0.82, 0.95, 1.10, 1.30, 1.50,
	1.75, 2.00, 2.30, 2.65, 3.00, 3.50, 4.20, 5.00,
}

// cutoff frequency limits
const (
	minCutoff     = 30.0
	maxCutoff6581 = 12000.0
	maxCutoff8580 = 18000.0
)

// the 6581 filter integrators saturate asymmetrically. values are relative to
// the output level of all three voices at full amplitude
const (
	thresholdPos6581 = 0.85
	thresholdNeg6581 = 0.75
	knee6581         = 2.0
)

// DefaultFilterCurve is the midpoint of the filter curve range.
const DefaultFilterCurve = 0.5

type filter struct {
	model   ChipModel
	enabled bool

	fc      uint16
	res     uint8
	routing uint8
	mode    uint8
	voice3  bool
	volume  uint8

	curve6581 float64
	curve8580 float64
	bias      float64

	clockFreq float64

	// state variable filter coefficients and state
	w   float64
	q   float64
	vhp float64
	vbp float64
	vlp float64
}

func (f *filter) reset() {
	f.fc = 0
	f.res = 0
	f.routing = 0
	f.mode = 0
	f.voice3 = false
	f.volume = 0
	f.vhp, f.vbp, f.vlp = 0, 0, 0
	f.update()
}

// cutoff returns the cutoff frequency in Hz for the current FC value
func (f *filter) cutoff() float64 {
	fc := float64(f.fc)

	if f.model == MOS8580 {
		// linear response. the curve tilts the slope
		hz := minCutoff + fc*5.8*(0.5+f.curve8580)
		return min(hz, maxCutoff8580)
	}

	// the 6581 curve is compressed at low values. the curve parameter and
	// the DAC bias move the whole curve up or down
	hz := minCutoff + math.Pow(fc, 1.35)*0.22*math.Exp2((f.curve6581-DefaultFilterCurve)*2)
	hz *= math.Exp2(f.bias * 2)
	return min(max(hz, minCutoff), maxCutoff6581)
}

func (f *filter) update() {
	if f.clockFreq == 0 {
		return
	}

	// limit to a sixth of the clock for stability of the single cycle
	// integration
	hz := min(f.cutoff(), f.clockFreq/6)
	f.w = 2 * math.Sin(math.Pi*hz/f.clockFreq)

	if f.model == MOS8580 {
		f.q = 1 / resonance8580[f.res]
	} else {
		f.q = 1 / resonance6581[f.res]
	}
}

func (f *filter) writeFcLo(v uint8) {
	f.fc = (f.fc & 0x7f8) | uint16(v&0x07)
	f.update()
}

func (f *filter) writeFcHi(v uint8) {
	f.fc = (uint16(v) << 3) | (f.fc & 0x07)
	f.update()
}

func (f *filter) writeResFilt(v uint8) {
	f.res = v >> 4
	f.routing = v & 0x0f
	f.update()
}

func (f *filter) writeModeVol(v uint8) {
	f.voice3 = v&0x80 == 0
	f.mode = (v >> 4) & 0x07
	f.volume = v & 0x0f
}

// soft clipping of the 6581 integrators
func saturate(x float64) float64 {
	const full = 3.0
	n := x / full
	switch {
	case n > thresholdPos6581:
		r := 1 - thresholdPos6581
		n = thresholdPos6581 + r*math.Tanh((n-thresholdPos6581)*knee6581/r)
	case n < -thresholdNeg6581:
		r := 1 - thresholdNeg6581
		n = -thresholdNeg6581 - r*math.Tanh((-n-thresholdNeg6581)*knee6581/r)
	}
	return n * full
}

// clock the filter one cycle with the three voice outputs and the external
// input. returns the mixer output before the volume control
func (f *filter) clock(v1, v2, v3, ext float64) float64 {
	// voice 3 is only silenced by the 3OFF bit if it is not routed through
	// the filter
	if !f.voice3 && f.routing&0x04 == 0 {
		v3 = 0
	}

	if !f.enabled {
		return (v1 + v2 + v3 + ext) * float64(f.volume) / 15
	}

	var vi, vnf float64
	for i, v := range [4]float64{v1, v2, v3, ext} {
		if f.routing&(1<<i) != 0 {
			vi += v
		} else {
			vnf += v
		}
	}

	f.vhp = vi - f.vlp - f.q*f.vbp
	f.vbp += f.w * f.vhp
	f.vlp += f.w * f.vbp

	if f.model == MOS6581 {
		f.vbp = saturate(f.vbp)
		f.vlp = saturate(f.vlp)
	}

	var vf float64
	if f.mode&0x01 != 0 {
		vf += f.vlp
	}
	if f.mode&0x02 != 0 {
		vf += f.vbp
	}
	if f.mode&0x04 != 0 {
		vf += f.vhp
	}

	return (vnf + vf) * float64(f.volume) / 15
}
