package residfp

import "math"

// combined waveform table indices
const (
	comboST = iota
	comboPT
	comboPS
	comboPST
)

// combined waveform tables for each chip model
var combined [2][4][]uint16

func init() {
	combined[MOS6581] = combinedWaveforms(0.8, 0.62)
	combined[MOS8580] = combinedWaveforms(1.6, 0.38)
}

// combinedWaveforms builds the output of the combined waveforms. Each output
// bit of the AND'ed waveforms is the result of its neighbours pulling it
// towards zero. The pull weakens with distance. A bit stays high if the
// weighted average of the bits around it is above the threshold.
func combinedWaveforms(spread float64, threshold float64) [4][]uint16 {
	var tables [4][]uint16
	for i := range tables {
		tables[i] = make([]uint16, 0x1000)
	}

	var weights [12]float64
	for d := range weights {
		weights[d] = math.Exp(-float64(d) / spread)
	}

	pull := func(v uint16) uint16 {
		var out uint16
		for b := range 12 {
			if v&(1<<b) == 0 {
				continue
			}
			w := 0.0
			sum := 0.0
			for c := range 12 {
				d := b - c
				if d < 0 {
					d = -d
				}
				sum += weights[d]
				if v&(1<<c) != 0 {
					w += weights[d]
				}
			}
			if w/sum > threshold {
				out |= 1 << b
			}
		}
		return out
	}

	for i := range uint16(0x1000) {
		saw := i
		tri := triangle(i)
		tables[comboST][i] = pull(saw & tri)
		tables[comboPS][i] = pull(saw)
		tables[comboPST][i] = pull(pull(saw & tri))
		tables[comboPT][i] = pull((i << 1) & 0xffe)
	}

	return tables
}

// triangle output for the upper 12 bits of the accumulator
func triangle(acc uint16) uint16 {
	if acc&0x800 != 0 {
		return (^acc << 1) & 0xffe
	}
	return (acc << 1) & 0xffe
}

type waveformGenerator struct {
	accumulator   uint32
	shiftRegister uint32
	freq          uint32
	pw            uint32

	waveform uint8
	test     bool
	sync     bool
	ring     bool

	msbRising bool

	// the voice that syncs and ring modulates this voice
	source *waveformGenerator

	tables *[4][]uint16
}

func (w *waveformGenerator) reset() {
	w.accumulator = 0
	w.shiftRegister = 0x7ffff8
	w.freq = 0
	w.pw = 0
	w.waveform = 0
	w.test = false
	w.sync = false
	w.ring = false
	w.msbRising = false
}

func (w *waveformGenerator) setModel(model ChipModel) {
	w.tables = &combined[model]
}

func (w *waveformGenerator) writeControl(control uint8) {
	w.waveform = control >> 4
	w.ring = control&0x04 != 0
	w.sync = control&0x02 != 0

	test := control&0x08 != 0
	if test {
		w.accumulator = 0
		w.shiftRegister = 0
	} else if w.test {
		w.shiftRegister = 0x7ffff8
	}
	w.test = test
}

func (w *waveformGenerator) clock() {
	if w.test {
		w.msbRising = false
		return
	}

	prev := w.accumulator
	w.accumulator = (w.accumulator + w.freq) & 0xffffff
	rising := ^prev & w.accumulator

	w.msbRising = rising&0x800000 != 0

	// noise is clocked by bit 19 going high
	if rising&0x080000 != 0 {
		bit0 := ((w.shiftRegister >> 22) ^ (w.shiftRegister >> 17)) & 0x01
		w.shiftRegister = ((w.shiftRegister << 1) & 0x7fffff) | bit0
	}
}

// synchronise resets the accumulator of dest if this oscillator is its sync
// source and the MSB went high this cycle
func (w *waveformGenerator) synchronise(dest *waveformGenerator) {
	if w.msbRising && dest.sync && !(w.sync && w.source.msbRising) {
		dest.accumulator = 0
	}
}

func (w *waveformGenerator) noise() uint16 {
	s := w.shiftRegister
	return uint16(((s & 0x400000) >> 11) |
		((s & 0x100000) >> 10) |
		((s & 0x010000) >> 7) |
		((s & 0x002000) >> 5) |
		((s & 0x000800) >> 4) |
		((s & 0x000080) >> 1) |
		((s & 0x000010) << 1) |
		((s & 0x000004) << 2))
}

// output of the waveform selector. a 12 bit value
func (w *waveformGenerator) output() uint16 {
	acc := uint16(w.accumulator >> 12)

	tri := acc
	if w.ring {
		tri ^= uint16(w.source.accumulator>>12) & 0x800
	}
	tri = triangle(tri)

	var pulse uint16
	if w.test || uint32(acc) >= w.pw {
		pulse = 0xfff
	}

	var out uint16
	switch w.waveform & 0x07 {
	case 0x1:
		out = tri
	case 0x2:
		out = acc
	case 0x3:
		out = w.tables[comboST][acc]
	case 0x4:
		out = pulse
	case 0x5:
		out = w.tables[comboPT][tri>>1] & pulse
	case 0x6:
		out = w.tables[comboPS][acc] & pulse
	case 0x7:
		out = w.tables[comboPST][acc] & pulse
	}

	if w.waveform&0x08 != 0 {
		if w.waveform == 0x08 {
			return w.noise()
		}
		return w.noise() & out
	}

	return out
}
