package resid

// cycles a waveform output is held by the DAC after the waveform is switched
// off
const (
	floatingOutput6581 = 54000
	floatingOutput8580 = 800000
)

// cycles for the noise shift register to fade to zero while the test bit is
// set
const (
	shiftRegisterFade6581 = 0x8000
	shiftRegisterFade8580 = 0x950000
)

// value of the noise shift register after it is reset
const shiftRegisterReset = 0x7ffff8

// bits of the noise shift register that form bits 11 to 4 of the waveform
// output
var noiseTaps = [8]uint{22, 20, 16, 13, 11, 7, 4, 2}

// WaveformGenerator is the oscillator of a voice. A 24 bit phase accumulator
// drives the triangle, sawtooth and pulse waveforms. Bit 19 of the
// accumulator clocks a 23 bit shift register for noise.
type WaveformGenerator struct {
	syncDest   *WaveformGenerator
	syncSource *WaveformGenerator
	msbRising  bool

	accumulator   reg24
	shiftRegister reg24
	freq          reg16
	pw            reg12
	waveform      reg8
	test          bool
	ringMod       bool
	sync          bool

	// sampled OSC3 tables for the combined waveforms
	tableST  *[]reg8
	tablePT  *[]reg8
	tablePS  *[]reg8
	tablePST *[]reg8

	// output held while no waveform is selected
	floating    reg12
	floatingTTL CycleCount

	// cycles until the shift register has faded with the test bit set
	fadeTTL CycleCount

	model Model
}

func NewWaveformGenerator() *WaveformGenerator {
	w := &WaveformGenerator{}
	w.syncSource = w
	w.SetModel(MOS6581)
	w.Reset()
	return w
}

func (w *WaveformGenerator) Reset() {
	w.accumulator = 0
	w.shiftRegister = shiftRegisterReset
	w.freq = 0
	w.pw = 0
	w.waveform = 0
	w.test = false
	w.ringMod = false
	w.sync = false
	w.msbRising = false
	w.floating = 0
	w.floatingTTL = 0
	w.fadeTTL = 0
}

// SetSyncSource makes source the oscillator that syncs and ring modulates
// this one.
func (w *WaveformGenerator) SetSyncSource(source *WaveformGenerator) {
	w.syncSource = source
	source.syncDest = w
}

func (w *WaveformGenerator) SetModel(model Model) {
	w.model = model

	if model == MOS6581 {
		w.tableST = &wave6581__ST
		w.tablePT = &wave6581_P_T
		w.tablePS = &wave6581_PS_
		w.tablePST = &wave6581_PST
		return
	}

	w.tableST = &wave8580__ST
	w.tablePT = &wave8580_P_T
	w.tablePS = &wave8580_PS_
	w.tablePST = &wave8580_PST
}

func (w *WaveformGenerator) floatingCycles() CycleCount {
	if w.model == MOS6581 {
		return floatingOutput6581
	}
	return floatingOutput8580
}

func (w *WaveformGenerator) fadeCycles() CycleCount {
	if w.model == MOS6581 {
		return shiftRegisterFade6581
	}
	return shiftRegisterFade8580
}

// Clock the oscillator by a number of cycles.
func (w *WaveformGenerator) Clock(cycles CycleCount) {
	if w.floatingTTL > 0 {
		w.floatingTTL -= cycles
		if w.floatingTTL <= 0 {
			w.floatingTTL = 0
			w.floating = 0
		}
	}

	if w.test {
		w.msbRising = false
		if w.fadeTTL > 0 {
			w.fadeTTL -= cycles
			if w.fadeTTL <= 0 {
				w.fadeTTL = 0
				w.shiftRegister = 0
			}
		}
		return
	}

	prev := w.accumulator
	delta := reg24(cycles) * reg24(w.freq)
	w.accumulator = (w.accumulator + delta) & 0xffffff
	w.msbRising = prev&0x800000 == 0 && w.accumulator&0x800000 != 0

	// the shift register is clocked each time bit 19 goes high, which is
	// every 0x100000 added to the accumulator
	period := reg24(0x100000)
	for delta > 0 {
		if delta < period {
			period = delta
			before := w.accumulator - period
			if period <= 0x080000 {
				if before&0x080000 != 0 || w.accumulator&0x080000 == 0 {
					break
				}
			} else if before&0x080000 != 0 && w.accumulator&0x080000 == 0 {
				break
			}
		}

		w.shift()
		delta -= period
	}
}

// shift the noise register once. combined waveforms including noise pull
// down the register bits that feed zero output bits
func (w *WaveformGenerator) shift() {
	bit0 := (w.shiftRegister>>22 ^ w.shiftRegister>>17) & 0x01
	w.shiftRegister = (w.shiftRegister<<1)&0x7fffff | bit0

	if w.waveform > 0x08 {
		w.writeBack(w.Output())
	}
}

func (w *WaveformGenerator) writeBack(out reg12) {
	for i, tap := range noiseTaps {
		if out&(0x800>>i) == 0 {
			w.shiftRegister &^= 1 << tap
		}
	}
}

// Synchronize resets the accumulator of the synced oscillator when the MSB
// of this one rises. A sync source that is itself synced on the same cycle
// does not sync its destination.
func (w *WaveformGenerator) Synchronize() {
	if w.msbRising && w.syncDest.sync && !(w.sync && w.syncSource.msbRising) {
		w.syncDest.accumulator = 0
	}
}

// the MSB of the accumulator folds the upper 12 bits into a triangle. ring
// modulation replaces the MSB with MSB EOR the MSB of the sync source
func (w *WaveformGenerator) triangle() reg12 {
	msb := w.accumulator
	if w.ringMod {
		msb ^= w.syncSource.accumulator
	}

	if msb&0x800000 != 0 {
		return reg12((^w.accumulator >> 11) & 0xffe)
	}
	return reg12((w.accumulator >> 11) & 0xffe)
}

func (w *WaveformGenerator) sawtooth() reg12 {
	return reg12(w.accumulator >> 12)
}

// the test bit holds the pulse high
func (w *WaveformGenerator) pulse() reg12 {
	if w.test || reg12(w.accumulator>>12) >= w.pw {
		return 0xfff
	}
	return 0x000
}

func (w *WaveformGenerator) noise() reg12 {
	var out reg12
	for i, tap := range noiseTaps {
		if w.shiftRegister&(1<<tap) != 0 {
			out |= 0x800 >> i
		}
	}
	return out
}

// output of the waveforms other than noise. combinations come from sampled
// OSC3 tables, which have 8 bits of resolution
func (w *WaveformGenerator) tone(waveform reg8) reg12 {
	switch waveform {
	case 0x1:
		return w.triangle()
	case 0x2:
		return w.sawtooth()
	case 0x3:
		return reg12((*w.tableST)[w.sawtooth()]) << 4
	case 0x4:
		return w.pulse()
	case 0x5:
		return reg12((*w.tablePT)[w.triangle()>>1]) << 4 & w.pulse()
	case 0x6:
		return reg12((*w.tablePS)[w.sawtooth()]) << 4 & w.pulse()
	case 0x7:
		return reg12((*w.tablePST)[w.sawtooth()]) << 4 & w.pulse()
	}
	return 0
}

// Output is the 12 bit waveform output.
func (w *WaveformGenerator) Output() reg12 {
	switch {
	case w.waveform == 0:
		return w.floating
	case w.waveform == 0x8:
		return w.noise()
	case w.waveform > 0x8:
		return w.noise() & w.tone(w.waveform&0x7)
	}
	return w.tone(w.waveform)
}

func (w *WaveformGenerator) writeFreqLo(v reg8) {
	w.freq = w.freq&0xff00 | reg16(v)
}

func (w *WaveformGenerator) writeFreqHi(v reg8) {
	w.freq = reg16(v)<<8 | w.freq&0x00ff
}

func (w *WaveformGenerator) writePwLo(v reg8) {
	w.pw = w.pw&0xf00 | reg12(v)
}

func (w *WaveformGenerator) writePwHi(v reg8) {
	w.pw = (reg12(v)<<8)&0xf00 | w.pw&0x0ff
}

// writeControl handles the waveform, test, ring modulation and sync bits. The
// gate bit belongs to the envelope.
func (w *WaveformGenerator) writeControl(control reg8) {
	waveform := (control >> 4) & 0x0f
	if waveform == 0 && w.waveform != 0 {
		w.floating = w.Output()
		w.floatingTTL = w.floatingCycles()
	}

	w.waveform = waveform
	w.ringMod = control&0x04 != 0
	w.sync = control&0x02 != 0

	test := control&0x08 != 0
	switch {
	case test && !w.test:
		// the accumulator clears at once. the shift register bits fade
		w.accumulator = 0
		w.fadeTTL = w.fadeCycles()
	case !test && w.test:
		// a faded register starts again from its reset value
		if w.fadeTTL == 0 {
			w.shiftRegister = shiftRegisterReset
		}
		w.fadeTTL = 0
	}
	w.test = test
}

func (w *WaveformGenerator) readOSC() reg8 {
	return reg8(w.Output() >> 4)
}
