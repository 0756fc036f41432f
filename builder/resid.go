package builder

import (
	"sync"

	"yaspg/sidplayfp/curated"
	resid "yaspg/sidplayfp/sid"
)

// ReSID builds devices using the integer chip model.
type ReSID struct {
	pool

	params sync.Mutex
	bias float64
}

// NewReSID is the preferred method of initialisation for the ReSID type.
func NewReSID() *ReSID {
	b := &ReSID{}
	b.pool.init(func() Device { return newResidDevice() }, b.configure)
	return b
}

func (b *ReSID) configure(d Device) {
	b.params.Lock()
	defer b.params.Unlock()
	d.(*residDevice).sid.SetFilterBias(b.bias)
}

// Name implements the Builder interface.
func (b *ReSID) Name() string {
	return "ReSID"
}

// Credits implements the Builder interface.
func (b *ReSID) Credits() string {
	return "ReSID engine:\n\tGo port of reSID\n\treSID: (C) 1999-2002 Dag Lem\n"
}

// Bias implements the BiasTuner interface.
func (b *ReSID) Bias(volts float64) {
	b.params.Lock()
	b.bias = volts
	b.params.Unlock()

	b.apply(func(d Device) {
		d.(*residDevice).sid.SetFilterBias(volts)
	})
}

type residDevice struct {
	buffer
	sid       *resid.Sid
	clockFreq float64
	freq      float64
}

func newResidDevice() *residDevice {
	return &residDevice{
		sid:       resid.NewSID(),
		clockFreq: 985248,
		freq:      44100,
	}
}

func (d *residDevice) Reset(volume uint8) {
	d.sid.Reset()
	d.sid.Write(0x18, volume)
	d.samples = d.samples[:0]
}

func (d *residDevice) Read(reg uint8) uint8 {
	return d.sid.Read(reg & 0x1f)
}

func (d *residDevice) Write(reg uint8, value uint8) {
	d.sid.Write(reg&0x1f, value)
}

func (d *residDevice) Clock(cycles int) {
	delta := resid.CycleCount(cycles)
	for delta > 0 {
		n := d.sid.ClockOut(&delta, d.prepare(int(delta), d.clockFreq, d.freq))
		d.samples = append(d.samples, d.scratch[:n]...)
	}
}

func (d *residDevice) Voice(voice int, mute bool) {
	d.sid.Mute(voice, mute)
}

func (d *residDevice) Filter(enable bool) {
	d.sid.EnableFilter(enable)
}

func (d *residDevice) Model(model ChipModel) {
	if model == MOS8580 {
		d.sid.SetModel(resid.MOS8580)
		return
	}
	d.sid.SetModel(resid.MOS6581)
}

func (d *residDevice) Sampling(clockFreq float64, freq float64, method SamplingMethod, fast bool) error {
	m := resid.SAMPLE_INTERPOLATE
	switch {
	case method == ResampleInterpolate:
		m = resid.SAMPLE_RESAMPLE
	case fast:
		m = resid.SAMPLE_FAST
	}

	if !d.sid.SetSamplingParameters(clockFreq, m, freq) {
		return curated.Errorf(DeviceError, "unable to set desired output frequency")
	}

	d.clockFreq = clockFreq
	d.freq = freq
	return nil
}
