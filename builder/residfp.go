package builder

import (
	"sync"

	"yaspg/sidplayfp/curated"
	"yaspg/sidplayfp/residfp"
)

// ReSIDfp builds devices using the floating point chip model.
type ReSIDfp struct {
	pool

	params    sync.Mutex
	curve6581 float64
	curve8580 float64
	bias      float64
}

// NewReSIDfp is the preferred method of initialisation for the ReSIDfp type.
func NewReSIDfp() *ReSIDfp {
	b := &ReSIDfp{
		curve6581: residfp.DefaultFilterCurve,
		curve8580: residfp.DefaultFilterCurve,
	}
	b.pool.init(func() Device { return newResidfpDevice() }, b.configure)
	return b
}

func (b *ReSIDfp) configure(d Device) {
	b.params.Lock()
	defer b.params.Unlock()
	sid := d.(*residfpDevice).sid
	sid.SetFilter6581Curve(b.curve6581)
	sid.SetFilter8580Curve(b.curve8580)
	sid.SetFilterBias(b.bias)
}

// Name implements the Builder interface.
func (b *ReSIDfp) Name() string {
	return "ReSIDfp"
}

// Credits implements the Builder interface.
func (b *ReSIDfp) Credits() string {
	return "ReSIDfp engine:\n\tfloating point chip model with DAC and filter curve modelling\n\tbased on the work of Dag Lem and Antti S. Lankila\n"
}

// Filter6581Curve implements the FilterCurveTuner interface.
func (b *ReSIDfp) Filter6581Curve(curve float64) {
	b.params.Lock()
	b.curve6581 = curve
	b.params.Unlock()
	b.apply(func(d Device) {
		d.(*residfpDevice).sid.SetFilter6581Curve(curve)
	})
}

// Filter8580Curve implements the FilterCurveTuner interface.
func (b *ReSIDfp) Filter8580Curve(curve float64) {
	b.params.Lock()
	b.curve8580 = curve
	b.params.Unlock()
	b.apply(func(d Device) {
		d.(*residfpDevice).sid.SetFilter8580Curve(curve)
	})
}

// Bias implements the BiasTuner interface.
func (b *ReSIDfp) Bias(volts float64) {
	b.params.Lock()
	b.bias = volts
	b.params.Unlock()
	b.apply(func(d Device) {
		d.(*residfpDevice).sid.SetFilterBias(volts)
	})
}

type residfpDevice struct {
	buffer
	sid       *residfp.SID
	clockFreq float64
	freq      float64
}

func newResidfpDevice() *residfpDevice {
	return &residfpDevice{
		sid:       residfp.NewSID(),
		clockFreq: 985248,
		freq:      44100,
	}
}

func (d *residfpDevice) Reset(volume uint8) {
	d.sid.Reset()
	d.sid.Write(0x18, volume)
	d.samples = d.samples[:0]
}

func (d *residfpDevice) Read(reg uint8) uint8 {
	return d.sid.Read(reg & 0x1f)
}

func (d *residfpDevice) Write(reg uint8, value uint8) {
	d.sid.Write(reg&0x1f, value)
}

func (d *residfpDevice) Clock(cycles int) {
	for cycles > 0 {
		n := d.sid.Clock(&cycles, d.prepare(cycles, d.clockFreq, d.freq))
		d.samples = append(d.samples, d.scratch[:n]...)
	}
}

func (d *residfpDevice) Voice(voice int, mute bool) {
	d.sid.Mute(voice, mute)
}

func (d *residfpDevice) Filter(enable bool) {
	d.sid.EnableFilter(enable)
}

func (d *residfpDevice) Model(model ChipModel) {
	if model == MOS8580 {
		d.sid.SetChipModel(residfp.MOS8580)
		return
	}
	d.sid.SetChipModel(residfp.MOS6581)
}

// fast sampling has no meaning for the floating point model. the method
// alone decides the resampler
func (d *residfpDevice) Sampling(clockFreq float64, freq float64, method SamplingMethod, _ bool) error {
	m := residfp.Decimate
	if method == ResampleInterpolate {
		m = residfp.Resample
	}

	if err := d.sid.SetSamplingParameters(clockFreq, m, freq); err != nil {
		return curated.Errorf(DeviceError, err)
	}

	d.clockFreq = clockFreq
	d.freq = freq
	return nil
}
