package builder

// Null builds silent devices. Register writes are remembered and can be read
// back. Clocking produces silence at the output sample rate.
type Null struct {
	pool
}

// NewNull is the preferred method of initialisation for the Null type.
func NewNull() *Null {
	b := &Null{}
	b.pool.init(func() Device { return &nullDevice{clockFreq: 985248, freq: 44100} }, nil)
	return b
}

// Name implements the Builder interface.
func (b *Null) Name() string {
	return "NullSID"
}

// Credits implements the Builder interface.
func (b *Null) Credits() string {
	return "NullSID:\n\tsilent device for tune analysis\n"
}

type nullDevice struct {
	buffer
	regs      [0x20]uint8
	clockFreq float64
	freq      float64

	// fractional sample position in cycles * freq units
	offset float64
}

func (d *nullDevice) Reset(volume uint8) {
	clear(d.regs[:])
	d.regs[0x18] = volume
	d.samples = d.samples[:0]
	d.offset = 0
}

func (d *nullDevice) Read(reg uint8) uint8 {
	return d.regs[reg&0x1f]
}

func (d *nullDevice) Write(reg uint8, value uint8) {
	d.regs[reg&0x1f] = value
}

func (d *nullDevice) Clock(cycles int) {
	d.offset += float64(cycles) * d.freq / d.clockFreq
	n := int(d.offset)
	d.offset -= float64(n)
	for range n {
		d.samples = append(d.samples, 0)
	}
}

func (d *nullDevice) Voice(int, bool) {}

func (d *nullDevice) Filter(bool) {}

func (d *nullDevice) Model(ChipModel) {}

func (d *nullDevice) Sampling(clockFreq float64, freq float64, _ SamplingMethod, _ bool) error {
	d.clockFreq = clockFreq
	d.freq = freq
	return nil
}
