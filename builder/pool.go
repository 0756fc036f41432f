package builder

import (
	"slices"
	"sync"

	"yaspg/sidplayfp/curated"
)

// pool is the device bookkeeping shared by the builders. Devices are created
// with the newDevice() function and configured with the configure()
// function before being locked.
type pool struct {
	crit sync.Mutex

	newDevice func() Device
	configure func(Device)

	devices []Device
	used    []bool

	err    string
	status bool
	filter bool
}

func (p *pool) init(newDevice func() Device, configure func(Device)) {
	p.newDevice = newDevice
	p.configure = configure
	p.status = true
	p.filter = true
}

// Create implements the Builder interface.
func (p *pool) Create(n int) int {
	p.crit.Lock()
	defer p.crit.Unlock()

	p.status = true
	p.err = ""

	if n > MaxSids {
		p.status = false
		p.err = curated.Errorf(DeviceError, "too many devices requested").Error()
		n = MaxSids
	}

	for len(p.devices) < n {
		d := p.newDevice()
		d.Filter(p.filter)
		if p.configure != nil {
			p.configure(d)
		}
		p.devices = append(p.devices, d)
		p.used = append(p.used, false)
	}

	return len(p.devices)
}

// UsedDevices implements the Builder interface.
func (p *pool) UsedDevices() int {
	p.crit.Lock()
	defer p.crit.Unlock()

	n := 0
	for _, u := range p.used {
		if u {
			n++
		}
	}
	return n
}

// AvailDevices implements the Builder interface.
func (p *pool) AvailDevices() int {
	p.crit.Lock()
	defer p.crit.Unlock()
	return len(p.devices)
}

// Error implements the Builder interface.
func (p *pool) Error() string {
	p.crit.Lock()
	defer p.crit.Unlock()
	return p.err
}

// Status implements the Builder interface.
func (p *pool) Status() bool {
	p.crit.Lock()
	defer p.crit.Unlock()
	return p.status
}

// Filter implements the Builder interface.
func (p *pool) Filter(enable bool) {
	p.crit.Lock()
	defer p.crit.Unlock()

	p.filter = enable
	for _, d := range p.devices {
		d.Filter(enable)
	}
}

// Lock implements the Builder interface.
func (p *pool) Lock(model ChipModel) (Device, error) {
	p.crit.Lock()
	defer p.crit.Unlock()

	for i, d := range p.devices {
		if p.used[i] {
			continue
		}
		p.used[i] = true
		p.status = true
		p.err = ""
		d.Model(model)
		d.Reset(0)
		return d, nil
	}

	err := curated.Errorf(DeviceError, "no available SIDs to lock")
	p.status = false
	p.err = err.Error()
	return nil, err
}

// Unlock implements the Builder interface.
func (p *pool) Unlock(dev Device) {
	p.crit.Lock()
	defer p.crit.Unlock()

	if i := slices.Index(p.devices, dev); i >= 0 {
		p.used[i] = false
	}
}

// apply runs f on every device created so far
func (p *pool) apply(f func(Device)) {
	p.crit.Lock()
	defer p.crit.Unlock()
	for _, d := range p.devices {
		f(d)
	}
}

// buffer is the output sample buffer shared by the device implementations
type buffer struct {
	samples []int16
	scratch []int16
}

func (b *buffer) Samples() []int16 {
	return b.samples
}

func (b *buffer) Consume(n int) {
	n = min(n, len(b.samples))
	b.samples = append(b.samples[:0], b.samples[n:]...)
}

// prepare the scratch buffer for a clocking of the given number of cycles
func (b *buffer) prepare(cycles int, clockFreq, freq float64) []int16 {
	n := int(float64(cycles)*freq/clockFreq) + 2
	if cap(b.scratch) < n {
		b.scratch = make([]int16, n)
	}
	return b.scratch[:n]
}
