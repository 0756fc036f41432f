// Package builder defines the interface between the playback engine and the
// chip emulations. A Builder owns a pool of Devices. The engine locks one
// Device for each chip required by a tune and unlocks them when they are no
// longer needed.
//
// Three builders are provided: ReSID wraps the integer model in the resid
// package, ReSIDfp wraps the floating point model in the residfp package and
// Null provides silent devices that only remember register writes.
//
// Some builders have extra parameters. These are available through the
// FilterCurveTuner and BiasTuner interfaces.
package builder

// ChipModel selects the emulated chip revision.
type ChipModel int

// List of valid ChipModel values.
const (
	MOS6581 ChipModel = iota
	MOS8580
)

func (m ChipModel) String() string {
	switch m {
	case MOS6581:
		return "MOS6581"
	case MOS8580:
		return "MOS8580"
	}
	return "unknown"
}

// SamplingMethod selects how chip output is converted to the output sample
// rate.
type SamplingMethod int

// List of valid SamplingMethod values.
const (
	Interpolate SamplingMethod = iota
	ResampleInterpolate
)

func (m SamplingMethod) String() string {
	switch m {
	case Interpolate:
		return "interpolate"
	case ResampleInterpolate:
		return "resample"
	}
	return "unknown"
}

// MaxSids is the number of devices a builder will create.
const MaxSids = 3

// DeviceError is the pattern for errors returned by builders and devices.
const DeviceError = "device error: %v"

// Device is a single emulated chip.
type Device interface {
	// Reset the chip and set the master volume register.
	Reset(volume uint8)

	// Read and Write chip registers. Register numbers are 0x00 to 0x1f.
	Read(reg uint8) uint8
	Write(reg uint8, value uint8)

	// Clock the chip for the number of cycles. Output samples are appended
	// to the internal buffer.
	Clock(cycles int)

	// Samples returns the samples in the internal buffer. The slice is only
	// valid until the next call to Clock() or Consume().
	Samples() []int16

	// Consume removes n samples from the front of the internal buffer.
	Consume(n int)

	// Voice mutes or unmutes a voice. Voices are numbered 0 to 2.
	Voice(voice int, mute bool)

	// Filter enables or disables the chip filter.
	Filter(enable bool)

	// Model changes the chip revision.
	Model(model ChipModel)

	// Sampling sets up conversion from the chip clock to the sampling
	// frequency. Fast sampling trades accuracy for speed.
	Sampling(clockFreq float64, freq float64, method SamplingMethod, fast bool) error
}

// Builder creates and manages Devices of one emulation.
type Builder interface {
	// Name and Credits identify the emulation.
	Name() string
	Credits() string

	// Create makes up to n devices available, limited by MaxSids. Returns
	// the number of devices available.
	Create(n int) int

	// UsedDevices is the number of devices locked.
	UsedDevices() int

	// AvailDevices is the number of devices created.
	AvailDevices() int

	// Error is the message of the most recent failure. Status is false if
	// the most recent operation failed.
	Error() string
	Status() bool

	// Filter enables or disables the filter on all devices.
	Filter(enable bool)

	// Lock an unused device and set it to the chip model.
	Lock(model ChipModel) (Device, error)

	// Unlock returns a device to the pool.
	Unlock(dev Device)
}

// FilterCurveTuner is implemented by builders whose filter cutoff curves can
// be adjusted. Values range from 0.0 to 1.0.
type FilterCurveTuner interface {
	Filter6581Curve(curve float64)
	Filter8580Curve(curve float64)
}

// BiasTuner is implemented by builders that model the bias of the filter
// DAC. Values are in volts from -0.5 to 0.5.
type BiasTuner interface {
	Bias(volts float64)
}
