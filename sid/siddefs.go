package resid

// Model selects the SID chip: 6581 or 8580
type Model byte

// SamplingMethod selects how chip output is converted to the output sample
// rate.
type SamplingMethod byte

type reg4 uint8
type reg8 uint8
type reg12 uint16
type reg16 uint16
type reg24 uint32

// CycleCount is a number of chip clock cycles.
type CycleCount int

type sound_sample int

const (
	// 6581 SID
	MOS6581 Model = iota

	// 8580 SID
	MOS8580
)

func (m Model) String() string {
	if m == MOS8580 {
		return "MOS8580"
	}
	return "MOS6581"
}

const (
	// Fast. Output is taken at the nearest cycle
	SAMPLE_FAST SamplingMethod = iota

	// Interpolate between the two cycles either side of the sample
	SAMPLE_INTERPOLATE

	// Band limited resampling
	SAMPLE_RESAMPLE
)
