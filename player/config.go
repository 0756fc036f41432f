package player

import (
	"fmt"

	"yaspg/sidplayfp/builder"
	"yaspg/sidplayfp/curated"
)

// Playback is the channel layout of the output.
type Playback int

// List of valid Playback values.
const (
	Mono Playback = iota
	Stereo
)

func (p Playback) String() string {
	if p == Stereo {
		return "stereo"
	}
	return "mono"
}

// Channels returns the number of interleaved channels.
func (p Playback) Channels() int {
	if p == Stereo {
		return 2
	}
	return 1
}

// Limits of the configuration values.
const (
	MinFrequency = 8000
	MaxFrequency = 192000

	MaxVolume = 1024

	MaxPowerOnDelay = 0x1fff

	// DefaultPowerOnDelay means that the delay is taken from the
	// fingerprint of the tune.
	DefaultPowerOnDelay = MaxPowerOnDelay + 1
)

// Config is the configuration of a Player. A Config is a value and can be
// reused with more than one Player. The Builder in a Config should only be
// used by one playing Player at a time.
type Config struct {
	// the model used when the tune does not say, or always if the model is
	// forced
	DefaultC64Model C64Model
	ForceC64Model   bool

	DefaultSidModel builder.ChipModel
	ForceSidModel   bool

	Playback  Playback
	Frequency int

	// addresses of extra chips. addresses in the tune take precedence. zero
	// means no chip
	SecondSidAddress uint16
	ThirdSidAddress  uint16

	Builder builder.Builder

	// volume of each channel. 1024 is full volume
	LeftVolume  int
	RightVolume int

	// cycles the machine runs after power on and before the tune is
	// initialised
	PowerOnDelay int

	SamplingMethod builder.SamplingMethod
	FastSampling   bool

	// undocumented opcodes and init routines that do not return are
	// emulation faults
	Strict bool
}

// DefaultConfig returns the default configuration. The Builder field is nil
// and must be set before the Config is used.
func DefaultConfig() Config {
	return Config{
		DefaultC64Model: PAL,
		DefaultSidModel: builder.MOS6581,
		Playback:        Mono,
		Frequency:       44100,
		LeftVolume:      MaxVolume,
		RightVolume:     MaxVolume,
		PowerOnDelay:    DefaultPowerOnDelay,
		SamplingMethod:  builder.Interpolate,
	}
}

// valid addresses for extra chips are in the range $d420 to $d7e0 or $de00
// to $dfe0, on a $20 boundary
func validSidAddress(addr uint16) bool {
	if addr&0x1f != 0 {
		return false
	}
	return (addr >= 0xd420 && addr <= 0xd7e0) || (addr >= 0xde00 && addr <= 0xdfe0)
}

func (cfg Config) validate() error {
	if cfg.Builder == nil {
		return curated.Errorf(ConfigError, "no emulation backend")
	}

	if cfg.Frequency < MinFrequency || cfg.Frequency > MaxFrequency {
		return curated.Errorf(ConfigError, fmt.Sprintf("unsupported sampling frequency %d", cfg.Frequency))
	}

	if cfg.Playback != Mono && cfg.Playback != Stereo {
		return curated.Errorf(ConfigError, fmt.Sprintf("unsupported playback mode %d", cfg.Playback))
	}

	if cfg.DefaultC64Model < PAL || cfg.DefaultC64Model > Drean {
		return curated.Errorf(ConfigError, fmt.Sprintf("unsupported C64 model %d", cfg.DefaultC64Model))
	}

	if cfg.DefaultSidModel != builder.MOS6581 && cfg.DefaultSidModel != builder.MOS8580 {
		return curated.Errorf(ConfigError, fmt.Sprintf("unsupported SID model %d", cfg.DefaultSidModel))
	}

	if cfg.SamplingMethod != builder.Interpolate && cfg.SamplingMethod != builder.ResampleInterpolate {
		return curated.Errorf(ConfigError, fmt.Sprintf("unsupported sampling method %d", cfg.SamplingMethod))
	}

	if cfg.LeftVolume < 0 || cfg.LeftVolume > MaxVolume || cfg.RightVolume < 0 || cfg.RightVolume > MaxVolume {
		return curated.Errorf(ConfigError, "volume out of range")
	}

	if cfg.PowerOnDelay < 0 || cfg.PowerOnDelay > DefaultPowerOnDelay {
		return curated.Errorf(ConfigError, fmt.Sprintf("power on delay %d out of range", cfg.PowerOnDelay))
	}

	if cfg.SecondSidAddress != 0 && !validSidAddress(cfg.SecondSidAddress) {
		return curated.Errorf(ConfigError, fmt.Sprintf("invalid second SID address $%04x", cfg.SecondSidAddress))
	}

	if cfg.ThirdSidAddress != 0 {
		if !validSidAddress(cfg.ThirdSidAddress) {
			return curated.Errorf(ConfigError, fmt.Sprintf("invalid third SID address $%04x", cfg.ThirdSidAddress))
		}
		if cfg.ThirdSidAddress == cfg.SecondSidAddress {
			return curated.Errorf(ConfigError, "second and third SID addresses are the same")
		}
	}

	return nil
}
