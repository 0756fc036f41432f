package player

import (
	"yaspg/sidplayfp/builder"
)

// Name and version of the engine.
const (
	Name    = "sidplayfp"
	Version = "1.0.0"
)

// Info describes the engine and the tune it is playing.
type Info struct {
	Name    string
	Version string

	// credits of the engine followed by the credits of the backend
	Credits []string

	MaxSids  int
	Channels int

	// location of the driver in C64 memory. the driver is the built-in
	// KERNAL replacement, if it is being used
	DriverAddr   uint16
	DriverLength uint16

	PowerOnDelay int

	// how the play routine is being called. empty until the tune has been
	// initialised
	SpeedString string

	KernalDesc  string
	BasicDesc   string
	ChargenDesc string

	C64Model  C64Model
	SidModels []builder.ChipModel
	SidBases  []uint16
}

const credits = "sidplayfp:\n" +
	"\tC64 and SID emulation engine\n" +
	"\tMOS6510 emulation by github.com/beevik/go6502\n"

// Info returns information about the engine and the loaded tune.
func (p *Player) Info() Info {
	inf := Info{
		Name:         Name,
		Version:      Version,
		Credits:      []string{credits},
		MaxSids:      builder.MaxSids,
		Channels:     p.cfg.Playback.Channels(),
		PowerOnDelay: p.powerOnDelay,
		SpeedString:  p.speedString,
		KernalDesc:   kernalDesc(p.kernal),
		BasicDesc:    romDesc(p.basic, "C64 BASIC V2"),
		ChargenDesc:  romDesc(p.chargen, "C64 character generator"),
		C64Model:     p.lay.c64,
		SidModels:    append([]builder.ChipModel(nil), p.lay.models...),
		SidBases:     append([]uint16(nil), p.lay.bases...),
	}

	if p.cfg.Builder != nil {
		inf.Credits = append(inf.Credits, p.cfg.Builder.Credits())
	}

	if p.kernal == nil {
		inf.DriverAddr = 0xe000
		inf.DriverLength = uint16(len(kernalReplacement))
	}

	return inf
}

func romDesc(rom []byte, desc string) string {
	if rom == nil {
		return ""
	}
	return desc
}

// the revision of a KERNAL ROM is at $ff80
func kernalDesc(rom []byte) string {
	if rom == nil {
		return "built-in KERNAL replacement"
	}
	switch rom[0x1f80] {
	case 0xaa:
		return "C64 KERNAL first revision"
	case 0x00:
		return "C64 KERNAL second revision"
	case 0x03:
		return "C64 KERNAL third revision"
	case 0x43:
		return "SX-64 KERNAL"
	case 0x64:
		return "4064 KERNAL"
	}
	return "unknown KERNAL"
}
