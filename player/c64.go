package player

// C64Model is the video standard of the emulated machine. The model decides
// the CPU clock and the length of a frame.
type C64Model int

// List of valid C64Model values.
const (
	PAL C64Model = iota
	NTSC
	OldNTSC
	Drean
)

func (m C64Model) String() string {
	switch m {
	case PAL:
		return "PAL"
	case NTSC:
		return "NTSC"
	case OldNTSC:
		return "OLD_NTSC"
	case Drean:
		return "DREAN"
	}
	return "unknown"
}

type timing struct {
	// CPU clock in Hz
	clock float64

	// raster lines in a frame and CPU cycles in a line
	lines         int
	cyclesPerLine int

	// the value the KERNAL writes to CIA 1 timer A. it gives an interrupt
	// rate of about 60Hz
	ciaTimer uint16
}

func (m C64Model) timing() timing {
	switch m {
	case NTSC:
		return timing{clock: 14318180.0 / 14, lines: 263, cyclesPerLine: 65, ciaTimer: 0x4295}
	case OldNTSC:
		return timing{clock: 14318180.0 / 14, lines: 262, cyclesPerLine: 64, ciaTimer: 0x4295}
	case Drean:
		return timing{clock: 14328225.0 / 14, lines: 312, cyclesPerLine: 65, ciaTimer: 0x4025}
	}
	return timing{clock: 17734472.0 / 18, lines: 312, cyclesPerLine: 63, ciaTimer: 0x4025}
}

func (t timing) frameCycles() int {
	return t.lines * t.cyclesPerLine
}

func (t timing) frameRate() float64 {
	return t.clock / float64(t.frameCycles())
}
