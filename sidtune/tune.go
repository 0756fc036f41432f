package sidtune

import (
	"fmt"

	"yaspg/sidplayfp/curated"
)

// Error patterns for the sidtune package.
const (
	FormatError = "format error: %v"
	IoError     = "io error: %v"
	RangeError  = "range error: %v"
)

// MaxSongs is the number of songs supported in a single tune.
const MaxSongs = 256

// MaxSids is the number of chips a tune can ask for.
const MaxSids = 3

// MD5Length is the length of the string returned by CreateMD5().
const MD5Length = 32

// the largest file accepted by the loader
const maxFileSize = 0x10000 + 0x7c + 2

const noErrors = "No errors"

// Clock is the video standard a tune was written for.
type Clock int

// List of valid Clock values.
const (
	ClockUnknown Clock = iota
	ClockPAL
	ClockNTSC
	ClockAny
)

func (c Clock) String() string {
	switch c {
	case ClockPAL:
		return "PAL"
	case ClockNTSC:
		return "NTSC"
	case ClockAny:
		return "PAL/NTSC"
	}
	return "unknown"
}

// Model is the chip revision a tune was written for.
type Model int

// List of valid Model values.
const (
	ModelUnknown Model = iota
	Model6581
	Model8580
	ModelAny
)

func (m Model) String() string {
	switch m {
	case Model6581:
		return "6581"
	case Model8580:
		return "8580"
	case ModelAny:
		return "6581/8580"
	}
	return "unknown"
}

// Compatibility describes the environment a tune needs.
type Compatibility int

// List of valid Compatibility values.
const (
	// tune runs in the C64 environment
	CompatibilityC64 Compatibility = iota

	// tune is specific to the PlaySID environment
	CompatibilityPSID

	// tune needs a real C64 environment
	CompatibilityR64

	// tune is a BASIC program and needs the BASIC ROM
	CompatibilityBASIC
)

func (c Compatibility) String() string {
	switch c {
	case CompatibilityPSID:
		return "PSID"
	case CompatibilityR64:
		return "R64"
	case CompatibilityBASIC:
		return "BASIC"
	}
	return "C64"
}

// Speed is the rate at which the play routine of a song is called.
type Speed int

// List of valid Speed values. The values are those used when calculating the
// fingerprint.
const (
	// vertical blank interrupt
	SpeedVBI Speed = 0

	// CIA 1 timer A
	SpeedCIA Speed = 60
)

func (s Speed) String() string {
	if s == SpeedCIA {
		return "CIA"
	}
	return "VBI"
}

// Tune is a loaded C64 music file.
type Tune struct {
	info      Info
	c64data   []byte
	songSpeed [MaxSongs]Speed

	status       bool
	statusString string

	extensions []string
}

// New returns an empty Tune. The status of an empty tune is false.
func New() *Tune {
	return &Tune{
		statusString: "No data to load",
		extensions:   defaultExtensions,
	}
}

// SetFileNameExtensions sets the list of extensions used to find the
// companion file of a two file tune. A nil list restores the default list.
func (t *Tune) SetFileNameExtensions(extensions []string) {
	if extensions == nil {
		t.extensions = defaultExtensions
		return
	}
	t.extensions = append([]string(nil), extensions...)
}

// Status returns false if the most recent operation failed.
func (t *Tune) Status() bool {
	return t.status
}

// StatusString describes the outcome of the most recent operation.
func (t *Tune) StatusString() string {
	return t.statusString
}

func (t *Tune) fail(err error) error {
	t.status = false
	t.statusString = err.Error()
	return err
}

func (t *Tune) succeed() {
	t.status = true
	t.statusString = noErrors
}

// C64Data returns the C64 memory image of the tune. The image is placed in
// memory at the load address. The returned slice must not be modified.
func (t *Tune) C64Data() []byte {
	return t.c64data
}

// SelectSong changes the current song. Song zero selects the start song.
// Other song numbers out of range are clamped to the first or last song and
// the status string reports the clamp. Returns the selected song or zero if
// no tune is loaded.
func (t *Tune) SelectSong(song int) int {
	if t.info.Songs == 0 {
		t.fail(curated.Errorf(RangeError, "no tune loaded"))
		return 0
	}

	t.succeed()

	switch {
	case song == 0:
		song = t.info.StartSong
	case song < 0:
		t.statusString = curated.Errorf(RangeError, fmt.Sprintf("song %d is out of range, using song 1", song)).Error()
		song = 1
	case song > t.info.Songs:
		t.statusString = curated.Errorf(RangeError, fmt.Sprintf("song %d is out of range, using song %d", song, t.info.Songs)).Error()
		song = t.info.Songs
	}

	t.info.CurrentSong = song
	t.info.SongSpeed = t.songSpeed[song-1]

	return song
}

// GetInfo returns the description of the tune for the current song.
func (t *Tune) GetInfo() Info {
	return t.info.clone()
}

// GetInfoOf returns the description of the tune for the specified song. The
// song number is resolved in the same way as SelectSong() but the current
// song is not changed.
func (t *Tune) GetInfoOf(song int) Info {
	inf := t.info.clone()
	if inf.Songs == 0 {
		return inf
	}

	switch {
	case song == 0:
		song = inf.StartSong
	case song < 0:
		song = 1
	case song > inf.Songs:
		song = inf.Songs
	}

	inf.CurrentSong = song
	inf.SongSpeed = t.songSpeed[song-1]
	return inf
}

// PlaceInMemory copies the C64 data to memory at the load address. The
// memory must be the full 64K address space.
func (t *Tune) PlaceInMemory(mem []byte) error {
	if len(mem) < 0x10000 {
		return curated.Errorf(RangeError, "memory is too small for tune")
	}
	if t.info.Songs == 0 {
		return curated.Errorf(FormatError, "no tune loaded")
	}
	copy(mem[t.info.LoadAddr:], t.c64data)
	return nil
}

// complete the loading of a tune. applies the defaults that are common to
// all formats and checks the addresses
func (t *Tune) accept(inf Info, data []byte, speed uint32) error {
	if len(data) == 0 {
		return curated.Errorf(FormatError, "no C64 data")
	}
	if int(inf.LoadAddr)+len(data) > 0x10000 {
		return curated.Errorf(FormatError, "size of C64 data exceeds C64 memory")
	}

	switch {
	case inf.Songs > MaxSongs:
		inf.Songs = MaxSongs
	case inf.Songs <= 0:
		inf.Songs = 1
	}
	if inf.StartSong <= 0 || inf.StartSong > inf.Songs {
		inf.StartSong = 1
	}

	if inf.InitAddr == 0 && inf.Compatibility != CompatibilityBASIC {
		inf.InitAddr = inf.LoadAddr
	}

	if err := checkAddresses(inf, len(data)); err != nil {
		return err
	}

	var speeds [MaxSongs]Speed
	for s := range inf.Songs {
		bit := min(s, 31)
		if inf.Compatibility == CompatibilityR64 || inf.Compatibility == CompatibilityBASIC || speed&(1<<bit) != 0 {
			speeds[s] = SpeedCIA
		}
	}

	if len(inf.SidChipBase) == 0 {
		inf.SidChipBase = []uint16{0xd400}
	}
	for len(inf.SidModels) < len(inf.SidChipBase) {
		inf.SidModels = append(inf.SidModels, ModelUnknown)
	}

	inf.C64DataLen = len(data)
	inf.CurrentSong = 0

	t.info = inf
	t.c64data = data
	t.songSpeed = speeds
	t.SelectSong(0)
	t.succeed()

	return nil
}

// addresses must lie in RAM that the tune can use
func checkAddresses(inf Info, dataLen int) error {
	end := int(inf.LoadAddr) + dataLen - 1

	switch inf.Compatibility {
	case CompatibilityR64:
		if inRom(inf.InitAddr) {
			return curated.Errorf(FormatError, fmt.Sprintf("init address $%04x is in ROM or I/O", inf.InitAddr))
		}
		if int(inf.InitAddr) < int(inf.LoadAddr) || int(inf.InitAddr) > end {
			return curated.Errorf(FormatError, fmt.Sprintf("init address $%04x is outside of C64 data", inf.InitAddr))
		}
		if inf.LoadAddr < 0x07e8 {
			return curated.Errorf(FormatError, "real C64 tune loads below $07e8")
		}
	case CompatibilityBASIC:
		if inf.LoadAddr < 0x0801 {
			return curated.Errorf(FormatError, "BASIC tune loads below $0801")
		}
	}

	return checkRelocation(inf, end)
}

func inRom(addr uint16) bool {
	return (addr >= 0xa000 && addr < 0xc000) || addr >= 0xd000
}

// the relocation range must not overlap the tune or areas of memory
// reserved for the system
func checkRelocation(inf Info, end int) error {
	start := int(inf.RelocStartPage)
	pages := int(inf.RelocPages)

	// no relocation information or no space for relocation
	if start == 0xff || (start == 0 && pages == 0) {
		return nil
	}
	if pages == 0 {
		return curated.Errorf(FormatError, "relocation range is empty")
	}

	last := start + pages - 1
	if last > 0xff {
		return curated.Errorf(FormatError, "relocation range exceeds C64 memory")
	}

	loadPage := int(inf.LoadAddr) >> 8
	endPage := end >> 8
	if start <= endPage && last >= loadPage {
		return curated.Errorf(FormatError, "relocation range overlaps C64 data")
	}

	if start < 0x04 || (start <= 0xbf && last >= 0xa0) || last >= 0xd0 {
		return curated.Errorf(FormatError, "relocation range overlaps system memory")
	}

	return nil
}
