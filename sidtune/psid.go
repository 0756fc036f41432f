package sidtune

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"yaspg/sidplayfp/curated"
)

// header common to all versions of the PSID and RSID formats
type psidHeader struct {
	MagicID     [4]byte
	Version     uint16
	DataOffset  uint16
	LoadAddress uint16
	InitAddress uint16
	PlayAddress uint16
	Songs       uint16
	StartSong   uint16
	Speed       uint32
	Name        [32]byte
	Author      [32]byte
	Released    [32]byte
}

// additional fields from version 2
type psidHeaderV2 struct {
	Flags            uint16
	StartPage        uint8
	PageLength       uint8
	SecondSIDAddress uint8
	ThirdSIDAddress  uint8
}

const (
	psidHeaderLen   = 0x76
	psidHeaderV2Len = 0x7c
)

// flag bits of the version 2 header
const (
	psidMUS      = 1 << 0
	psidSpecific = 1 << 1
	psidBasic    = 1 << 1
	psidClock    = 2
	psidModel    = 4
	psidModel2   = 6
	psidModel3   = 8
)

func isPSID(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	m := string(data[:4])
	return m == "PSID" || m == "RSID"
}

func (t *Tune) loadPSID(data []byte) error {
	if len(data) < psidHeaderLen {
		return curated.Errorf(FormatError, "truncated PSID header")
	}

	var hdr psidHeader
	r := bytes.NewReader(data)
	if err := binary.Read(r, binary.BigEndian, &hdr); err != nil {
		return curated.Errorf(FormatError, err)
	}

	rsid := string(hdr.MagicID[:]) == "RSID"

	switch {
	case rsid && (hdr.Version < 2 || hdr.Version > 4):
		return curated.Errorf(FormatError, fmt.Sprintf("unsupported RSID version %d", hdr.Version))
	case !rsid && (hdr.Version < 1 || hdr.Version > 4):
		return curated.Errorf(FormatError, fmt.Sprintf("unsupported PSID version %d", hdr.Version))
	}

	var v2 psidHeaderV2
	if hdr.Version >= 2 {
		if len(data) < psidHeaderV2Len {
			return curated.Errorf(FormatError, "truncated PSID header")
		}
		if err := binary.Read(r, binary.BigEndian, &v2); err != nil {
			return curated.Errorf(FormatError, err)
		}
	}

	if int(hdr.DataOffset) < psidHeaderLen || int(hdr.DataOffset) > len(data) {
		return curated.Errorf(FormatError, fmt.Sprintf("bad data offset $%04x", hdr.DataOffset))
	}

	inf := Info{
		LoadAddr:       hdr.LoadAddress,
		InitAddr:       hdr.InitAddress,
		PlayAddr:       hdr.PlayAddress,
		Songs:          int(hdr.Songs),
		StartSong:      int(hdr.StartSong),
		RelocStartPage: v2.StartPage,
		RelocPages:     v2.PageLength,
		Compatibility:  CompatibilityC64,
		InfoStrings: []string{
			latin1(hdr.Name[:]),
			latin1(hdr.Author[:]),
			latin1(hdr.Released[:]),
		},
		DataFileLen: len(data),
	}

	if rsid {
		inf.FormatString = "Real C64 one-file format (RSID)"
		inf.Compatibility = CompatibilityR64
		if v2.Flags&psidBasic != 0 {
			inf.Compatibility = CompatibilityBASIC
		}
		if hdr.LoadAddress != 0 || hdr.PlayAddress != 0 || hdr.Speed != 0 {
			return curated.Errorf(FormatError, "RSID header contains invalid data")
		}
		if inf.Compatibility == CompatibilityBASIC && hdr.InitAddress != 0 {
			return curated.Errorf(FormatError, "RSID BASIC tune has an init address")
		}
	} else {
		inf.FormatString = "PlaySID one-file format (PSID)"
		if v2.Flags&psidMUS != 0 {
			return curated.Errorf(FormatError, "MUS tunes are not supported")
		}
		if v2.Flags&psidSpecific != 0 {
			inf.Compatibility = CompatibilityPSID
		}
	}

	if hdr.Version >= 2 {
		inf.Clock = Clock((v2.Flags >> psidClock) & 0x03)
		inf.SidModels = []Model{Model((v2.Flags >> psidModel) & 0x03)}
	} else {
		inf.SidModels = []Model{ModelUnknown}
	}
	inf.SidChipBase = []uint16{0xd400}

	if hdr.Version >= 3 {
		if addr, ok := extraSidAddress(v2.SecondSIDAddress); ok {
			inf.SidChipBase = append(inf.SidChipBase, addr)
			inf.SidModels = append(inf.SidModels, extraSidModel(v2.Flags, psidModel2, inf.SidModels[0]))

			if hdr.Version >= 4 {
				if addr3, ok := extraSidAddress(v2.ThirdSIDAddress); ok && addr3 != addr {
					inf.SidChipBase = append(inf.SidChipBase, addr3)
					inf.SidModels = append(inf.SidModels, extraSidModel(v2.Flags, psidModel3, inf.SidModels[0]))
				}
			}
		}
	}

	c64data := data[hdr.DataOffset:]

	// load address is stored in the first two bytes of the C64 data
	if inf.LoadAddr == 0 {
		if len(c64data) < 2 {
			return curated.Errorf(FormatError, "no load address in C64 data")
		}
		inf.LoadAddr = binary.LittleEndian.Uint16(c64data)
		c64data = c64data[2:]
	} else if len(c64data) >= 2 && binary.LittleEndian.Uint16(c64data) == inf.LoadAddr+2 {
		inf.FixLoad = true
	}

	return t.accept(inf, bytes.Clone(c64data), hdr.Speed)
}

// address of an additional chip. the encoded value must be even and in the
// range $d420 to $d7e0 or $de00 to $dfe0
func extraSidAddress(b uint8) (uint16, bool) {
	if b&1 != 0 {
		return 0, false
	}
	if (b >= 0x42 && b <= 0x7e) || (b >= 0xe0 && b <= 0xfe) {
		return 0xd000 | uint16(b)<<4, true
	}
	return 0, false
}

// the model of an additional chip defaults to the model of the first chip
func extraSidModel(flags uint16, shift int, first Model) Model {
	m := Model((flags >> shift) & 0x03)
	if m == ModelUnknown {
		return first
	}
	return m
}

// strings in PSID headers are ISO-8859-1 and padded with zero bytes
func latin1(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	var s strings.Builder
	for _, c := range b {
		s.WriteRune(rune(c))
	}
	return s.String()
}
