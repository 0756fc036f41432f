package sidtune

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"yaspg/sidplayfp/curated"
)

const infoFileMagic = "SIDPLAY INFOFILE"

func isInfoFile(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte(infoFileMagic))
}

// the contents of a SIDPLAY info file
type infoFile struct {
	load, init, play uint16
	songs, start     int
	speed            uint32
	strings          [3]string
	relocStart       uint8
	relocPages       uint8
	clock            Clock
	model            Model
	compat           Compatibility
	mus              bool
}

func parseInfoFile(data []byte) (infoFile, error) {
	f := infoFile{
		songs: 1,
		start: 1,
	}

	var hasAddress bool

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)

		var err error

		switch strings.ToUpper(strings.TrimSpace(key)) {
		case "ADDRESS":
			var a []uint64
			a, err = parseHexList(value, 3, 16)
			if err == nil {
				f.load, f.init, f.play = uint16(a[0]), uint16(a[1]), uint16(a[2])
				hasAddress = true
			}
		case "NAME":
			f.strings[0] = value
		case "AUTHOR":
			f.strings[1] = value
		case "COPYRIGHT", "RELEASED":
			f.strings[2] = value
		case "SONGS":
			total, start, _ := strings.Cut(value, ",")
			f.songs, err = strconv.Atoi(strings.TrimSpace(total))
			if err == nil && start != "" {
				f.start, err = strconv.Atoi(strings.TrimSpace(start))
			}
		case "SPEED":
			var a []uint64
			a, err = parseHexList(value, 1, 32)
			if err == nil {
				f.speed = uint32(a[0])
			}
		case "SIDSONG":
			f.mus = strings.EqualFold(value, "YES")
		case "RELOC":
			var a []uint64
			a, err = parseHexList(value, 2, 8)
			if err == nil {
				f.relocStart, f.relocPages = uint8(a[0]), uint8(a[1])
			}
		case "CLOCK":
			switch strings.ToUpper(value) {
			case "PAL":
				f.clock = ClockPAL
			case "NTSC":
				f.clock = ClockNTSC
			case "ANY":
				f.clock = ClockAny
			}
		case "SIDMODEL":
			switch strings.ToUpper(value) {
			case "6581":
				f.model = Model6581
			case "8580":
				f.model = Model8580
			case "ANY":
				f.model = ModelAny
			}
		case "COMPATIBILITY":
			switch strings.ToUpper(value) {
			case "PSID":
				f.compat = CompatibilityPSID
			case "R64":
				f.compat = CompatibilityR64
			case "BASIC":
				f.compat = CompatibilityBASIC
			}
		}

		if err != nil {
			return f, curated.Errorf(FormatError, fmt.Sprintf("info file: %s: %v", key, err))
		}
	}

	if err := scanner.Err(); err != nil {
		return f, curated.Errorf(IoError, err)
	}

	if !hasAddress {
		return f, curated.Errorf(FormatError, "info file: no ADDRESS field")
	}

	return f, nil
}

// comma separated list of hexadecimal numbers. numbers may be prefixed with
// $ or 0x
func parseHexList(s string, n int, bitSize int) ([]uint64, error) {
	p := strings.Split(s, ",")
	if len(p) < n {
		return nil, fmt.Errorf("expected %d values", n)
	}

	v := make([]uint64, n)
	for i := range n {
		h := strings.TrimSpace(p[i])
		h = strings.TrimPrefix(h, "$")
		h = strings.TrimPrefix(strings.TrimPrefix(h, "0x"), "0X")
		var err error
		v[i], err = strconv.ParseUint(h, 16, bitSize)
		if err != nil {
			return nil, err
		}
	}

	return v, nil
}

func (t *Tune) loadInfoFile(info []byte, data []byte) error {
	f, err := parseInfoFile(info)
	if err != nil {
		return err
	}

	if f.mus {
		return curated.Errorf(FormatError, "MUS tunes are not supported")
	}

	inf := Info{
		LoadAddr:       f.load,
		InitAddr:       f.init,
		PlayAddr:       f.play,
		Songs:          f.songs,
		StartSong:      f.start,
		RelocStartPage: f.relocStart,
		RelocPages:     f.relocPages,
		Compatibility:  f.compat,
		Clock:          f.clock,
		SidChipBase:    []uint16{0xd400},
		SidModels:      []Model{f.model},
		InfoStrings:    []string{f.strings[0], f.strings[1], f.strings[2]},
		DataFileLen:    len(data),
		FormatString:   "Raw plus SIDPLAY ASCII text file (SID)",
	}

	// the data file begins with the load address unless the info file
	// names a different one
	c64data := data
	if len(data) >= 2 {
		addr := binary.LittleEndian.Uint16(data)
		if inf.LoadAddr == 0 || inf.LoadAddr == addr {
			inf.LoadAddr = addr
			c64data = data[2:]
		}
	}
	if inf.LoadAddr == 0 {
		return curated.Errorf(FormatError, "no load address in C64 data")
	}

	return t.accept(inf, bytes.Clone(c64data), f.speed)
}
