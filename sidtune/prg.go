package sidtune

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"strings"

	"yaspg/sidplayfp/curated"
)

// PC64 container header
const (
	p00Magic     = "C64File\x00"
	p00NameLen   = 17
	p00HeaderLen = 0x1a
)

func isP00(data []byte) bool {
	return len(data) >= p00HeaderLen && string(data[:len(p00Magic)]) == p00Magic
}

// the extension of a P00 file is a letter describing the file type followed
// by a two digit number
func p00Type(path string) byte {
	ext := strings.ToUpper(filepath.Ext(path))
	if len(ext) != 4 {
		return 0
	}
	if ext[2] < '0' || ext[2] > '9' || ext[3] < '0' || ext[3] > '9' {
		return 0
	}
	return ext[1]
}

func isPRG(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".prg")
}

func (t *Tune) loadP00(path string, data []byte) error {
	if typ := p00Type(path); typ != 0 && typ != 'P' {
		return curated.Errorf(FormatError, "PC64 container does not hold a program file")
	}

	name := petscii(data[len(p00Magic) : len(p00Magic)+p00NameLen])

	err := t.loadProgram(data[p00HeaderLen:], len(data))
	if err != nil {
		return err
	}

	t.info.FormatString = "Tape image file (P00)"
	t.info.InfoStrings = []string{name}

	return nil
}

func (t *Tune) loadPRG(data []byte) error {
	err := t.loadProgram(data, len(data))
	if err != nil {
		return err
	}
	t.info.FormatString = "Tape image file (PRG)"
	return nil
}

// a program is loaded and started in the same way as a BASIC program
func (t *Tune) loadProgram(data []byte, fileLen int) error {
	if len(data) < 2 {
		return curated.Errorf(FormatError, "program is too short")
	}

	inf := Info{
		LoadAddr:      binary.LittleEndian.Uint16(data),
		Songs:         1,
		StartSong:     1,
		Compatibility: CompatibilityBASIC,
		DataFileLen:   fileLen,
	}

	return t.accept(inf, bytes.Clone(data[2:]), 0)
}

// P00 names are in upper case PETSCII and padded with zero bytes
func petscii(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	var s strings.Builder
	for _, c := range b {
		switch {
		case c >= 0xc1 && c <= 0xda:
			s.WriteByte(c - 0x80)
		case c >= 0x20 && c < 0x7f:
			s.WriteByte(c)
		default:
			s.WriteByte('?')
		}
	}
	return s.String()
}
