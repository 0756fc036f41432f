package sidtune

import "slices"

// Info describes a tune for a single song.
type Info struct {
	LoadAddr uint16
	InitAddr uint16
	PlayAddr uint16

	Songs       int
	StartSong   int
	CurrentSong int
	SongSpeed   Speed

	// the pages that a relocatable tune may use
	RelocStartPage uint8
	RelocPages     uint8

	// base address and model of each chip used by the tune. the first entry
	// is always $d400
	SidChipBase []uint16
	SidModels   []Model

	Compatibility Compatibility
	Clock         Clock

	// name, author and release strings
	InfoStrings    []string
	CommentStrings []string

	DataFileLen int
	C64DataLen  int

	FormatString string

	// the C64 data of the file began with a copy of the load address which
	// was removed
	FixLoad bool

	Path         string
	DataFileName string
	InfoFileName string
}

// SidChips returns the number of chips the tune uses.
func (inf Info) SidChips() int {
	return len(inf.SidChipBase)
}

// SidChipBaseOf returns the base address of chip i or zero if the tune does
// not use that chip.
func (inf Info) SidChipBaseOf(i int) uint16 {
	if i < 0 || i >= len(inf.SidChipBase) {
		return 0
	}
	return inf.SidChipBase[i]
}

// SidModelOf returns the model of chip i.
func (inf Info) SidModelOf(i int) Model {
	if i < 0 || i >= len(inf.SidModels) {
		return ModelUnknown
	}
	return inf.SidModels[i]
}

func (inf Info) clone() Info {
	inf.SidChipBase = slices.Clone(inf.SidChipBase)
	inf.SidModels = slices.Clone(inf.SidModels)
	inf.InfoStrings = slices.Clone(inf.InfoStrings)
	inf.CommentStrings = slices.Clone(inf.CommentStrings)
	return inf
}
