// Package sidtune loads C64 music files and describes them.
//
// The following formats are recognised:
//
//	PSID and RSID, versions 1 to 4 (single file)
//	PC64 P00 containers (single file)
//	PRG files, recognised by extension
//	SIDPLAY info file with a separate C64 data file (two files)
//
// A Tune is created with LoadFile() or ReadBuffer(). The Load() and Read()
// functions reuse an existing Tune. After every operation the Status() and
// StatusString() functions describe the outcome. Errors returned by the
// package are curated errors and can be tested against the FormatError,
// IoError and RangeError patterns.
//
// The Info type is a copy of the tune description for one song. Changing
// the tune after the Info has been taken does not change the Info.
//
// The fingerprint of a tune is an MD5 digest of the C64 data and the song
// parameters. It is compatible with the keys of the HVSC song length
// database and is the same for a tune in the PSID format and the same tune
// as a pair of info and data files.
package sidtune
