package sidtune_test

import (
	"crypto/md5"
	"encoding/binary"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"yaspg/sidplayfp/curated"
	"yaspg/sidplayfp/sidtune"
	"yaspg/sidplayfp/test"
)

type psidOpts struct {
	magic     string
	version   uint16
	load      uint16
	init      uint16
	play      uint16
	songs     uint16
	start     uint16
	speed     uint32
	flags     uint16
	startPage uint8
	pages     uint8
	sid2      uint8
	sid3      uint8
	name      string
	author    string
	released  string
	data      []byte
}

func psidImage(o psidOpts) []byte {
	if o.magic == "" {
		o.magic = "PSID"
	}
	if o.version == 0 {
		o.version = 2
	}

	hdrLen := 0x7c
	if o.version == 1 {
		hdrLen = 0x76
	}

	b := make([]byte, hdrLen)
	copy(b, o.magic)
	binary.BigEndian.PutUint16(b[0x04:], o.version)
	binary.BigEndian.PutUint16(b[0x06:], uint16(hdrLen))
	binary.BigEndian.PutUint16(b[0x08:], o.load)
	binary.BigEndian.PutUint16(b[0x0a:], o.init)
	binary.BigEndian.PutUint16(b[0x0c:], o.play)
	binary.BigEndian.PutUint16(b[0x0e:], o.songs)
	binary.BigEndian.PutUint16(b[0x10:], o.start)
	binary.BigEndian.PutUint32(b[0x12:], o.speed)
	copy(b[0x16:0x36], o.name)
	copy(b[0x36:0x56], o.author)
	copy(b[0x56:0x76], o.released)

	if o.version > 1 {
		binary.BigEndian.PutUint16(b[0x76:], o.flags)
		b[0x78] = o.startPage
		b[0x79] = o.pages
		b[0x7a] = o.sid2
		b[0x7b] = o.sid3
	}

	return append(b, o.data...)
}

func program() []byte {
	// lda #$00 : rts : rts
	d := []byte{0xa9, 0x00, 0x60, 0x60}
	for len(d) < 64 {
		d = append(d, 0xea)
	}
	return d
}

func TestPSID(t *testing.T) {
	img := psidImage(psidOpts{
		load:     0x1000,
		init:     0x1000,
		play:     0x1003,
		songs:    3,
		start:    2,
		speed:    0x02,
		flags:    0x01<<2 | 0x02<<4,
		name:     "Test Tune",
		author:   "Nobody",
		released: "2024 Nobody",
		data:     program(),
	})

	tn, err := sidtune.ReadBuffer(img)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, tn.Status())
	test.ExpectEquality(t, tn.StatusString(), "No errors")

	inf := tn.GetInfo()
	test.ExpectEquality(t, inf.LoadAddr, uint16(0x1000))
	test.ExpectEquality(t, inf.InitAddr, uint16(0x1000))
	test.ExpectEquality(t, inf.PlayAddr, uint16(0x1003))
	test.ExpectEquality(t, inf.Songs, 3)
	test.ExpectEquality(t, inf.StartSong, 2)
	test.ExpectEquality(t, inf.CurrentSong, 2)
	test.ExpectEquality(t, inf.SongSpeed, sidtune.SpeedCIA)
	test.ExpectEquality(t, inf.Clock, sidtune.ClockPAL)
	test.ExpectEquality(t, inf.SidChips(), 1)
	test.ExpectEquality(t, inf.SidChipBaseOf(0), uint16(0xd400))
	test.ExpectEquality(t, inf.SidModelOf(0), sidtune.Model8580)
	test.ExpectEquality(t, inf.Compatibility, sidtune.CompatibilityC64)
	test.ExpectEquality(t, inf.C64DataLen, len(program()))
	test.ExpectEquality(t, inf.DataFileLen, len(img))
	test.ExpectEquality(t, inf.FormatString, "PlaySID one-file format (PSID)")
	test.DemandEquality(t, len(inf.InfoStrings), 3)
	test.ExpectEquality(t, inf.InfoStrings[0], "Test Tune")
	test.ExpectEquality(t, inf.InfoStrings[1], "Nobody")
	test.ExpectEquality(t, inf.InfoStrings[2], "2024 Nobody")

	test.ExpectEquality(t, tn.GetInfoOf(1).SongSpeed, sidtune.SpeedVBI)
	test.ExpectEquality(t, tn.GetInfoOf(1).CurrentSong, 1)
	test.ExpectEquality(t, tn.GetInfo().CurrentSong, 2)
}

func TestLoadAddressInData(t *testing.T) {
	data := append([]byte{0x00, 0x20}, program()...)
	tn, err := sidtune.ReadBuffer(psidImage(psidOpts{songs: 1, data: data}))
	test.DemandSuccess(t, err)

	inf := tn.GetInfo()
	test.ExpectEquality(t, inf.LoadAddr, uint16(0x2000))
	test.ExpectEquality(t, inf.InitAddr, uint16(0x2000))
	test.ExpectEquality(t, inf.C64DataLen, len(program()))
	test.ExpectEquality(t, len(tn.C64Data()), len(program()))
}

func TestRSID(t *testing.T) {
	data := append([]byte{0x00, 0x09}, program()...)
	tn, err := sidtune.ReadBuffer(psidImage(psidOpts{magic: "RSID", songs: 2, data: data}))
	test.DemandSuccess(t, err)

	inf := tn.GetInfo()
	test.ExpectEquality(t, inf.Compatibility, sidtune.CompatibilityR64)
	test.ExpectEquality(t, inf.InitAddr, uint16(0x0900))
	test.ExpectEquality(t, inf.SongSpeed, sidtune.SpeedCIA)
	test.ExpectEquality(t, tn.GetInfoOf(2).SongSpeed, sidtune.SpeedCIA)

	// real C64 tunes cannot load into screen memory
	data = append([]byte{0x00, 0x04}, program()...)
	_, err = sidtune.ReadBuffer(psidImage(psidOpts{magic: "RSID", songs: 1, data: data}))
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, curated.Is(err, sidtune.FormatError), true)

	// RSID headers must not specify a play address
	_, err = sidtune.ReadBuffer(psidImage(psidOpts{magic: "RSID", play: 0x1003, songs: 1, data: append([]byte{0x00, 0x10}, program()...)}))
	test.ExpectFailure(t, err)
}

func TestExtraSids(t *testing.T) {
	img := psidImage(psidOpts{
		version: 4,
		load:    0x1000,
		songs:   1,
		flags:   0x01<<4 | 0x02<<6,
		sid2:    0x42,
		sid3:    0xe0,
		data:    program(),
	})

	tn, err := sidtune.ReadBuffer(img)
	test.DemandSuccess(t, err)

	inf := tn.GetInfo()
	test.DemandEquality(t, inf.SidChips(), 3)
	test.ExpectEquality(t, inf.SidChipBaseOf(1), uint16(0xd420))
	test.ExpectEquality(t, inf.SidChipBaseOf(2), uint16(0xde00))
	test.ExpectEquality(t, inf.SidChipBaseOf(3), uint16(0))
	test.ExpectEquality(t, inf.SidModelOf(0), sidtune.Model6581)
	test.ExpectEquality(t, inf.SidModelOf(1), sidtune.Model8580)

	// third chip defaults to the model of the first chip
	test.ExpectEquality(t, inf.SidModelOf(2), sidtune.Model6581)

	// odd addresses are ignored
	img = psidImage(psidOpts{version: 3, load: 0x1000, songs: 1, sid2: 0x43, data: program()})
	tn, err = sidtune.ReadBuffer(img)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, tn.GetInfo().SidChips(), 1)

	// version 2 does not have a second chip
	img = psidImage(psidOpts{version: 2, load: 0x1000, songs: 1, sid2: 0x42, data: program()})
	tn, err = sidtune.ReadBuffer(img)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, tn.GetInfo().SidChips(), 1)
}

func TestBadData(t *testing.T) {
	_, err := sidtune.ReadBuffer([]byte("PSID"))
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, curated.Is(err, sidtune.FormatError), true)

	_, err = sidtune.ReadBuffer(psidImage(psidOpts{version: 5, load: 0x1000, songs: 1, data: program()}))
	test.ExpectFailure(t, err)

	_, err = sidtune.ReadBuffer(psidImage(psidOpts{load: 0xffe0, songs: 1, data: program()}))
	test.ExpectFailure(t, err)

	_, err = sidtune.ReadBuffer([]byte("this is not a tune"))
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, curated.Is(err, sidtune.FormatError), true)

	// relocation range overlapping the C64 data
	_, err = sidtune.ReadBuffer(psidImage(psidOpts{load: 0x1000, songs: 1, startPage: 0x10, pages: 0x02, data: program()}))
	test.ExpectFailure(t, err)

	// relocation range in free memory
	tn, err := sidtune.ReadBuffer(psidImage(psidOpts{load: 0x1000, songs: 1, startPage: 0x40, pages: 0x20, data: program()}))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, tn.GetInfo().RelocStartPage, uint8(0x40))
	test.ExpectEquality(t, tn.GetInfo().RelocPages, uint8(0x20))

	// empty tune has a failed status
	tn = sidtune.New()
	test.ExpectFailure(t, tn.Status())
	test.ExpectEquality(t, tn.SelectSong(1), 0)
	test.ExpectEquality(t, tn.CreateMD5(), "")
}

func TestSongDefaults(t *testing.T) {
	tn, err := sidtune.ReadBuffer(psidImage(psidOpts{load: 0x1000, songs: 0, start: 9, data: program()}))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, tn.GetInfo().Songs, 1)
	test.ExpectEquality(t, tn.GetInfo().StartSong, 1)

	tn, err = sidtune.ReadBuffer(psidImage(psidOpts{load: 0x1000, songs: 300, data: program()}))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, tn.GetInfo().Songs, sidtune.MaxSongs)
}

func TestSelectSong(t *testing.T) {
	tn, err := sidtune.ReadBuffer(psidImage(psidOpts{load: 0x1000, songs: 3, start: 2, data: program()}))
	test.DemandSuccess(t, err)

	test.ExpectEquality(t, tn.SelectSong(1), 1)
	test.ExpectEquality(t, tn.GetInfo().CurrentSong, 1)
	test.ExpectEquality(t, tn.StatusString(), "No errors")

	test.ExpectEquality(t, tn.SelectSong(0), 2)

	test.ExpectEquality(t, tn.SelectSong(7), 3)
	test.ExpectSuccess(t, tn.Status())
	test.ExpectInequality(t, tn.StatusString(), "No errors")

	test.ExpectEquality(t, tn.SelectSong(-1), 1)
	test.ExpectEquality(t, tn.GetInfo().CurrentSong, 1)
	test.ExpectSuccess(t, tn.Status())
	test.ExpectInequality(t, tn.StatusString(), "No errors")
}

func TestSpeedBeyond32(t *testing.T) {
	tn, err := sidtune.ReadBuffer(psidImage(psidOpts{load: 0x1000, songs: 40, speed: 0x80000000, data: program()}))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, tn.GetInfoOf(31).SongSpeed, sidtune.SpeedVBI)
	test.ExpectEquality(t, tn.GetInfoOf(32).SongSpeed, sidtune.SpeedCIA)
	test.ExpectEquality(t, tn.GetInfoOf(40).SongSpeed, sidtune.SpeedCIA)
}

func TestInfoIsCopy(t *testing.T) {
	tn, err := sidtune.ReadBuffer(psidImage(psidOpts{load: 0x1000, songs: 1, name: "abc", data: program()}))
	test.DemandSuccess(t, err)

	inf := tn.GetInfo()
	inf.InfoStrings[0] = "xyz"
	inf.SidChipBase[0] = 0
	test.ExpectEquality(t, tn.GetInfo().InfoStrings[0], "abc")
	test.ExpectEquality(t, tn.GetInfo().SidChipBaseOf(0), uint16(0xd400))
}

func TestFingerprint(t *testing.T) {
	tn, err := sidtune.ReadBuffer(psidImage(psidOpts{
		load:  0x1000,
		init:  0x1000,
		play:  0x1003,
		songs: 2,
		speed: 0x01,
		flags: 0x02 << 2,
		data:  program(),
	}))
	test.DemandSuccess(t, err)

	h := md5.New()
	h.Write(program())
	h.Write([]byte{0x00, 0x10, 0x03, 0x10, 0x02, 0x00})
	h.Write([]byte{60, 0})
	h.Write([]byte{2})
	expected := hex.EncodeToString(h.Sum(nil))

	test.ExpectEquality(t, tn.CreateMD5(), expected)
	test.ExpectEquality(t, len(tn.CreateMD5()), sidtune.MD5Length)
}

const infoFile = `SIDPLAY INFOFILE
ADDRESS=0000,1000,1003
NAME=Split Tune
AUTHOR=Nobody
RELEASED=2024 Nobody
SONGS=3,2
SPEED=00000002
CLOCK=PAL
SIDMODEL=6581
COMPATIBILITY=C64
`

func TestSplitPair(t *testing.T) {
	dir := t.TempDir()

	data := append([]byte{0x00, 0x10}, program()...)
	test.DemandSuccess(t, os.WriteFile(filepath.Join(dir, "split.sid"), []byte(infoFile), 0o644))
	test.DemandSuccess(t, os.WriteFile(filepath.Join(dir, "split.c64"), data, 0o644))

	single := psidImage(psidOpts{
		init:     0x1000,
		play:     0x1003,
		songs:    3,
		start:    2,
		speed:    0x02,
		flags:    0x01<<2 | 0x01<<4,
		name:     "Split Tune",
		author:   "Nobody",
		released: "2024 Nobody",
		data:     data,
	})
	test.DemandSuccess(t, os.WriteFile(filepath.Join(dir, "single.sid"), single, 0o644))

	pair, err := sidtune.LoadFile(filepath.Join(dir, "split.sid"), nil, false)
	test.DemandSuccess(t, err)

	inf := pair.GetInfo()
	test.ExpectEquality(t, inf.LoadAddr, uint16(0x1000))
	test.ExpectEquality(t, inf.PlayAddr, uint16(0x1003))
	test.ExpectEquality(t, inf.Songs, 3)
	test.ExpectEquality(t, inf.CurrentSong, 2)
	test.ExpectEquality(t, inf.SongSpeed, sidtune.SpeedCIA)
	test.ExpectEquality(t, inf.SidModelOf(0), sidtune.Model6581)
	test.ExpectEquality(t, inf.InfoFileName, "split.sid")
	test.ExpectEquality(t, inf.DataFileName, "split.c64")
	test.DemandEquality(t, len(inf.InfoStrings), 3)
	test.ExpectEquality(t, inf.InfoStrings[0], "Split Tune")

	one, err := sidtune.LoadFile(filepath.Join(dir, "single.sid"), nil, false)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, one.GetInfo().DataFileName, "single.sid")
	test.ExpectEquality(t, one.GetInfo().InfoFileName, "")

	test.ExpectEquality(t, pair.CreateMD5(), one.CreateMD5())

	// loading the data file finds the info file
	other, err := sidtune.LoadFile(filepath.ToSlash(filepath.Join(dir, "split.c64")), nil, true)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, other.CreateMD5(), one.CreateMD5())
	test.ExpectEquality(t, other.GetInfo().InfoFileName, "split.sid")

	// data file without an info file
	test.DemandSuccess(t, os.WriteFile(filepath.Join(dir, "orphan.c64"), data, 0o644))
	_, err = sidtune.LoadFile(filepath.Join(dir, "orphan.c64"), nil, false)
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, curated.Is(err, sidtune.FormatError), true)

	// restricted extension list
	_, err = sidtune.LoadFile(filepath.Join(dir, "split.sid"), []string{".dat"}, false)
	test.ExpectFailure(t, err)
}

func TestPRG(t *testing.T) {
	dir := t.TempDir()

	data := append([]byte{0x01, 0x08}, program()...)
	test.DemandSuccess(t, os.WriteFile(filepath.Join(dir, "tune.prg"), data, 0o644))

	tn, err := sidtune.LoadFile(filepath.Join(dir, "tune.prg"), nil, false)
	test.DemandSuccess(t, err)

	inf := tn.GetInfo()
	test.ExpectEquality(t, inf.LoadAddr, uint16(0x0801))
	test.ExpectEquality(t, inf.Compatibility, sidtune.CompatibilityBASIC)
	test.ExpectEquality(t, inf.Songs, 1)
	test.ExpectEquality(t, inf.FormatString, "Tape image file (PRG)")
}

func TestP00(t *testing.T) {
	hdr := make([]byte, 0x1a)
	copy(hdr, "C64File\x00")
	copy(hdr[8:], "\xd4\xd5\xce\xc5")
	data := append(hdr, 0x01, 0x08)
	data = append(data, program()...)

	tn, err := sidtune.ReadBuffer(data)
	test.DemandSuccess(t, err)

	inf := tn.GetInfo()
	test.ExpectEquality(t, inf.LoadAddr, uint16(0x0801))
	test.DemandEquality(t, len(inf.InfoStrings), 1)
	test.ExpectEquality(t, inf.InfoStrings[0], "TUNE")

	dir := t.TempDir()
	test.DemandSuccess(t, os.WriteFile(filepath.Join(dir, "tune.s00"), data, 0o644))
	_, err = sidtune.LoadFile(filepath.Join(dir, "tune.s00"), nil, false)
	test.ExpectFailure(t, err)
}

func TestIoError(t *testing.T) {
	tn := sidtune.New()
	err := tn.Load(filepath.Join(t.TempDir(), "missing.sid"), false)
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, curated.Is(err, sidtune.IoError), true)
	test.ExpectFailure(t, tn.Status())
	test.ExpectEquality(t, tn.StatusString(), err.Error())
}

func TestPlaceInMemory(t *testing.T) {
	tn, err := sidtune.ReadBuffer(psidImage(psidOpts{load: 0x1000, songs: 1, data: program()}))
	test.DemandSuccess(t, err)

	mem := make([]byte, 0x10000)
	test.DemandSuccess(t, tn.PlaceInMemory(mem))
	test.ExpectEquality(t, mem[0x1000], byte(0xa9))
	test.ExpectEquality(t, mem[0x1002], byte(0x60))

	test.ExpectFailure(t, tn.PlaceInMemory(make([]byte, 100)))
}
