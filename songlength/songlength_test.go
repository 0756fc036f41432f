package songlength_test

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"yaspg/sidplayfp/curated"
	"yaspg/sidplayfp/sidtune"
	"yaspg/sidplayfp/songlength"
	"yaspg/sidplayfp/test"
)

// a minimal PSID with a single song
func tuneImage() []byte {
	b := make([]byte, 0x7c)
	copy(b, "PSID")
	binary.BigEndian.PutUint16(b[0x04:], 2)
	binary.BigEndian.PutUint16(b[0x06:], 0x7c)
	binary.BigEndian.PutUint16(b[0x08:], 0x1000)
	binary.BigEndian.PutUint16(b[0x0a:], 0x1000)
	binary.BigEndian.PutUint16(b[0x0c:], 0x1003)
	binary.BigEndian.PutUint16(b[0x0e:], 1)
	binary.BigEndian.PutUint16(b[0x10:], 1)
	return append(b, 0xa9, 0x00, 0x60, 0x60)
}

const database = `; song length database
[Database]
; /MUSICIANS/N/Nobody/Tune.sid
%s=2:05
; /MUSICIANS/N/Nobody/Other.sid
0123456789ABCDEF0123456789abcdef=0:31.5(G) 1:02.250 0:00.400(M)(B)
`

func open(t *testing.T, md5 string) *songlength.Database {
	t.Helper()

	path := filepath.Join(t.TempDir(), "Songlengths.md5")
	data := strings.Replace(database, "%s", md5, 1)
	test.DemandSuccess(t, os.WriteFile(path, []byte(data), 0o644))

	db := songlength.New()
	test.DemandSuccess(t, db.Open(path))
	test.ExpectEquality(t, db.Error(), "")
	return db
}

func TestLengthOfTune(t *testing.T) {
	tn, err := sidtune.ReadBuffer(tuneImage())
	test.DemandSuccess(t, err)

	db := open(t, tn.CreateMD5())
	test.ExpectEquality(t, db.Length(tn), int32(125))
	test.ExpectEquality(t, db.LengthMs(tn), int32(125000))

	// a tune that differs by a single byte is a different tune
	img := tuneImage()
	img[len(img)-1] ^= 0xff
	other, err := sidtune.ReadBuffer(img)
	test.DemandSuccess(t, err)
	test.ExpectInequality(t, other.CreateMD5(), tn.CreateMD5())
	test.ExpectEquality(t, db.Length(other), int32(songlength.Unknown))
	test.ExpectEquality(t, db.Error(), "")

	// corrupt fingerprint string
	md5 := []byte(tn.CreateMD5())
	if md5[0] == '0' {
		md5[0] = '1'
	} else {
		md5[0] = '0'
	}
	test.ExpectEquality(t, db.LengthMD5(string(md5), 1), int32(songlength.Unknown))
	test.ExpectEquality(t, db.Error(), "")
}

func TestLengthOfMD5(t *testing.T) {
	db := open(t, "ffffffffffffffffffffffffffffffff")

	test.ExpectEquality(t, db.LengthMD5Ms("0123456789abcdef0123456789abcdef", 1), int32(31500))
	test.ExpectEquality(t, db.LengthMD5("0123456789abcdef0123456789abcdef", 1), int32(32))
	test.ExpectEquality(t, db.LengthMD5Ms("0123456789ABCDEF0123456789ABCDEF", 2), int32(62250))
	test.ExpectEquality(t, db.LengthMD5("0123456789abcdef0123456789abcdef", 2), int32(62))
	test.ExpectEquality(t, db.LengthMD5Ms("0123456789abcdef0123456789abcdef", 3), int32(400))
	test.ExpectEquality(t, db.LengthMD5("0123456789abcdef0123456789abcdef", 3), int32(0))

	// songs that are not in the entry
	test.ExpectEquality(t, db.LengthMD5("0123456789abcdef0123456789abcdef", 4), int32(songlength.Unknown))
	test.ExpectEquality(t, db.LengthMD5("0123456789abcdef0123456789abcdef", 0), int32(songlength.Unknown))
	test.ExpectEquality(t, db.Error(), "")

	// not a fingerprint
	test.ExpectEquality(t, db.LengthMD5("not a fingerprint", 1), int32(songlength.Unknown))
	test.ExpectInequality(t, db.Error(), "")
}

func TestNotOpen(t *testing.T) {
	db := songlength.New()
	test.ExpectEquality(t, db.LengthMD5("0123456789abcdef0123456789abcdef", 1), int32(songlength.Unknown))
	test.ExpectInequality(t, db.Error(), "")

	db = open(t, "ffffffffffffffffffffffffffffffff")
	db.Close()
	test.ExpectEquality(t, db.LengthMD5("ffffffffffffffffffffffffffffffff", 1), int32(songlength.Unknown))
	test.ExpectInequality(t, db.Error(), "")
}

func TestOpenErrors(t *testing.T) {
	db := songlength.New()

	err := db.Open(filepath.Join(t.TempDir(), "missing.md5"))
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, curated.Is(err, songlength.IoError), true)
	test.ExpectEquality(t, db.Error(), err.Error())

	for _, s := range []string{
		"",
		"[Database]\n",
		"[Database]\n0123=1:00\n",
		"[Database]\n0123456789abcdef0123456789abcdef\n",
		"[Database]\n0123456789abcdef0123456789abcdef=1:75\n",
		"[Database]\n0123456789abcdef0123456789abcdef=1.00\n",
		"[Database]\n0123456789abcdef0123456789abcdef=\n",
	} {
		err := db.Read(strings.NewReader(s))
		test.ExpectFailure(t, err, s)
		test.ExpectEquality(t, curated.Is(err, songlength.FormatError), true, s)
	}

	// entries outside of the database section are ignored
	err = db.Read(strings.NewReader("[Other]\nffffffffffffffffffffffffffffffff=1:00\n[Database]\n0123456789abcdef0123456789abcdef=1:00\n"))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, db.LengthMD5("ffffffffffffffffffffffffffffffff", 1), int32(songlength.Unknown))
	test.ExpectEquality(t, db.LengthMD5("0123456789abcdef0123456789abcdef", 1), int32(60))
}

func TestConcurrentLookup(t *testing.T) {
	db := open(t, "ffffffffffffffffffffffffffffffff")

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			for range 1000 {
				if db.LengthMD5("ffffffffffffffffffffffffffffffff", 1) != 125 {
					t.Error("unexpected song length")
					return
				}
			}
		})
	}
	wg.Wait()
}
