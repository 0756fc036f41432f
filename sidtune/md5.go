package sidtune

import (
	"crypto/md5"
	"encoding/binary"
	"encoding/hex"
)

// Fingerprint returns the MD5 digest of the tune. The digest covers the C64
// data, the init and play addresses, the number of songs, the speed of every
// song and the clock.
//
// The digest is the one used by the HVSC song length database.
func (t *Tune) Fingerprint() [md5.Size]byte {
	h := md5.New()
	h.Write(t.c64data)

	var b [2]byte
	for _, v := range []uint16{t.info.InitAddr, t.info.PlayAddr, uint16(t.info.Songs)} {
		binary.LittleEndian.PutUint16(b[:], v)
		h.Write(b[:])
	}

	for s := range t.info.Songs {
		h.Write([]byte{byte(t.songSpeed[s])})
	}

	if t.info.Clock == ClockNTSC {
		h.Write([]byte{2})
	}

	var sum [md5.Size]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

// CreateMD5 returns the fingerprint of the tune as a string of MD5Length
// lower case hexadecimal characters. Returns the empty string if no tune is
// loaded.
func (t *Tune) CreateMD5() string {
	if t.info.Songs == 0 {
		return ""
	}
	sum := t.Fingerprint()
	return hex.EncodeToString(sum[:])
}
