package songlength

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"yaspg/sidplayfp/curated"
	"yaspg/sidplayfp/logger"
	"yaspg/sidplayfp/sidtune"
)

// Error patterns for the songlength package. The IoError and FormatError
// patterns are the same as those in the sidtune package.
const (
	IoError     = "io error: %v"
	FormatError = "format error: %v"
	LookupError = "lookup error: %v"
)

// Unknown is returned by the lookup functions when the length of a song is
// not in the database.
const Unknown = -1

const section = "[database]"

// Database is an opened song length database.
type Database struct {
	// lengths in milliseconds, indexed by lower case fingerprint
	lengths map[string][]int32

	crit sync.Mutex
	err  string
}

// New returns a Database that has not been opened.
func New() *Database {
	return &Database{}
}

// Open reads the database from file. An existing database is replaced only
// if the file is read successfully.
func (db *Database) Open(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return db.fail(curated.Errorf(IoError, err))
	}
	defer f.Close()

	err = db.Read(f)
	if err != nil {
		return err
	}

	logger.Logf(logger.Allow, "songlength", "%d tunes in %s", len(db.lengths), path)

	return nil
}

// Read is like Open() but reads the database from an io.Reader.
func (db *Database) Read(r io.Reader) error {
	lengths, err := parse(r)
	if err != nil {
		return db.fail(err)
	}

	db.lengths = lengths
	db.setError("")

	return nil
}

// Close releases the database. Lookups fail until the database is opened
// again.
func (db *Database) Close() {
	db.lengths = nil
}

// Error returns a description of the most recent structural error. Songs
// that are not in the database are not errors.
func (db *Database) Error() string {
	db.crit.Lock()
	defer db.crit.Unlock()
	return db.err
}

func (db *Database) setError(s string) {
	db.crit.Lock()
	defer db.crit.Unlock()
	db.err = s
}

func (db *Database) fail(err error) error {
	db.setError(err.Error())
	return err
}

// Length returns the length, in whole seconds, of the current song of the
// tune.
func (db *Database) Length(tune *sidtune.Tune) int32 {
	return seconds(db.LengthMs(tune))
}

// LengthMs returns the length, in milliseconds, of the current song of the
// tune.
func (db *Database) LengthMs(tune *sidtune.Tune) int32 {
	if tune == nil || tune.GetInfo().Songs == 0 {
		db.fail(curated.Errorf(LookupError, "no tune"))
		return Unknown
	}
	return db.LengthMD5Ms(tune.CreateMD5(), tune.GetInfo().CurrentSong)
}

// LengthMD5 returns the length, in whole seconds, of a song in the tune with
// the fingerprint. Song numbers start at one.
func (db *Database) LengthMD5(md5 string, song int) int32 {
	return seconds(db.LengthMD5Ms(md5, song))
}

// LengthMD5Ms returns the length, in milliseconds, of a song in the tune with
// the fingerprint. Song numbers start at one.
func (db *Database) LengthMD5Ms(md5 string, song int) int32 {
	if db.lengths == nil {
		db.fail(curated.Errorf(LookupError, "database is not open"))
		return Unknown
	}

	if !validMD5(md5) {
		db.fail(curated.Errorf(LookupError, fmt.Sprintf("%q is not a fingerprint", md5)))
		return Unknown
	}

	l, ok := db.lengths[strings.ToLower(md5)]
	if !ok || song < 1 || song > len(l) {
		return Unknown
	}

	return l[song-1]
}

func seconds(ms int32) int32 {
	if ms < 0 {
		return ms
	}
	return (ms + 500) / 1000
}

func validMD5(md5 string) bool {
	if len(md5) != sidtune.MD5Length {
		return false
	}
	_, err := hex.DecodeString(md5)
	return err == nil
}

func parse(r io.Reader) (map[string][]int32, error) {
	lengths := make(map[string][]int32)

	var inSection bool
	var n int

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1024*1024)

	for scanner.Scan() {
		n++

		line := scanner.Text()
		if i := strings.IndexByte(line, ';'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "[") {
			inSection = strings.EqualFold(line, section)
			continue
		}

		if !inSection {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, curated.Errorf(FormatError, fmt.Sprintf("line %d: missing '='", n))
		}

		key = strings.TrimSpace(key)
		if !validMD5(key) {
			return nil, curated.Errorf(FormatError, fmt.Sprintf("line %d: bad fingerprint", n))
		}

		var songs []int32
		for _, f := range strings.Fields(value) {
			ms, err := parseTime(f)
			if err != nil {
				return nil, curated.Errorf(FormatError, fmt.Sprintf("line %d: %v", n, err))
			}
			songs = append(songs, ms)
		}
		if len(songs) == 0 {
			return nil, curated.Errorf(FormatError, fmt.Sprintf("line %d: no song lengths", n))
		}

		lengths[strings.ToLower(key)] = songs
	}

	if err := scanner.Err(); err != nil {
		return nil, curated.Errorf(IoError, err)
	}

	if len(lengths) == 0 {
		return nil, curated.Errorf(FormatError, "no entries in [Database] section")
	}

	return lengths, nil
}

// parse a song length of the form m:ss or m:ss.fff with optional attributes
// in parentheses. the result is in milliseconds
func parseTime(s string) (int32, error) {
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = s[:i]
	}

	m, sec, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("bad song length %q", s)
	}

	sec, frac, _ := strings.Cut(sec, ".")

	mins, err := strconv.ParseUint(m, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("bad song length %q", s)
	}

	secs, err := strconv.ParseUint(sec, 10, 8)
	if err != nil || secs > 59 {
		return 0, fmt.Errorf("bad song length %q", s)
	}

	var ms uint64
	if frac != "" {
		if len(frac) > 3 {
			return 0, fmt.Errorf("bad song length %q", s)
		}
		ms, err = strconv.ParseUint(frac, 10, 16)
		if err != nil {
			return 0, fmt.Errorf("bad song length %q", s)
		}
		for range 3 - len(frac) {
			ms *= 10
		}
	}

	return int32((mins*60+secs)*1000 + ms), nil
}
