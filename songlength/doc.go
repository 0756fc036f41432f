// Package songlength reads the HVSC song length database and looks up the
// length of a song by the fingerprint of its tune.
//
// The database is a text file with a [Database] section. Each entry in the
// section is a tune fingerprint followed by the length of every song in the
// tune:
//
//	[Database]
//	; /MUSICIANS/N/Nobody/Tune.sid
//	0123456789abcdef0123456789abcdef=2:05 0:31.500(G)
//
// Lookups after Open() has returned can be made from more than one
// goroutine. Open() and Close() must not run at the same time as a lookup.
package songlength
