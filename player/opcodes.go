package player

// opcodes of the NMOS 6502 that are part of the documented instruction set
const documentedOpcodes = "" +
	"\x00\x01\x05\x06\x08\x09\x0a\x0d\x0e" +
	"\x10\x11\x15\x16\x18\x19\x1d\x1e" +
	"\x20\x21\x24\x25\x26\x28\x29\x2a\x2c\x2d\x2e" +
	"\x30\x31\x35\x36\x38\x39\x3d\x3e" +
	"\x40\x41\x45\x46\x48\x49\x4a\x4c\x4d\x4e" +
	"\x50\x51\x55\x56\x58\x59\x5d\x5e" +
	"\x60\x61\x65\x66\x68\x69\x6a\x6c\x6d\x6e" +
	"\x70\x71\x75\x76\x78\x79\x7d\x7e" +
	"\x81\x84\x85\x86\x88\x8a\x8c\x8d\x8e" +
	"\x90\x91\x94\x95\x96\x98\x99\x9a\x9d" +
	"\xa0\xa1\xa2\xa4\xa5\xa6\xa8\xa9\xaa\xac\xad\xae" +
	"\xb0\xb1\xb4\xb5\xb6\xb8\xb9\xba\xbc\xbd\xbe" +
	"\xc0\xc1\xc4\xc5\xc6\xc8\xc9\xca\xcc\xcd\xce" +
	"\xd0\xd1\xd5\xd6\xd8\xd9\xdd\xde" +
	"\xe0\xe1\xe4\xe5\xe6\xe8\xe9\xea\xec\xed\xee" +
	"\xf0\xf1\xf5\xf6\xf8\xf9\xfd\xfe"

// opcodes that halt the NMOS 6502
const jamOpcodes = "\x02\x12\x22\x32\x42\x52\x62\x72\x92\xb2\xd2\xf2"

type opcodeClass int

const (
	documented opcodeClass = iota
	undocumented
	jam
)

var opcodes [256]opcodeClass

func init() {
	for i := range opcodes {
		opcodes[i] = undocumented
	}
	for _, op := range []byte(documentedOpcodes) {
		opcodes[op] = documented
	}
	for _, op := range []byte(jamOpcodes) {
		opcodes[op] = jam
	}
}
