package player

// entry points of the KERNAL used by the engine. the replacement KERNAL has
// working code at these addresses
const (
	kernalIRQ        = 0xff48
	kernalIRQDefault = 0xea31
	kernalIRQExit    = 0xea81
	kernalNMI        = 0xfe43
	kernalNMIDefault = 0xfe47
	kernalNMIExit    = 0xfebc
	kernalBRKDefault = 0xfe66
	kernalReset      = 0xfce2

	// RAM vectors
	vectorIRQ = 0x0314
	vectorBRK = 0x0316
	vectorNMI = 0x0318

	// KERNAL flag for the video standard. zero for NTSC
	palFlag = 0x02a6
)

// routines of the real KERNAL and BASIC ROMs used to prepare the machine for
// real C64 tunes
const (
	kernalIOInit   = 0xff84
	kernalRestor   = 0xff8a
	basicVectors   = 0xe453
	basicRAMInit   = 0xe3bf
	basicClr       = 0xa659
	basicRun       = 0xa7ae
	basicSongIndex = 0x030c
)

// kernalReplacement is visible in place of the KERNAL ROM when no ROM has
// been supplied. Interrupt entry and exit is handled in the same way as the
// real KERNAL. Every other address holds an RTS instruction so that calls to
// the KERNAL jump table return immediately.
var kernalReplacement [0x2000]byte

func init() {
	for i := range kernalReplacement {
		kernalReplacement[i] = 0x60
	}

	patch := func(addr uint16, code ...byte) {
		copy(kernalReplacement[addr-0xe000:], code)
	}

	// PHA; TXA; PHA; TYA; PHA; TSX; LDA $0104,X; AND #$10; BEQ +3;
	// JMP ($0316); JMP ($0314)
	patch(kernalIRQ,
		0x48, 0x8a, 0x48, 0x98, 0x48, 0xba, 0xbd, 0x04, 0x01, 0x29, 0x10,
		0xf0, 0x03, 0x6c, 0x16, 0x03, 0x6c, 0x14, 0x03)

	// LDA $DC0D; JMP $EA81
	patch(kernalIRQDefault, 0xad, 0x0d, 0xdc, 0x4c, 0x81, 0xea)

	// PLA; TAY; PLA; TAX; PLA; RTI
	patch(kernalIRQExit, 0x68, 0xa8, 0x68, 0xaa, 0x68, 0x40)

	// SEI; JMP ($0318)
	patch(kernalNMI, 0x78, 0x6c, 0x18, 0x03)

	// PHA; TXA; PHA; TYA; PHA; LDA $DD0D; JMP $FEBC
	patch(kernalNMIDefault, 0x48, 0x8a, 0x48, 0x98, 0x48, 0xad, 0x0d, 0xdd, 0x4c, 0xbc, 0xfe)

	// PLA; TAY; PLA; TAX; PLA; RTI
	patch(kernalNMIExit, 0x68, 0xa8, 0x68, 0xaa, 0x68, 0x40)

	// JMP $EA81
	patch(kernalBRKDefault, 0x4c, 0x81, 0xea)

	// JMP $FCE2
	patch(kernalReset, 0x4c, 0xe2, 0xfc)

	// hardware vectors
	patch(0xfffa, byte(kernalNMI&0xff), byte(kernalNMI>>8))
	patch(0xfffc, byte(kernalReset&0xff), byte(kernalReset>>8))
	patch(0xfffe, byte(kernalIRQ&0xff), byte(kernalIRQ>>8))
}
