package player

// the go6502 package treats the undocumented NMOS opcodes as single byte
// no-ops. tunes use many of them so the machine executes them itself.

type addrMode int

const (
	implied addrMode = iota
	immediate
	zeroPage
	zeroPageX
	zeroPageY
	absolute
	absoluteX
	absoluteY
	indirectX
	indirectY
)

// number of bytes in an instruction using the addressing mode
func (am addrMode) length() uint16 {
	switch am {
	case implied:
		return 1
	case absolute, absoluteX, absoluteY:
		return 3
	}
	return 2
}

type operator int

const (
	opNone operator = iota
	opNOP
	opLAX
	opSAX
	opDCP
	opISC
	opSLO
	opRLA
	opSRE
	opRRA
	opANC
	opALR
	opARR
	opSBX
	opSBC
	opANE
	opLXA
	opSHA
	opSHX
	opSHY
	opTAS
	opLAS
)

type undocumentedInstruction struct {
	operator operator
	mode     addrMode
	cycles   int

	// an extra cycle is taken if indexing crosses a page
	pageCycle bool
}

var undocumentedSet = [256]undocumentedInstruction{
	0x1a: {opNOP, implied, 2, false},
	0x3a: {opNOP, implied, 2, false},
	0x5a: {opNOP, implied, 2, false},
	0x7a: {opNOP, implied, 2, false},
	0xda: {opNOP, implied, 2, false},
	0xfa: {opNOP, implied, 2, false},
	0x80: {opNOP, immediate, 2, false},
	0x82: {opNOP, immediate, 2, false},
	0x89: {opNOP, immediate, 2, false},
	0xc2: {opNOP, immediate, 2, false},
	0xe2: {opNOP, immediate, 2, false},
	0x04: {opNOP, zeroPage, 3, false},
	0x44: {opNOP, zeroPage, 3, false},
	0x64: {opNOP, zeroPage, 3, false},
	0x14: {opNOP, zeroPageX, 4, false},
	0x34: {opNOP, zeroPageX, 4, false},
	0x54: {opNOP, zeroPageX, 4, false},
	0x74: {opNOP, zeroPageX, 4, false},
	0xd4: {opNOP, zeroPageX, 4, false},
	0xf4: {opNOP, zeroPageX, 4, false},
	0x0c: {opNOP, absolute, 4, false},
	0x1c: {opNOP, absoluteX, 4, true},
	0x3c: {opNOP, absoluteX, 4, true},
	0x5c: {opNOP, absoluteX, 4, true},
	0x7c: {opNOP, absoluteX, 4, true},
	0xdc: {opNOP, absoluteX, 4, true},
	0xfc: {opNOP, absoluteX, 4, true},

	0xa7: {opLAX, zeroPage, 3, false},
	0xb7: {opLAX, zeroPageY, 4, false},
	0xaf: {opLAX, absolute, 4, false},
	0xbf: {opLAX, absoluteY, 4, true},
	0xa3: {opLAX, indirectX, 6, false},
	0xb3: {opLAX, indirectY, 5, true},
	0xab: {opLXA, immediate, 2, false},

	0x87: {opSAX, zeroPage, 3, false},
	0x97: {opSAX, zeroPageY, 4, false},
	0x8f: {opSAX, absolute, 4, false},
	0x83: {opSAX, indirectX, 6, false},

	0xc7: {opDCP, zeroPage, 5, false},
	0xd7: {opDCP, zeroPageX, 6, false},
	0xcf: {opDCP, absolute, 6, false},
	0xdf: {opDCP, absoluteX, 7, false},
	0xdb: {opDCP, absoluteY, 7, false},
	0xc3: {opDCP, indirectX, 8, false},
	0xd3: {opDCP, indirectY, 8, false},

	0xe7: {opISC, zeroPage, 5, false},
	0xf7: {opISC, zeroPageX, 6, false},
	0xef: {opISC, absolute, 6, false},
	0xff: {opISC, absoluteX, 7, false},
	0xfb: {opISC, absoluteY, 7, false},
	0xe3: {opISC, indirectX, 8, false},
	0xf3: {opISC, indirectY, 8, false},

	0x07: {opSLO, zeroPage, 5, false},
	0x17: {opSLO, zeroPageX, 6, false},
	0x0f: {opSLO, absolute, 6, false},
	0x1f: {opSLO, absoluteX, 7, false},
	0x1b: {opSLO, absoluteY, 7, false},
	0x03: {opSLO, indirectX, 8, false},
	0x13: {opSLO, indirectY, 8, false},

	0x27: {opRLA, zeroPage, 5, false},
	0x37: {opRLA, zeroPageX, 6, false},
	0x2f: {opRLA, absolute, 6, false},
	0x3f: {opRLA, absoluteX, 7, false},
	0x3b: {opRLA, absoluteY, 7, false},
	0x23: {opRLA, indirectX, 8, false},
	0x33: {opRLA, indirectY, 8, false},

	0x47: {opSRE, zeroPage, 5, false},
	0x57: {opSRE, zeroPageX, 6, false},
	0x4f: {opSRE, absolute, 6, false},
	0x5f: {opSRE, absoluteX, 7, false},
	0x5b: {opSRE, absoluteY, 7, false},
	0x43: {opSRE, indirectX, 8, false},
	0x53: {opSRE, indirectY, 8, false},

	0x67: {opRRA, zeroPage, 5, false},
	0x77: {opRRA, zeroPageX, 6, false},
	0x6f: {opRRA, absolute, 6, false},
	0x7f: {opRRA, absoluteX, 7, false},
	0x7b: {opRRA, absoluteY, 7, false},
	0x63: {opRRA, indirectX, 8, false},
	0x73: {opRRA, indirectY, 8, false},

	0x0b: {opANC, immediate, 2, false},
	0x2b: {opANC, immediate, 2, false},
	0x4b: {opALR, immediate, 2, false},
	0x6b: {opARR, immediate, 2, false},
	0xcb: {opSBX, immediate, 2, false},
	0xeb: {opSBC, immediate, 2, false},
	0x8b: {opANE, immediate, 2, false},

	0x9f: {opSHA, absoluteY, 5, false},
	0x93: {opSHA, indirectY, 6, false},
	0x9e: {opSHX, absoluteY, 5, false},
	0x9c: {opSHY, absoluteX, 5, false},
	0x9b: {opTAS, absoluteY, 5, false},
	0xbb: {opLAS, absoluteY, 4, true},
}

// value mixed into the accumulator by the unstable ANE and LXA instructions
const magicConstant = 0xee

// effective address of an operand. base is the address before indexing
func (m *machine) operandAddress(mode addrMode, operand uint16) (addr uint16, base uint16, crossed bool) {
	reg := &m.cpu.Reg

	indexed := false
	index := func(a uint16, i byte) {
		indexed = true
		base = a
		addr = a + uint16(i)
		crossed = addr&0xff00 != a&0xff00
	}

	zp := m.mem.LoadByte(operand)

	switch mode {
	case zeroPage:
		addr = uint16(zp)
	case zeroPageX:
		addr = uint16(zp + reg.X)
	case zeroPageY:
		addr = uint16(zp + reg.Y)
	case absolute:
		addr = m.mem.LoadAddress(operand)
	case absoluteX:
		index(m.mem.LoadAddress(operand), reg.X)
	case absoluteY:
		index(m.mem.LoadAddress(operand), reg.Y)
	case indirectX:
		p := zp + reg.X
		addr = uint16(m.mem.LoadByte(uint16(p))) | uint16(m.mem.LoadByte(uint16(p+1)))<<8
	case indirectY:
		a := uint16(m.mem.LoadByte(uint16(zp))) | uint16(m.mem.LoadByte(uint16(zp+1)))<<8
		index(a, reg.Y)
	}

	if !indexed {
		base = addr
	}

	return addr, base, crossed
}

func (m *machine) setNZ(v byte) {
	m.cpu.Reg.Zero = v == 0
	m.cpu.Reg.Sign = v&0x80 == 0x80
}

// add with carry, including the decimal mode of the NMOS 6502
func (m *machine) adc(add byte) {
	reg := &m.cpu.Reg
	acc := uint32(reg.A)
	v := uint32(add)
	var carry uint32
	if reg.Carry {
		carry = 1
	}

	var r uint32
	if reg.Decimal {
		lo := (acc & 0x0f) + (v & 0x0f) + carry
		var carrylo uint32
		if lo >= 0x0a {
			carrylo = 0x10
			lo -= 0x0a
		}
		hi := (acc & 0xf0) + (v & 0xf0) + carrylo
		reg.Carry = hi >= 0xa0
		if reg.Carry {
			hi -= 0xa0
		}
		r = hi | lo
		reg.Overflow = (acc^r)&0x80 != 0 && (acc^v)&0x80 == 0
	} else {
		r = acc + v + carry
		reg.Carry = r >= 0x100
		reg.Overflow = (acc^v)&0x80 == 0 && (acc^r)&0x80 != 0
	}

	reg.A = byte(r)
	m.setNZ(reg.A)
}

// subtract with borrow, including the decimal mode of the NMOS 6502
func (m *machine) sbc(sub byte) {
	reg := &m.cpu.Reg
	acc := uint32(reg.A)
	v := uint32(sub)
	var carry uint32
	if reg.Carry {
		carry = 1
	}

	var r uint32
	if reg.Decimal {
		lo := 0x0f + (acc & 0x0f) - (v & 0x0f) + carry
		var carrylo uint32
		if lo < 0x10 {
			lo -= 0x06
		} else {
			lo -= 0x10
			carrylo = 0x10
		}
		hi := 0xf0 + (acc & 0xf0) - (v & 0xf0) + carrylo
		reg.Carry = hi >= 0x100
		if reg.Carry {
			hi -= 0x100
		} else {
			hi -= 0x60
		}
		r = (hi | lo) & 0xff
		reg.Overflow = (acc^r)&0x80 != 0 && (acc^v)&0x80 != 0
	} else {
		r = 0xff + acc - v + carry
		reg.Carry = r >= 0x100
		reg.Overflow = (acc^v)&0x80 != 0 && (acc^r)&0x80 != 0
	}

	reg.A = byte(r)
	m.setNZ(reg.A)
}

// executeUndocumented runs the undocumented instruction at the program
// counter. Returns the number of cycles taken and false if the opcode is not
// one the machine can execute.
func (m *machine) executeUndocumented(op byte) (int, bool) {
	inst := undocumentedSet[op]
	if inst.operator == opNone {
		return 0, false
	}

	reg := &m.cpu.Reg
	operand := reg.PC + 1
	reg.PC += inst.mode.length()

	var addr, base uint16
	var crossed bool
	if inst.mode != implied && inst.mode != immediate {
		addr, base, crossed = m.operandAddress(inst.mode, operand)
	}

	cycles := inst.cycles
	if crossed && inst.pageCycle {
		cycles++
	}

	load := func() byte {
		if inst.mode == immediate {
			return m.mem.LoadByte(operand)
		}
		return m.mem.LoadByte(addr)
	}

	// stores by SHA, SHX, SHY and TAS are masked by the high byte of the base
	// address plus one. the high byte of the address is corrupted if indexing
	// crosses a page
	unstableStore := func(v byte) {
		v &= byte(base>>8) + 1
		if crossed {
			addr = uint16(v)<<8 | addr&0x00ff
		}
		m.mem.StoreByte(addr, v)
	}

	switch inst.operator {
	case opNOP:
		if inst.mode != implied && inst.mode != immediate {
			_ = load()
		}

	case opLAX:
		reg.A = load()
		reg.X = reg.A
		m.setNZ(reg.A)

	case opLXA:
		reg.A = (reg.A | magicConstant) & load()
		reg.X = reg.A
		m.setNZ(reg.A)

	case opSAX:
		m.mem.StoreByte(addr, reg.A&reg.X)

	case opDCP:
		v := load() - 1
		m.mem.StoreByte(addr, v)
		reg.Carry = reg.A >= v
		m.setNZ(reg.A - v)

	case opISC:
		v := load() + 1
		m.mem.StoreByte(addr, v)
		m.sbc(v)

	case opSLO:
		v := load()
		reg.Carry = v&0x80 == 0x80
		v <<= 1
		m.mem.StoreByte(addr, v)
		reg.A |= v
		m.setNZ(reg.A)

	case opRLA:
		v := load()
		c := v&0x80 == 0x80
		v <<= 1
		if reg.Carry {
			v |= 0x01
		}
		reg.Carry = c
		m.mem.StoreByte(addr, v)
		reg.A &= v
		m.setNZ(reg.A)

	case opSRE:
		v := load()
		reg.Carry = v&0x01 == 0x01
		v >>= 1
		m.mem.StoreByte(addr, v)
		reg.A ^= v
		m.setNZ(reg.A)

	case opRRA:
		v := load()
		c := v&0x01 == 0x01
		v >>= 1
		if reg.Carry {
			v |= 0x80
		}
		reg.Carry = c
		m.mem.StoreByte(addr, v)
		m.adc(v)

	case opANC:
		reg.A &= load()
		m.setNZ(reg.A)
		reg.Carry = reg.A&0x80 == 0x80

	case opALR:
		reg.A &= load()
		reg.Carry = reg.A&0x01 == 0x01
		reg.A >>= 1
		m.setNZ(reg.A)

	case opARR:
		reg.A &= load()
		reg.A >>= 1
		if reg.Carry {
			reg.A |= 0x80
		}
		m.setNZ(reg.A)
		reg.Carry = reg.A&0x40 == 0x40
		reg.Overflow = (reg.A>>6^reg.A>>5)&0x01 == 0x01

	case opSBX:
		v := load()
		ax := reg.A & reg.X
		reg.Carry = ax >= v
		reg.X = ax - v
		m.setNZ(reg.X)

	case opSBC:
		m.sbc(load())

	case opANE:
		reg.A = (reg.A | magicConstant) & reg.X & load()
		m.setNZ(reg.A)

	case opSHA:
		unstableStore(reg.A & reg.X)

	case opSHX:
		unstableStore(reg.X)

	case opSHY:
		unstableStore(reg.Y)

	case opTAS:
		reg.SP = reg.A & reg.X
		unstableStore(reg.SP)

	case opLAS:
		v := load() & reg.SP
		reg.A = v
		reg.X = v
		reg.SP = v
		m.setNZ(v)
	}

	m.cpu.Cycles += uint64(cycles)

	return cycles, true
}
