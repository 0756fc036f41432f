package player

// ioHandler is called when the CPU accesses the I/O area at $d000 to $dfff.
type ioHandler interface {
	readIO(addr uint16) byte
	writeIO(addr uint16, v byte)
}

// memory is the 64K address space of the CPU with the banking of the C64.
// The processor port at $00 and $01 decides what is visible in the BASIC,
// I/O and KERNAL areas.
//
// Writes always go to RAM unless the I/O area is visible.
type memory struct {
	ram [0x10000]byte

	// processor port data direction and data registers
	ddr  byte
	port byte

	// ROMs are borrowed from the caller. a nil basic or chargen ROM leaves
	// RAM visible. the kernal is never nil, a replacement is used if no ROM
	// has been supplied
	kernal  []byte
	basic   []byte
	chargen []byte

	io ioHandler
}

func newMemory(io ioHandler) *memory {
	return &memory{
		io:     io,
		kernal: kernalReplacement[:],
	}
}

// RAM is filled with a pattern of $00 and $ff blocks, as found in many C64s
// at power on
func (m *memory) reset() {
	for i := range m.ram {
		if i&0x40 == 0 {
			m.ram[i] = 0x00
		} else {
			m.ram[i] = 0xff
		}
	}
	m.ddr = 0x2f
	m.port = 0x37
	m.ram[0] = m.ddr
	m.ram[1] = m.port
}

// the banking lines. bits not set as outputs are pulled high
func (m *memory) banking() (loram, hiram, charen bool) {
	b := m.port | ^m.ddr
	return b&0x01 != 0, b&0x02 != 0, b&0x04 != 0
}

func (m *memory) ioVisible() bool {
	lo, hi, ch := m.banking()
	return (lo || hi) && ch
}

func (m *memory) kernalVisible() bool {
	_, hi, _ := m.banking()
	return hi
}

// LoadByte loads a single byte from the address and returns it.
func (m *memory) LoadByte(addr uint16) byte {
	switch {
	case addr == 0x0000:
		return m.ddr
	case addr == 0x0001:
		return (m.port & m.ddr) | (0x17 &^ m.ddr)
	case addr < 0xa000:
		return m.ram[addr]
	case addr < 0xc000:
		lo, hi, _ := m.banking()
		if lo && hi && m.basic != nil {
			return m.basic[addr-0xa000]
		}
	case addr < 0xd000:
		return m.ram[addr]
	case addr < 0xe000:
		lo, hi, ch := m.banking()
		if lo || hi {
			if ch {
				return m.io.readIO(addr)
			}
			if m.chargen != nil {
				return m.chargen[addr-0xd000]
			}
		}
	default:
		if m.kernalVisible() {
			return m.kernal[addr-0xe000]
		}
	}
	return m.ram[addr]
}

// LoadBytes loads multiple bytes from the address and returns them.
func (m *memory) LoadBytes(addr uint16, b []byte) {
	for i := range b {
		b[i] = m.LoadByte(addr + uint16(i))
	}
}

// LoadAddress loads a 16-bit address value from the requested address and
// returns it.
//
// When the address spans 2 pages (i.e., address ends in 0xff), the high
// byte of the loaded address comes from a page-wrapped address. This mimics
// the behavior of the NMOS 6502.
func (m *memory) LoadAddress(addr uint16) uint16 {
	if (addr & 0xff) == 0xff {
		return uint16(m.LoadByte(addr)) | uint16(m.LoadByte(addr-0xff))<<8
	}
	return uint16(m.LoadByte(addr)) | uint16(m.LoadByte(addr+1))<<8
}

// StoreByte stores a byte at the requested address.
func (m *memory) StoreByte(addr uint16, v byte) {
	switch {
	case addr == 0x0000:
		m.ddr = v
	case addr == 0x0001:
		m.port = v
	case addr >= 0xd000 && addr < 0xe000 && m.ioVisible():
		m.io.writeIO(addr, v)
		return
	}
	m.ram[addr] = v
}

// StoreBytes stores multiple bytes to the requested address.
func (m *memory) StoreBytes(addr uint16, b []byte) {
	for i, v := range b {
		m.StoreByte(addr+uint16(i), v)
	}
}

// StoreAddress stores a 16-bit address value to the requested address.
func (m *memory) StoreAddress(addr uint16, v uint16) {
	m.StoreByte(addr, byte(v&0xff))
	if (addr & 0xff) == 0xff {
		m.StoreByte(addr-0xff, byte(v>>8))
	} else {
		m.StoreByte(addr+1, byte(v>>8))
	}
}

// peek reads memory without side effects. the I/O area reads as RAM
func (m *memory) peek(addr uint16) byte {
	if addr >= 0xd000 && addr < 0xe000 && m.ioVisible() {
		return m.ram[addr]
	}
	return m.LoadByte(addr)
}

// ramAddress reads a little endian word from RAM, ignoring banking
func (m *memory) ramAddress(addr uint16) uint16 {
	return uint16(m.ram[addr]) | uint16(m.ram[addr+1])<<8
}

func (m *memory) setRAMAddress(addr uint16, v uint16) {
	m.ram[addr] = byte(v)
	m.ram[addr+1] = byte(v >> 8)
}

// iomap returns the value of the processor port with which a routine at
// the address is called. the address is always visible as RAM
func iomap(addr uint16) byte {
	switch {
	case addr < 0xa000:
		return 0x37
	case addr < 0xd000:
		return 0x36
	case addr >= 0xe000:
		return 0x35
	}
	return 0x34
}
