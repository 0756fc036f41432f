package player

import (
	"fmt"
	"io"

	"github.com/beevik/go6502/cpu"

	"yaspg/sidplayfp/builder"
)

// the number of cycles the chips are allowed to fall behind the CPU
const flushCycles = 64

// machine is the emulated C64. The chips are clocked lazily, they are only
// brought up to date with the CPU when a register is accessed or when the
// number of pending cycles reaches flushCycles.
type machine struct {
	mem  *memory
	cpu  *cpu.CPU
	cia1 cia
	cia2 cia
	vic  vic

	colour [0x400]byte

	timing timing

	// chips and their base addresses. the first chip is always at $d400
	// and is mirrored throughout $d400 to $d7ff
	sids  []builder.Device
	bases []uint16

	// cycles not yet sent to the chips
	pending int

	// cycles since reset
	cycles uint64

	// state of the NMI line. NMIs are triggered by the line going high
	nmi bool

	trace io.Writer
}

func newMachine() *machine {
	m := &machine{}
	m.mem = newMemory(m)
	m.cpu = cpu.NewCPU(cpu.NMOS, m.mem)
	m.reset(PAL.timing())
	return m
}

func (m *machine) reset(t timing) {
	m.timing = t
	m.mem.reset()
	m.cia1.reset()
	m.cia2.reset()
	m.vic.reset(t)
	clear(m.colour[:])
	m.pending = 0
	m.cycles = 0
	m.nmi = false

	m.cpu.Reg.A = 0
	m.cpu.Reg.X = 0
	m.cpu.Reg.Y = 0
	m.cpu.Reg.SP = 0xff
	m.cpu.Reg.InterruptDisable = true
	m.cpu.SetPC(0)

	for _, d := range m.sids {
		d.Reset(0)
	}
}

// advance the machine, but not the CPU, by the number of cycles
func (m *machine) advance(cycles int) {
	m.cia1.clock(cycles)
	m.cia2.clock(cycles)
	m.vic.clock(cycles)
	m.pending += cycles
	m.cycles += uint64(cycles)
}

// bring the chips up to date with the CPU
func (m *machine) flush() {
	if m.pending == 0 {
		return
	}
	for _, d := range m.sids {
		d.Clock(m.pending)
	}
	m.pending = 0
}

// the number of samples available from every chip
func (m *machine) available() int {
	if len(m.sids) == 0 {
		return 0
	}
	n := len(m.sids[0].Samples())
	for _, d := range m.sids[1:] {
		n = min(n, len(d.Samples()))
	}
	return n
}

// discard all output of the chips
func (m *machine) discard() {
	m.flush()
	for _, d := range m.sids {
		d.Consume(len(d.Samples()))
	}
}

// irq line of the CPU
func (m *machine) irq() bool {
	return m.cia1.interrupt() || m.vic.interrupt()
}

// returns true if the NMI line has gone high since the last call
func (m *machine) nmiEdge() bool {
	line := m.cia2.interrupt()
	edge := line && !m.nmi
	m.nmi = line
	return edge
}

// push a byte onto the stack
func (m *machine) push(v byte) {
	m.mem.StoreByte(0x0100|uint16(m.cpu.Reg.SP), v)
	m.cpu.Reg.SP--
}

// interrupt the CPU. the current PC and status are pushed onto the stack
// and the CPU continues at the address in the vector
func (m *machine) interrupt(vector uint16) {
	pc := m.cpu.Reg.PC
	m.push(byte(pc >> 8))
	m.push(byte(pc))
	m.push(m.cpu.Reg.SavePS(false) | 0x20)
	m.cpu.Reg.InterruptDisable = true
	m.cpu.SetPC(m.mem.LoadAddress(vector))
	m.advance(7)
}

// the chip and register for an address in the I/O area
func (m *machine) sidAt(addr uint16) (builder.Device, int, uint8) {
	for i, b := range m.bases {
		if addr&^0x1f == b {
			return m.sids[i], i, uint8(addr & 0x1f)
		}
	}
	if addr >= 0xd400 && addr < 0xd800 && len(m.sids) > 0 {
		return m.sids[0], 0, uint8(addr & 0x1f)
	}
	return nil, -1, 0
}

func (m *machine) readIO(addr uint16) byte {
	switch {
	case addr < 0xd400:
		return m.vic.read(addr)
	case addr < 0xd800:
		if d, _, reg := m.sidAt(addr); d != nil {
			m.flush()
			return d.Read(reg)
		}
		return 0x00
	case addr < 0xdc00:
		return m.colour[addr&0x3ff] | 0xf0
	case addr < 0xdd00:
		return m.cia1.read(addr)
	case addr < 0xde00:
		return m.cia2.read(addr)
	}

	if d, _, reg := m.sidAt(addr); d != nil {
		m.flush()
		return d.Read(reg)
	}
	return 0x00
}

func (m *machine) writeIO(addr uint16, v byte) {
	switch {
	case addr < 0xd400:
		m.vic.write(addr, v)
	case addr < 0xd800:
		m.writeSID(addr, v)
	case addr < 0xdc00:
		m.colour[addr&0x3ff] = v & 0x0f
	case addr < 0xdd00:
		m.cia1.write(addr, v)
	case addr < 0xde00:
		m.cia2.write(addr, v)
	default:
		m.writeSID(addr, v)
	}
}

func (m *machine) writeSID(addr uint16, v byte) {
	d, n, reg := m.sidAt(addr)
	if d == nil {
		return
	}

	m.flush()
	d.Write(reg, v)

	if m.trace != nil {
		fmt.Fprintf(m.trace, "%10d  sid %d  $%02x = $%02x\n", m.cycles, n, reg, v)
	}
}
