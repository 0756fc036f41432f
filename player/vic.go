package player

// VIC-II register offsets
const (
	vicControl1 = 0x11
	vicRaster   = 0x12
	vicIRQ      = 0x19
	vicIRQMask  = 0x1a
	vicNumReg   = 0x40
)

// vic is the part of the VIC-II that a tune can see without looking at the
// screen. the raster counter and the raster interrupt
type vic struct {
	regs [vicNumReg]byte

	lines         int
	cyclesPerLine int

	raster    int
	lineCycle int
	compare   int

	irq  byte
	mask byte

	// frames started since the count was last cleared
	frames int
}

func (v *vic) reset(t timing) {
	*v = vic{
		lines:         t.lines,
		cyclesPerLine: t.cyclesPerLine,
	}
}

func (v *vic) clock(cycles int) {
	for cycles > 0 {
		step := min(cycles, v.cyclesPerLine-v.lineCycle)
		v.lineCycle += step
		cycles -= step

		if v.lineCycle < v.cyclesPerLine {
			break
		}

		v.lineCycle = 0
		v.raster++
		if v.raster >= v.lines {
			v.raster = 0
			v.frames++
		}
		if v.raster == v.compare {
			v.irq |= 0x01
		}
	}
}

// interrupt line
func (v *vic) interrupt() bool {
	return v.irq&v.mask&0x0f != 0
}

func (v *vic) read(reg uint16) byte {
	reg &= 0x3f

	switch {
	case reg == vicControl1:
		return v.regs[reg]&0x7f | byte((v.raster&0x100)>>1)
	case reg == vicRaster:
		return byte(v.raster)
	case reg == vicIRQ:
		r := v.irq | 0x70
		if v.interrupt() {
			r |= 0x80
		}
		return r
	case reg == vicIRQMask:
		return v.mask | 0xf0
	case reg == 0x1e || reg == 0x1f:
		// collision registers are cleared by reading
		return 0
	case reg >= 0x20 && reg <= 0x2e:
		return v.regs[reg] | 0xf0
	case reg > 0x2e:
		return 0xff
	}

	return v.regs[reg]
}

func (v *vic) write(reg uint16, val byte) {
	reg &= 0x3f

	switch reg {
	case vicControl1:
		v.compare = v.compare&0xff | int(val&0x80)<<1
	case vicRaster:
		v.compare = v.compare&0x100 | int(val)
		return
	case vicIRQ:
		v.irq &^= val & 0x0f
		return
	case vicIRQMask:
		v.mask = val & 0x0f
		return
	}

	v.regs[reg] = val
}
