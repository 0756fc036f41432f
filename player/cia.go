package player

// CIA register offsets
const (
	ciaPRA    = 0x00
	ciaPRB    = 0x01
	ciaDDRA   = 0x02
	ciaDDRB   = 0x03
	ciaTALo   = 0x04
	ciaTAHi   = 0x05
	ciaTBLo   = 0x06
	ciaTBHi   = 0x07
	ciaICR    = 0x0d
	ciaCRA    = 0x0e
	ciaCRB    = 0x0f
	ciaNumReg = 0x10
)

// interrupt sources in the ICR
const (
	ciaIntTimerA = 0x01
	ciaIntTimerB = 0x02
)

type ciaTimer struct {
	counter uint16
	latch   uint16
	running bool
	oneShot bool
}

// advance the timer by the number of ticks. returns the number of underflows
func (t *ciaTimer) count(ticks int) int {
	if !t.running {
		return 0
	}

	var underflows int
	for ticks > 0 {
		if ticks <= int(t.counter) {
			t.counter -= uint16(ticks)
			break
		}

		ticks -= int(t.counter) + 1
		t.counter = t.latch
		underflows++

		if t.oneShot {
			t.running = false
			break
		}
	}

	return underflows
}

func (t *ciaTimer) control(v byte) {
	t.running = v&0x01 != 0
	t.oneShot = v&0x08 != 0
	if v&0x10 != 0 {
		t.counter = t.latch
	}
}

// cia is a 6526 complex interface adaptor. only the timers and the
// interrupt control register are emulated. the time of day clock and the
// serial register store the values written to them
type cia struct {
	regs [ciaNumReg]byte

	timerA ciaTimer
	timerB ciaTimer

	// timer B counts underflows of timer A rather than cycles
	cascade bool

	icr  byte
	mask byte

	// underflows of timer A since the count was last cleared
	underflowsA int
}

func (c *cia) reset() {
	*c = cia{
		timerA: ciaTimer{counter: 0xffff, latch: 0xffff},
		timerB: ciaTimer{counter: 0xffff, latch: 0xffff},
	}
}

func (c *cia) clock(cycles int) {
	ua := c.timerA.count(cycles)
	if ua > 0 {
		c.icr |= ciaIntTimerA
		c.underflowsA += ua
	}

	ticks := cycles
	if c.cascade {
		ticks = ua
	}
	if c.timerB.count(ticks) > 0 {
		c.icr |= ciaIntTimerB
	}
}

// interrupt line
func (c *cia) interrupt() bool {
	return c.icr&c.mask != 0
}

func (c *cia) read(reg uint16) byte {
	reg &= 0x0f

	switch reg {
	case ciaPRA, ciaPRB:
		// inputs are pulled high
		return c.regs[reg] | ^c.regs[reg+ciaDDRA]
	case ciaTALo:
		return byte(c.timerA.counter)
	case ciaTAHi:
		return byte(c.timerA.counter >> 8)
	case ciaTBLo:
		return byte(c.timerB.counter)
	case ciaTBHi:
		return byte(c.timerB.counter >> 8)
	case ciaICR:
		v := c.icr
		if c.interrupt() {
			v |= 0x80
		}
		c.icr = 0
		return v
	case ciaCRA:
		v := c.regs[reg] &^ 0x01
		if c.timerA.running {
			v |= 0x01
		}
		return v
	case ciaCRB:
		v := c.regs[reg] &^ 0x01
		if c.timerB.running {
			v |= 0x01
		}
		return v
	}

	return c.regs[reg]
}

func (c *cia) write(reg uint16, v byte) {
	reg &= 0x0f

	switch reg {
	case ciaTALo:
		c.timerA.latch = c.timerA.latch&0xff00 | uint16(v)
	case ciaTAHi:
		c.timerA.latch = c.timerA.latch&0x00ff | uint16(v)<<8
		if !c.timerA.running {
			c.timerA.counter = c.timerA.latch
		}
	case ciaTBLo:
		c.timerB.latch = c.timerB.latch&0xff00 | uint16(v)
	case ciaTBHi:
		c.timerB.latch = c.timerB.latch&0x00ff | uint16(v)<<8
		if !c.timerB.running {
			c.timerB.counter = c.timerB.latch
		}
	case ciaICR:
		if v&0x80 != 0 {
			c.mask |= v & 0x1f
		} else {
			c.mask &^= v & 0x1f
		}
		return
	case ciaCRA:
		c.timerA.control(v)
		v &^= 0x10
	case ciaCRB:
		c.timerB.control(v)
		c.cascade = v&0x40 != 0
		v &^= 0x10
	}

	c.regs[reg] = v
}
