package player

import (
	"fmt"

	"yaspg/sidplayfp/curated"
	"yaspg/sidplayfp/logger"
	"yaspg/sidplayfp/sidtune"
)

// cycles the CPU is idle for between checks for interrupts and frames
const idleCycles = 8

// seconds an init or play routine may run for before it is abandoned
const (
	initBudget = 5
	playBudget = 1
)

type routineKind int

const (
	noRoutine routineKind = iota

	// routine called as a subroutine. it is complete when it returns with
	// RTS
	callRoutine

	// interrupt handler. it is complete when it returns with RTI
	irqRoutine
)

// a routine run while the tune is being initialised
type stage struct {
	addr uint16
	a    byte

	// value of the processor port for the routine. zero leaves the port
	// unchanged
	port byte

	// prepare memory before the routine is called
	before func()
}

// driver calls the routines of the tune. In frame mode the play routine is
// called once per frame. In interrupt mode the tune is left to set up its
// own interrupts.
type driver struct {
	interruptMode bool
	speed         sidtune.Speed
	play          uint16

	kind    routineKind
	entrySP byte
	started uint64

	// routines still to run during initialisation
	stages       []stage
	initialising bool

	// a frame has started and the play routine has not been called
	tick bool
}

// the routines needed to initialise the tune
func (p *Player) initStages(inf sidtune.Info) []stage {
	song := byte(inf.CurrentSong - 1)

	var stages []stage

	realKernal := p.kernal != nil
	if realKernal && (inf.Compatibility == sidtune.CompatibilityR64 || inf.Compatibility == sidtune.CompatibilityBASIC) {
		stages = append(stages,
			stage{addr: kernalIOInit, port: 0x37},
			stage{addr: kernalRestor, port: 0x37},
		)
	}

	switch inf.Compatibility {
	case sidtune.CompatibilityBASIC:
		end := inf.LoadAddr + uint16(inf.C64DataLen)
		stages = append(stages,
			stage{addr: basicVectors, port: 0x37},
			stage{addr: basicRAMInit, port: 0x37},
			stage{addr: basicClr, port: 0x37, before: func() {
				// program start and end pointers
				p.m.mem.setRAMAddress(0x2b, inf.LoadAddr)
				p.m.mem.setRAMAddress(0x2d, end)
				p.m.mem.setRAMAddress(0x2f, end)
				p.m.mem.setRAMAddress(0x31, end)
				p.m.mem.setRAMAddress(0xae, end)
				p.m.mem.ram[basicSongIndex] = song
			}},
			stage{addr: basicRun, port: 0x37},
		)
	case sidtune.CompatibilityR64:
		stages = append(stages, stage{addr: inf.InitAddr, a: song, port: 0x37})
	default:
		stages = append(stages, stage{addr: inf.InitAddr, a: song, port: iomap(inf.InitAddr)})
	}

	return stages
}

// run the next initialisation routine
func (p *Player) nextStage() {
	d := &p.drv
	s := d.stages[0]
	d.stages = d.stages[1:]
	if s.before != nil {
		s.before()
	}
	p.call(s.addr, s.a, s.port)
}

// call a routine as a subroutine
func (p *Player) call(addr uint16, a byte, port byte) {
	m := p.m
	if port != 0 {
		m.mem.StoreByte(0x0001, port)
	}
	m.cpu.Reg.A = a
	m.cpu.Reg.X = 0
	m.cpu.Reg.Y = 0
	m.cpu.Reg.SP = 0xff
	m.cpu.Reg.InterruptDisable = true
	m.cpu.SetPC(addr)

	p.drv.kind = callRoutine
	p.drv.entrySP = 0xff
	p.drv.started = m.cycles
}

// enter an interrupt handler while the CPU is idle
func (p *Player) enterInterrupt(vector uint16) {
	m := p.m
	m.cpu.Reg.SP = 0xff
	m.interrupt(vector)

	p.drv.kind = irqRoutine
	p.drv.entrySP = m.cpu.Reg.SP
	p.drv.started = m.cycles
}

// step the machine by one instruction or, if no routine is running, by a
// short period of idle time
func (p *Player) step() {
	m := p.m
	d := &p.drv

	if d.kind == noRoutine {
		p.idle()
		return
	}

	pc := m.cpu.Reg.PC
	op := m.mem.LoadByte(pc)

	switch {
	case op == 0x60 && d.kind == callRoutine && m.cpu.Reg.SP == d.entrySP:
		p.routineDone()
		return
	case op == 0x40 && d.kind == irqRoutine && m.cpu.Reg.SP == d.entrySP:
		p.routineDone()
		return
	case d.kind == callRoutine && (pc == kernalIRQDefault || pc == kernalIRQExit) && m.mem.kernalVisible():
		// play routines written as interrupt handlers exit through the KERNAL
		p.routineDone()
		return
	case op == 0x00:
		logger.Logf(p, "player", "BRK at $%04x ends routine", pc)
		p.routineDone()
		return
	}

	switch opcodes[op] {
	case jam:
		p.end(curated.Errorf(EmulationFault, fmt.Sprintf("CPU jammed by opcode $%02x at $%04x", op, pc)))
		return
	case undocumented:
		if p.cfg.Strict {
			p.end(curated.Errorf(EmulationFault, fmt.Sprintf("undocumented opcode $%02x at $%04x", op, pc)))
			return
		}
		if !p.undocumented[op] {
			p.undocumented[op] = true
			logger.Logf(p, "player", "undocumented opcode $%02x at $%04x", op, pc)
		}
	}

	if m.trace != nil {
		inst := m.cpu.InstSet.Lookup(op)
		fmt.Fprintf(m.trace, "%10d  $%04x  %02x  %-4s A=%02x X=%02x Y=%02x SP=%02x\n",
			m.cycles, pc, op, inst.Name, m.cpu.Reg.A, m.cpu.Reg.X, m.cpu.Reg.Y, m.cpu.Reg.SP)
	}

	var cycles int
	if opcodes[op] == undocumented {
		var ok bool
		cycles, ok = m.executeUndocumented(op)
		if !ok {
			p.end(curated.Errorf(EmulationFault, fmt.Sprintf("unsupported opcode $%02x at $%04x", op, pc)))
			return
		}
	} else {
		before := m.cpu.Cycles
		m.cpu.Step()
		cycles = int(m.cpu.Cycles - before)
	}
	m.advance(cycles)

	p.events()

	if !d.interruptMode && d.kind != noRoutine {
		p.budget()
	}
}

// check that a routine called by the engine has not run for too long
func (p *Player) budget() {
	d := &p.drv
	m := p.m

	limit := playBudget
	what := "play"
	if d.initialising {
		limit = initBudget
		what = "init"
	}

	if m.cycles-d.started < uint64(float64(limit)*m.timing.clock) {
		return
	}

	if p.cfg.Strict {
		p.end(curated.Errorf(EmulationFault, fmt.Sprintf("%s routine did not return within %d seconds", what, limit)))
		return
	}

	logger.Logf(p, "player", "%s routine did not return within %d seconds. abandoning", what, limit)
	d.kind = noRoutine
	if d.initialising {
		d.stages = nil
		p.initDone()
	}
}

func (p *Player) idle() {
	m := p.m
	d := &p.drv

	if !d.interruptMode && d.tick {
		d.tick = false
		p.call(d.play, 0, iomap(d.play))
		return
	}

	m.advance(max(1, min(idleCycles, flushCycles-m.pending)))
	p.events()
}

// look for interrupts and frames
func (p *Player) events() {
	m := p.m
	d := &p.drv

	if !d.interruptMode {
		var frames int
		if d.speed == sidtune.SpeedCIA {
			frames = m.cia1.underflowsA
		} else {
			frames = m.vic.frames
		}
		m.cia1.underflowsA = 0
		m.vic.frames = 0

		if frames > 0 && !d.initialising {
			d.tick = true
		}
		return
	}

	switch {
	case m.nmiEdge():
		if d.kind == noRoutine {
			p.enterInterrupt(0xfffa)
		} else {
			m.interrupt(0xfffa)
		}
	case m.irq() && !m.cpu.Reg.InterruptDisable:
		if d.kind == noRoutine {
			p.enterInterrupt(0xfffe)
		} else {
			m.interrupt(0xfffe)
		}
	}
}

func (p *Player) routineDone() {
	d := &p.drv
	d.kind = noRoutine

	if d.initialising {
		if len(d.stages) > 0 {
			p.nextStage()
			return
		}
		p.initDone()
		return
	}

	if d.interruptMode {
		p.m.cpu.Reg.InterruptDisable = false
	}
}

func (p *Player) initDone() {
	d := &p.drv
	m := p.m

	d.initialising = false
	m.vic.frames = 0
	m.cia1.underflowsA = 0

	switch {
	case d.interruptMode:
		p.speedString = "real C64 interrupts"
		m.cpu.Reg.InterruptDisable = false
		if !p.interruptsLive() {
			logger.Log(p, "player", "tune has no play routine or interrupt handler")
			p.end(nil)
		}
	case d.speed == sidtune.SpeedCIA:
		p.speedString = fmt.Sprintf("CIA 1 timer A (%.2f Hz)", m.timing.clock/float64(uint32(m.cia1.timerA.latch)+1))
	default:
		p.speedString = fmt.Sprintf("VBI (%.2f Hz)", m.timing.frameRate())
	}

	logger.Logf(p, "player", "init complete after %d cycles. %s", m.cycles-p.startCycle, p.speedString)
}

// returns true if an interrupt can reach code installed by the tune
func (p *Player) interruptsLive() bool {
	m := p.m

	irqHandler := m.mem.LoadAddress(0xfffe)
	if m.mem.kernalVisible() && irqHandler == kernalIRQ {
		irqHandler = m.mem.ramAddress(vectorIRQ)
	}
	irq := (m.cia1.mask != 0 || m.vic.mask != 0) && irqHandler != kernalIRQDefault

	nmiHandler := m.mem.LoadAddress(0xfffa)
	if m.mem.kernalVisible() && nmiHandler == kernalNMI {
		nmiHandler = m.mem.ramAddress(vectorNMI)
	}
	nmi := m.cia2.mask != 0 && nmiHandler != kernalNMIDefault

	return irq || nmi
}

// prepare the machine in the same way as the KERNAL would
func (p *Player) environment(t timing) {
	m := p.m

	m.mem.setRAMAddress(vectorIRQ, kernalIRQDefault)
	m.mem.setRAMAddress(vectorBRK, kernalBRKDefault)
	m.mem.setRAMAddress(vectorNMI, kernalNMIDefault)

	if t.lines > 300 {
		m.mem.ram[palFlag] = 1
	} else {
		m.mem.ram[palFlag] = 0
	}

	// CIA 1 timer A interrupt at about 60Hz
	m.cia1.write(ciaTALo, byte(t.ciaTimer))
	m.cia1.write(ciaTAHi, byte(t.ciaTimer>>8))
	m.cia1.write(ciaICR, 0x80|ciaIntTimerA)
	m.cia1.write(ciaCRA, 0x11)

	// raster interrupt line used by many tunes
	m.vic.write(vicControl1, 0x1b)
	m.vic.write(vicRaster, 0x37)
}
