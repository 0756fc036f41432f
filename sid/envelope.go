package resid

type envelopeState int

const (
	envAttack envelopeState = iota
	envDecaySustain
	envRelease
)

func (s envelopeState) String() string {
	switch s {
	case envAttack:
		return "attack"
	case envDecaySustain:
		return "decay/sustain"
	case envRelease:
		return "release"
	}
	return "unknown"
}

// EnvelopeGenerator is the ADSR unit of a voice. A 15 bit rate counter
// divides the clock and an exponential counter further divides it for decay
// and release. Both are ENV3 verified.
type EnvelopeGenerator struct {
	rateCounter int
	ratePeriod  int

	exponentialCounter int
	exponentialPeriod  int

	// the 8 bit envelope level
	counter int

	// the level is frozen once it reaches zero until the next attack
	holdZero bool

	attack  uint8
	decay   uint8
	sustain uint8
	release uint8
	gate    bool

	state envelopeState
}

func NewEnvelopeGenerator() *EnvelopeGenerator {
	e := &EnvelopeGenerator{}
	e.Reset()
	return e
}

func (e *EnvelopeGenerator) Reset() {
	*e = EnvelopeGenerator{
		exponentialPeriod: 1,
		state:             envRelease,
		ratePeriod:        ratePeriods[0],
		holdZero:          true,
	}
}

// Clock the envelope by a number of cycles.
func (e *EnvelopeGenerator) Clock(cycles CycleCount) {
	// ADSR delay bug. a rate period lower than the rate counter means the
	// counter runs on until it wraps at 0x8000
	step := e.ratePeriod - e.rateCounter
	if step <= 0 {
		step += 0x7fff
	}

	for cycles > 0 {
		if cycles < CycleCount(step) {
			e.rateCounter += int(cycles)
			if e.rateCounter&0x8000 != 0 {
				e.rateCounter = (e.rateCounter + 1) & 0x7fff
			}
			return
		}

		e.rateCounter = 0
		cycles -= CycleCount(step)

		// the first step of attack also resets the exponential counter
		e.exponentialCounter++
		if e.state == envAttack || e.exponentialCounter == e.exponentialPeriod {
			e.exponentialCounter = 0
			if !e.holdZero {
				e.stepLevel()
			}
		}

		step = e.ratePeriod
	}
}

// move the envelope level one step for the current state
func (e *EnvelopeGenerator) stepLevel() {
	switch e.state {
	case envAttack:
		// the level can wrap from 0xff to 0x00 by going to release and back to
		// attack. it is then frozen at zero
		e.counter = (e.counter + 1) & 0xff
		if e.counter == 0xff {
			e.state = envDecaySustain
			e.ratePeriod = ratePeriods[e.decay]
		}
	case envDecaySustain:
		if e.counter != sustainLevel(e.sustain) {
			e.counter--
		}
	case envRelease:
		// the level can wrap from 0x00 to 0xff by going to attack and back to
		// release. it then continues down
		e.counter = (e.counter - 1) & 0xff
	}

	if p := exponentialPeriods[e.counter]; p != 0 {
		e.exponentialPeriod = int(p)
	}
	if e.counter == 0 {
		e.holdZero = true
	}
}

// Output is the current envelope level.
func (e *EnvelopeGenerator) Output() reg8 {
	return reg8(e.counter)
}

// State is the current stage of the envelope.
func (e *EnvelopeGenerator) State() envelopeState {
	return e.state
}

// ratePeriods are the rate counter comparison values for each of the 16
// attack, decay and release settings. They are the Programmer's Reference
// Guide timings measured from ENV3, one cycle longer than calculated.
var ratePeriods = [16]int{
	9, 32, 63, 95, 149, 220, 267, 313,
	392, 977, 1954, 3126, 3907, 11720, 19532, 31251,
}

// exponentialPeriods approximate the exponential decay and release curve. The
// period changes as the level passes each of these values. Zero entries leave
// the period unchanged.
var exponentialPeriods = [256]uint8{
	0xff: 1,
	0x5d: 2,
	0x36: 4,
	0x1a: 8,
	0x0e: 16,
	0x06: 30,
	0x00: 1,
}

// both nibbles of the level are compared to the sustain value
func sustainLevel(sustain uint8) int {
	return int(sustain)<<4 | int(sustain)
}

// writeControl handles the gate bit of the control register. The rate counter
// is not reset so the first step of the new state is delayed.
func (e *EnvelopeGenerator) writeControl(control reg8) {
	gate := control&0x01 != 0

	switch {
	case gate && !e.gate:
		e.state = envAttack
		e.ratePeriod = ratePeriods[e.attack]
		e.holdZero = false
	case !gate && e.gate:
		e.state = envRelease
		e.ratePeriod = ratePeriods[e.release]
	}

	e.gate = gate
}

func (e *EnvelopeGenerator) writeAttackDecay(v reg8) {
	e.attack = uint8(v>>4) & 0x0f
	e.decay = uint8(v) & 0x0f

	switch e.state {
	case envAttack:
		e.ratePeriod = ratePeriods[e.attack]
	case envDecaySustain:
		e.ratePeriod = ratePeriods[e.decay]
	}
}

func (e *EnvelopeGenerator) writeSustainRelease(v reg8) {
	e.sustain = uint8(v>>4) & 0x0f
	e.release = uint8(v) & 0x0f

	if e.state == envRelease {
		e.ratePeriod = ratePeriods[e.release]
	}
}
