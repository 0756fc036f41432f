package residfp

type envelopeState int

const (
	attack envelopeState = iota
	decaySustain
	release
)

// number of cycles between envelope steps for each of the 16 rate settings
var ratePeriods = [16]uint32{
	9, 32, 63, 95, 149, 220, 267, 313,
	392, 977, 1954, 3126, 3907, 11720, 19532, 31251,
}

// envelope counter values at which the exponential period changes on the
// way down and the period used below that value
var expThresholds = [...]struct {
	level  uint8
	period int
}{
	{0xff, 1},
	{0x5d, 2},
	{0x36, 4},
	{0x1a, 8},
	{0x0e, 16},
	{0x06, 30},
	{0x00, 1},
}

type envelopeGenerator struct {
	rateCounter uint32
	ratePeriod  uint32

	expCounter int
	expPeriod  int

	counter  uint8
	holdZero bool

	attack  uint8
	decay   uint8
	sustain uint8
	release uint8
	gate    bool
	state   envelopeState
}

func (e *envelopeGenerator) reset() {
	*e = envelopeGenerator{
		expPeriod:  1,
		state:      release,
		ratePeriod: ratePeriods[0],
		holdZero:   true,
	}
}

func (e *envelopeGenerator) writeControl(control uint8) {
	gate := control&0x01 != 0

	if !e.gate && gate {
		e.state = attack
		e.ratePeriod = ratePeriods[e.attack]
		e.holdZero = false
	} else if e.gate && !gate {
		e.state = release
		e.ratePeriod = ratePeriods[e.release]
	}

	e.gate = gate
}

func (e *envelopeGenerator) writeAttackDecay(v uint8) {
	e.attack = v >> 4
	e.decay = v & 0x0f
	switch e.state {
	case attack:
		e.ratePeriod = ratePeriods[e.attack]
	case decaySustain:
		e.ratePeriod = ratePeriods[e.decay]
	}
}

func (e *envelopeGenerator) writeSustainRelease(v uint8) {
	e.sustain = v >> 4
	e.release = v & 0x0f
	if e.state == release {
		e.ratePeriod = ratePeriods[e.release]
	}
}

// clock the envelope one cycle. the rate counter is 15 bits wide and wraps
// when the period is lowered below the current count
func (e *envelopeGenerator) clock() {
	e.rateCounter++
	if e.rateCounter&0x8000 != 0 {
		e.rateCounter = (e.rateCounter + 1) & 0x7fff
	}

	if e.rateCounter != e.ratePeriod {
		return
	}
	e.rateCounter = 0

	e.expCounter++
	if e.state != attack && e.expCounter != e.expPeriod {
		return
	}
	e.expCounter = 0

	if e.holdZero {
		return
	}

	switch e.state {
	case attack:
		e.counter++
		if e.counter == 0xff {
			e.state = decaySustain
			e.ratePeriod = ratePeriods[e.decay]
		}
	case decaySustain:
		if e.counter != e.sustain<<4|e.sustain {
			e.counter--
		}
	case release:
		e.counter--
	}

	for _, t := range expThresholds {
		if e.counter == t.level {
			e.expPeriod = t.period
			break
		}
	}

	if e.counter == 0 {
		e.holdZero = true
	}
}

func (e *envelopeGenerator) output() uint8 {
	return e.counter
}
