package residfp

import "math"

// externalFilter is the RC network on the C64 board. A 16kHz lowpass
// followed by a 16Hz highpass.
type externalFilter struct {
	enabled bool
	wlp     float64
	whp     float64
	vlp     float64
	vhp     float64
}

func (e *externalFilter) setClock(clockFreq float64) {
	e.wlp = 1 - math.Exp(-2*math.Pi*15915.6/clockFreq)
	e.whp = 1 - math.Exp(-2*math.Pi*15.9155/clockFreq)
}

func (e *externalFilter) reset() {
	e.vlp = 0
	e.vhp = 0
}

func (e *externalFilter) clock(vi float64) float64 {
	if !e.enabled {
		return vi
	}
	e.vlp += e.wlp * (vi - e.vlp)
	e.vhp += e.whp * (e.vlp - e.vhp)
	return e.vlp - e.vhp
}
