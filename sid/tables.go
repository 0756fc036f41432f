package resid

// Filter cutoff frequency tables and combined waveform tables. Both are
// built once when the package is initialised.
//
// The cutoff tables are interpolated from measured (FC, f0) points. The
// 6581 curve has a discontinuity between FC=0x3ff and FC=0x400 which is
// reproduced by repeating the points either side of it.
//
// The combined waveform tables are generated from a short circuit model of
// the oscillator DAC inputs. The bits of the combined waveforms are AND'ed and
// then each bit is pulled low by zero neighbours. The 6581 pulls a bit low
// if either neighbour is zero. The 8580 only pulls a bit low if both
// neighbours are zero.

var filter6581 []int16
var filter8580 []int16

var wave6581__ST []reg8
var wave6581_P_T []reg8
var wave6581_PS_ []reg8
var wave6581_PST []reg8

var wave8580__ST []reg8
var wave8580_P_T []reg8
var wave8580_PS_ []reg8
var wave8580_PST []reg8

type fcPoint struct {
	fc int
	f0 int
}

var f0Points6581 = []fcPoint{
	{0, 220},
	{128, 230},
	{256, 250},
	{384, 300},
	{512, 420},
	{640, 780},
	{768, 1600},
	{832, 2300},
	{896, 3200},
	{960, 4300},
	{992, 5000},
	{1008, 5400},
	{1016, 5700},
	{1023, 6000},
	{1024, 4600},
	{1032, 4800},
	{1056, 5300},
	{1088, 6000},
	{1120, 6600},
	{1152, 7200},
	{1280, 9500},
	{1408, 12000},
	{1536, 14500},
	{1664, 16000},
	{1792, 17100},
	{1920, 17700},
	{2047, 18000},
}

var f0Points8580 = []fcPoint{
	{0, 0},
	{128, 800},
	{256, 1600},
	{384, 2500},
	{512, 3300},
	{640, 4100},
	{768, 4800},
	{896, 5600},
	{1024, 6500},
	{1152, 7500},
	{1280, 8400},
	{1408, 9200},
	{1536, 9800},
	{1664, 10500},
	{1792, 11000},
	{1920, 11700},
	{2047, 12500},
}

func init() {
	filter6581 = interpolateF0(f0Points6581)
	filter8580 = interpolateF0(f0Points8580)

	wave6581__ST, wave6581_P_T, wave6581_PS_, wave6581_PST = combinedWaveforms(pulldown6581)
	wave8580__ST, wave8580_P_T, wave8580_PS_, wave8580_PST = combinedWaveforms(pulldown8580)
}

// linear interpolation between the points. the table covers the 11 bit range
// of the FC register
func interpolateF0(points []fcPoint) []int16 {
	t := make([]int16, 0x800)
	for i := 0; i < len(points)-1; i++ {
		p0 := points[i]
		p1 := points[i+1]
		dx := p1.fc - p0.fc
		for fc := p0.fc; fc <= p1.fc; fc++ {
			if dx == 0 {
				t[fc] = int16(p0.f0)
				continue
			}
			t[fc] = int16(p0.f0 + (p1.f0-p0.f0)*(fc-p0.fc)/dx)
		}
	}
	return t
}

// triangle output for the upper 12 bits of the accumulator
func triangle12(acc reg12) reg12 {
	if acc&0x800 != 0 {
		return (^acc << 1) & 0xffe
	}
	return (acc << 1) & 0xffe
}

func pulldown6581(v reg12) reg12 {
	return v & (v << 1) & (v >> 1) & 0xfff
}

func pulldown8580(v reg12) reg12 {
	return v & ((v << 1) | (v >> 1)) & 0xfff
}

func combinedWaveforms(pulldown func(reg12) reg12) (st, pt, ps, pst []reg8) {
	st = make([]reg8, 0x1000)
	pt = make([]reg8, 0x1000)
	ps = make([]reg8, 0x1000)
	pst = make([]reg8, 0x1000)

	for i := range reg12(0x1000) {
		saw := i
		tri := triangle12(i)

		st[i] = reg8(pulldown(saw&tri) >> 4)
		ps[i] = reg8(pulldown(saw) >> 4)
		pst[i] = reg8(pulldown(pulldown(saw&tri)) >> 4)

		// pulse+triangle is indexed by the triangle output shifted right by
		// one bit, so the index is the 11 bit triangle value
		pt[i] = reg8(pulldown((i<<1)&0xffe) >> 4)
	}

	return st, pt, ps, pst
}
