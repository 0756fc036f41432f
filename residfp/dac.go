package residfp

// resistance used in place of a missing termination
const rInfinity = 1e6

// kinkedDac calculates the output of an R-2R ladder DAC with the given
// number of bits and 2R/R resistor ratio for each bit. The 6581 ladders have
// no termination resistor and a 2R/R ratio of about 2.20. The ladders in the
// 8580 are terminated and the ratio is correct at 2.00.
//
// The result is normalised so that the sum over all bits is 2^bits, that is
// an ideal DAC returns the input value.
func kinkedDac(bits int, ratio2RdivR float64, term bool) []float64 {
	dac := make([]float64, bits)

	for setBit := range bits {
		Vn := 1.0
		R := 1.0
		R2 := ratio2RdivR * R

		Rn := rInfinity
		if term {
			Rn = R2
		}

		// resistance of the ladder below the bit
		for range setBit {
			if Rn == rInfinity {
				Rn = R + R2
			} else {
				Rn = R + (R2*Rn)/(R2+Rn)
			}
		}

		// source transformation for the bit voltage
		if Rn == rInfinity {
			Rn = R2
		} else {
			Rn = (R2 * Rn) / (R2 + Rn)
			Vn = Vn * Rn / R2
		}

		// voltage contribution of the bit at the output
		for range bits - setBit - 1 {
			Rn += R
			I := Vn / Rn
			Rn = (R2 * Rn) / (R2 + Rn)
			Vn = Rn * I
		}

		dac[setBit] = Vn
	}

	sum := 0.0
	for _, v := range dac {
		sum += v
	}
	sum /= float64(int(1) << bits)

	for i := range dac {
		dac[i] /= sum
	}

	return dac
}

// dacTable expands the per-bit contributions into a lookup table indexed by
// the input value
func dacTable(bits int, ratio2RdivR float64, term bool) []float64 {
	dac := kinkedDac(bits, ratio2RdivR, term)
	t := make([]float64, 1<<bits)
	for v := range t {
		for b := range bits {
			if v&(1<<b) != 0 {
				t[v] += dac[b]
			}
		}
	}
	return t
}
