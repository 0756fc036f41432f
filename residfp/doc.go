// Package residfp is a floating point, cycle by cycle model of the MOS6581
// and MOS8580 SID chips.
//
// Compared with the integer model in the resid package, the voices are
// passed through models of the R-2R ladder DACs of the chip, the combined
// waveforms are generated from a bit interaction model, and the filter is a
// floating point state variable filter with a tunable cutoff curve. The 6581
// filter soft-clips its integrators.
//
// The chip is clocked one cycle at a time and each cycle is passed to a
// resampler from the resample package.
package residfp
