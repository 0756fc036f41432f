// Package curated is a helper package for the error values returned by the
// engine packages. Errors are created from a pattern and a list of values.
// The pattern identifies the class of error (see the pattern constants
// exported by the sidtune, player and songlength packages) and is what
// callers test against with Is() and Has().
//
//	err := curated.Errorf(sidtune.FormatError, "bad magic")
//	if curated.Is(err, sidtune.FormatError) {
//		...
//	}
//
// When a curated error is wrapped inside another curated error, the chain
// can be searched with Has(). Repeated leading message parts are collapsed
// when the error is printed, so wrapping an error in its own pattern does
// not produce stuttering messages.
package curated
