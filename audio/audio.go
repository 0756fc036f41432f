// Package audio sends the output of the player to the sound card. Two
// drivers are available, one using SDL and one using oto. Both implement the
// Sink interface, as does the WAV writer in the wavwriter package.
package audio

import (
	"encoding/binary"
	"strings"

	"yaspg/sidplayfp/curated"
)

// AudioError is the pattern for all errors returned by the package.
const AudioError = "audio: %v"

// Sink receives interleaved 16-bit samples. Write() blocks until the sink
// can accept more samples.
type Sink interface {
	Write(samples []int16) error
	Close() error
}

// List of driver names accepted by NewDriver().
const (
	DriverSDL = "sdl"
	DriverOto = "oto"
)

// NewDriver opens the named driver.
func NewDriver(name string, sampleRate int, channels int) (Sink, error) {
	switch strings.ToLower(name) {
	case DriverSDL:
		return NewSDL(sampleRate, channels)
	case DriverOto:
		return NewOto(sampleRate, channels)
	}
	return nil, curated.Errorf(AudioError, "unknown driver "+name)
}

// little endian byte form of the samples. the dst slice is reused if it is
// large enough
func pcmBytes(dst []byte, samples []int16) []byte {
	n := len(samples) * 2
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	for i, s := range samples {
		binary.LittleEndian.PutUint16(dst[i*2:], uint16(s))
	}
	return dst
}
