package audio

import (
	"testing"

	"yaspg/sidplayfp/curated"
	"yaspg/sidplayfp/test"
)

func TestPCMBytes(t *testing.T) {
	b := pcmBytes(nil, []int16{0x1234, -2})
	test.DemandEquality(t, len(b), 4)
	test.ExpectEquality(t, b[0], uint8(0x34))
	test.ExpectEquality(t, b[1], uint8(0x12))
	test.ExpectEquality(t, b[2], uint8(0xfe))
	test.ExpectEquality(t, b[3], uint8(0xff))

	// the buffer is reused
	c := pcmBytes(b, []int16{1})
	test.ExpectEquality(t, len(c), 2)
	test.ExpectEquality(t, &c[0], &b[0])
}

func TestUnknownDriver(t *testing.T) {
	_, err := NewDriver("alsa", 44100, 1)
	test.ExpectSuccess(t, curated.Is(err, AudioError))
}
