package audio

import (
	"io"
	"time"

	"github.com/ebitengine/oto/v3"

	"yaspg/sidplayfp/curated"
)

// Oto plays audio with the oto library. The oto player pulls samples from a
// pipe that is fed by Write().
type Oto struct {
	ctx    *oto.Context
	player *oto.Player
	pr     *io.PipeReader
	pw     *io.PipeWriter
	buf    []byte
}

// oto allows only one context per process
var otoContext *oto.Context

// NewOto is the preferred method of initialisation for the Oto type.
func NewOto(sampleRate int, channels int) (*Oto, error) {
	if otoContext == nil {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channels,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   100 * time.Millisecond,
		}

		ctx, ready, err := oto.NewContext(op)
		if err != nil {
			return nil, curated.Errorf(AudioError, err)
		}
		<-ready
		otoContext = ctx
	}

	aud := &Oto{ctx: otoContext}
	aud.pr, aud.pw = io.Pipe()
	aud.player = aud.ctx.NewPlayer(aud.pr)
	aud.player.Play()

	return aud, nil
}

// Write implements the Sink interface.
func (aud *Oto) Write(samples []int16) error {
	aud.buf = pcmBytes(aud.buf, samples)
	if _, err := aud.pw.Write(aud.buf); err != nil {
		return curated.Errorf(AudioError, err)
	}
	return nil
}

// Close implements the Sink interface.
func (aud *Oto) Close() error {
	_ = aud.pw.Close()
	for aud.player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
	aud.player.Close()
	return nil
}
