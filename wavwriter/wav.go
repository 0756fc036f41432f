// Package wavwriter writes the output of the player to a WAV file. Samples
// are encoded as they are written so there is no limit on the length of the
// recording.
package wavwriter

import (
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"yaspg/sidplayfp/curated"
	"yaspg/sidplayfp/logger"
)

// WavError is the pattern for all errors returned by the package.
const WavError = "wavwriter: %v"

const bitDepth = 16

// format code for PCM in the WAV header
const pcmFormat = 1

// WavWriter encodes interleaved 16-bit samples to a file.
type WavWriter struct {
	filename string
	f        *os.File
	enc      *wav.Encoder
	buf      audio.IntBuffer
	samples  int
}

// New is the preferred method of initialisation for the WavWriter type.
func New(filename string, sampleRate int, channels int) (*WavWriter, error) {
	if channels < 1 || channels > 2 {
		return nil, curated.Errorf(WavError, "unsupported number of channels")
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, curated.Errorf(WavError, err)
	}

	ww := &WavWriter{
		filename: filename,
		f:        f,
		enc:      wav.NewEncoder(f, sampleRate, bitDepth, channels, pcmFormat),
		buf: audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: channels,
				SampleRate:  sampleRate,
			},
			SourceBitDepth: bitDepth,
		},
	}

	logger.Logf(logger.Allow, "wavwriter", "writing audio to %s", filename)

	return ww, nil
}

// Write encodes the samples. Implements the audio.Sink interface used by the
// command line player.
func (ww *WavWriter) Write(samples []int16) error {
	ww.buf.Data = ww.buf.Data[:0]
	for _, s := range samples {
		ww.buf.Data = append(ww.buf.Data, int(s))
	}

	if err := ww.enc.Write(&ww.buf); err != nil {
		return curated.Errorf(WavError, err)
	}
	ww.samples += len(samples)

	return nil
}

// Samples returns the number of samples written so far.
func (ww *WavWriter) Samples() int {
	return ww.samples
}

// Close completes the header of the file and closes it.
func (ww *WavWriter) Close() (rerr error) {
	defer func() {
		err := ww.f.Close()
		if err != nil && rerr == nil {
			rerr = curated.Errorf(WavError, err)
		}
	}()

	if err := ww.enc.Close(); err != nil {
		return curated.Errorf(WavError, err)
	}

	logger.Logf(logger.Allow, "wavwriter", "%d samples written to %s", ww.samples, ww.filename)

	return nil
}
