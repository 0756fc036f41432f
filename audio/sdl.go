package audio

import (
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"yaspg/sidplayfp/curated"
)

// the amount of audio queued before Write() waits for the device
const sdlQueueLength = 250 * time.Millisecond

// SDL plays audio through an SDL audio device. Samples are queued rather
// than pulled by a callback.
type SDL struct {
	id   sdl.AudioDeviceID
	spec sdl.AudioSpec
	buf  []byte

	// queued bytes above which Write() waits
	limit uint32
}

// NewSDL is the preferred method of initialisation for the SDL type.
func NewSDL(sampleRate int, channels int) (*SDL, error) {
	if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
		return nil, curated.Errorf(AudioError, err)
	}

	spec := &sdl.AudioSpec{
		Freq:     int32(sampleRate),
		Format:   sdl.AUDIO_S16LSB,
		Channels: uint8(channels),
		Samples:  4096,
	}

	aud := &SDL{}

	var err error
	aud.id, err = sdl.OpenAudioDevice("", false, spec, &aud.spec, 0)
	if err != nil {
		sdl.QuitSubSystem(sdl.INIT_AUDIO)
		return nil, curated.Errorf(AudioError, err)
	}

	bytesPerSecond := uint32(sampleRate) * uint32(channels) * 2
	aud.limit = uint32(float64(bytesPerSecond) * sdlQueueLength.Seconds())

	sdl.PauseAudioDevice(aud.id, false)

	return aud, nil
}

// Write implements the Sink interface.
func (aud *SDL) Write(samples []int16) error {
	for sdl.GetQueuedAudioSize(aud.id) > aud.limit {
		time.Sleep(10 * time.Millisecond)
	}

	aud.buf = pcmBytes(aud.buf, samples)
	if err := sdl.QueueAudio(aud.id, aud.buf); err != nil {
		return curated.Errorf(AudioError, err)
	}

	return nil
}

// Close implements the Sink interface. Audio that has been queued is played
// before the device is closed.
func (aud *SDL) Close() error {
	for sdl.GetQueuedAudioSize(aud.id) > 0 {
		time.Sleep(10 * time.Millisecond)
	}
	sdl.CloseAudioDevice(aud.id)
	sdl.QuitSubSystem(sdl.INIT_AUDIO)
	return nil
}
